package config

import (
	"fmt"
	"strings"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/lua"
	"github.com/opd-ai/go-grapher/internal/plot"
)

// GlobalName is the Lua global a scene fills in.
const GlobalName = "plot"

// initPlotGlobal installs an empty plot table so scenes can assign fields
// without creating it first.
func initPlotGlobal(runtime *lua.Runtime) {
	plotTable := rt.NewTable()
	plotTable.Set(rt.StringValue("window"), rt.TableValue(rt.NewTable()))
	plotTable.Set(rt.StringValue("graph"), rt.TableValue(rt.NewTable()))
	plotTable.Set(rt.StringValue("curves"), rt.TableValue(rt.NewTable()))
	plotTable.Set(rt.StringValue("points"), rt.TableValue(rt.NewTable()))

	runtime.SetGlobal(GlobalName, rt.TableValue(plotTable))
}

// extractConfig reads the plot table after the scene chunk has run.
// Curve functions stay bound to runtime.
func extractConfig(runtime *lua.Runtime) (Config, []*lua.Sampler, error) {
	cfg := DefaultConfig()

	plotVal := runtime.GetGlobal(GlobalName)
	if plotVal == rt.NilValue {
		return cfg, nil, nil
	}
	plotTable, ok := plotVal.TryTable()
	if !ok {
		return cfg, nil, fmt.Errorf("%s is not a table", GlobalName)
	}

	if t, ok := plotTable.Get(rt.StringValue("window")).TryTable(); ok {
		if err := extractWindow(&cfg.Window, t); err != nil {
			return cfg, nil, fmt.Errorf("plot.window: %w", err)
		}
	}
	if t, ok := plotTable.Get(rt.StringValue("graph")).TryTable(); ok {
		if err := extractGraph(&cfg.Graph, t); err != nil {
			return cfg, nil, fmt.Errorf("plot.graph: %w", err)
		}
	}

	var samplers []*lua.Sampler
	if t, ok := plotTable.Get(rt.StringValue("curves")).TryTable(); ok {
		curves, s, err := extractCurves(runtime, t)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Curves, samplers = curves, s
	}
	if t, ok := plotTable.Get(rt.StringValue("points")).TryTable(); ok {
		datasets, err := extractDatasets(t)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Datasets = datasets
	}

	return cfg, samplers, nil
}

func extractWindow(wc *WindowConfig, table *rt.Table) error {
	if val := getTableString(table, "title"); val != nil {
		wc.Title = *val
	}
	if val := getTableInt(table, "width"); val != nil {
		wc.Width = *val
	}
	if val := getTableInt(table, "height"); val != nil {
		wc.Height = *val
	}
	if val := getTableInt(table, "fps"); val != nil {
		wc.FPS = *val
	}
	if val := getTableInt(table, "scale"); val != nil {
		wc.Scale = *val
	}
	if val := getTableBool(table, "on_top"); val != nil {
		wc.OnTop = *val
	}

	x, y := getTableInt(table, "x"), getTableInt(table, "y")
	if x != nil || y != nil {
		wc.Positioned = true
		if x != nil {
			wc.Position.X = *x
		}
		if y != nil {
			wc.Position.Y = *y
		}
	}
	return nil
}

func extractGraph(gc *GraphConfig, table *rt.Table) error {
	if val := getTableInt(table, "axis_offset"); val != nil {
		gc.AxisOffset = *val
	}
	if val := getTableInt(table, "thickness"); val != nil {
		gc.Thickness = *val
	}
	if val := getTableInt(table, "label_scale"); val != nil {
		gc.LabelScale = *val
	}
	if val := getTableFloat(table, "x_step"); val != nil {
		gc.XStep = *val
	}
	if val := getTableFloat(table, "y_step"); val != nil {
		gc.YStep = *val
	}

	ranges := []struct {
		key    string
		target *plot.AxisRange
	}{
		{"x", &gc.X},
		{"y", &gc.Y},
	}
	for _, r := range ranges {
		val, err := getTableRange(table, r.key)
		if err != nil {
			return fmt.Errorf("invalid %s range: %w", r.key, err)
		}
		if val != nil {
			*r.target = *val
		}
	}

	colors := []struct {
		key    string
		target *canvas.Color
	}{
		{"background", &gc.Background},
		{"axis_color", &gc.AxisColor},
		{"grid_color", &gc.GridColor},
	}
	for _, c := range colors {
		val, err := getTableColor(table, c.key)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", c.key, err)
		}
		if val != nil {
			*c.target = *val
		}
	}
	return nil
}

func extractCurves(runtime *lua.Runtime, table *rt.Table) ([]CurveConfig, []*lua.Sampler, error) {
	entries := arrayValues(table)
	curves := make([]CurveConfig, 0, len(entries))
	samplers := make([]*lua.Sampler, 0, len(entries))

	for i, entry := range entries {
		t, ok := entry.TryTable()
		if !ok {
			return nil, nil, fmt.Errorf("plot.curves[%d]: expected a table, got %s", i+1, entry.TypeName())
		}

		curve := CurveConfig{
			Name:  fmt.Sprintf("curve%d", i+1),
			Color: DefaultCurveColor,
			Step:  DefaultCurveStep,
		}
		if val := getTableString(t, "name"); val != nil {
			curve.Name = *val
		}
		if val := getTableInt(t, "step"); val != nil {
			curve.Step = *val
		}
		if val := getTableString(t, "orientation"); val != nil {
			o, err := ParseOrientation(*val)
			if err != nil {
				return nil, nil, fmt.Errorf("plot.curves[%d]: %w", i+1, err)
			}
			curve.Orientation = o
		}
		col, err := getTableColor(t, "color")
		if err != nil {
			return nil, nil, fmt.Errorf("plot.curves[%d]: invalid color: %w", i+1, err)
		}
		if col != nil {
			curve.Color = *col
		}

		sampler, err := curveSampler(runtime, curve, t.Get(rt.StringValue("fn")))
		if err != nil {
			return nil, nil, fmt.Errorf("plot.curves[%d]: %w", i+1, err)
		}
		curve.Sampler = sampler
		curves = append(curves, curve)
		samplers = append(samplers, sampler)
	}
	return curves, samplers, nil
}

// curveSampler builds a sampler from a Lua function or from an expression
// string in the curve's free variable, such as "math.sin(x) * 2".
func curveSampler(runtime *lua.Runtime, curve CurveConfig, fn rt.Value) (*lua.Sampler, error) {
	if expr, ok := fn.TryString(); ok {
		param := "x"
		if curve.Orientation == OrientationY {
			param = "y"
		}
		code := fmt.Sprintf("return function(%s) return %s end", param, expr)
		compiled, err := runtime.ExecuteString(curve.Name, code)
		if err != nil {
			return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
		}
		fn = compiled
	}
	if fn == rt.NilValue {
		return nil, fmt.Errorf("curve %q has no fn", curve.Name)
	}
	return lua.NewSampler(runtime, curve.Name, fn)
}

func extractDatasets(table *rt.Table) ([]DatasetConfig, error) {
	entries := arrayValues(table)
	datasets := make([]DatasetConfig, 0, len(entries))

	for i, entry := range entries {
		t, ok := entry.TryTable()
		if !ok {
			return nil, fmt.Errorf("plot.points[%d]: expected a table, got %s", i+1, entry.TypeName())
		}

		ds := DatasetConfig{
			Name:  fmt.Sprintf("points%d", i+1),
			Scale: DefaultPointScale,
			Color: DefaultPointColor,
		}
		if val := getTableString(t, "name"); val != nil {
			ds.Name = *val
		}
		if val := getTableInt(t, "scale"); val != nil {
			ds.Scale = *val
		}
		col, err := getTableColor(t, "color")
		if err != nil {
			return nil, fmt.Errorf("plot.points[%d]: invalid color: %w", i+1, err)
		}
		if col != nil {
			ds.Color = *col
		}

		if data, ok := t.Get(rt.StringValue("data")).TryTable(); ok {
			for j, pv := range arrayValues(data) {
				p, err := valuePoint(pv)
				if err != nil {
					return nil, fmt.Errorf("plot.points[%d].data[%d]: %w", i+1, j+1, err)
				}
				ds.Points = append(ds.Points, p)
			}
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// arrayValues returns table[1], table[2], ... up to the first nil.
func arrayValues(table *rt.Table) []rt.Value {
	var out []rt.Value
	for i := int64(1); ; i++ {
		v := table.Get(rt.IntValue(i))
		if v == rt.NilValue {
			return out
		}
		out = append(out, v)
	}
}

// valuePoint reads {x, y} or {x = .., y = ..}.
func valuePoint(v rt.Value) (plot.Point, error) {
	t, ok := v.TryTable()
	if !ok {
		return plot.Point{}, fmt.Errorf("expected {x, y}, got %s", v.TypeName())
	}
	x, y := getTableFloat(t, "x"), getTableFloat(t, "y")
	if x == nil || y == nil {
		xs, ys := t.Get(rt.IntValue(1)), t.Get(rt.IntValue(2))
		xf, okX := valueFloat(xs)
		yf, okY := valueFloat(ys)
		if !okX || !okY {
			return plot.Point{}, fmt.Errorf("expected two numbers")
		}
		return plot.Pt(xf, yf), nil
	}
	return plot.Pt(*x, *y), nil
}

// getTableRange reads {min, max} or {min = .., max = ..}.
// Returns nil if the key doesn't exist.
func getTableRange(table *rt.Table, key string) (*plot.AxisRange, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}
	t, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("expected {min, max}, got %s", val.TypeName())
	}

	lo, hi := getTableFloat(t, "min"), getTableFloat(t, "max")
	if lo != nil && hi != nil {
		return &plot.AxisRange{Min: *lo, Max: *hi}, nil
	}
	minV, okMin := valueFloat(t.Get(rt.IntValue(1)))
	maxV, okMax := valueFloat(t.Get(rt.IntValue(2)))
	if !okMin || !okMax {
		return nil, fmt.Errorf("expected two numbers")
	}
	return &plot.AxisRange{Min: minV, Max: maxV}, nil
}

// getTableColor reads a color name, a hex string, or a 0xRRGGBB integer.
// Returns nil if the key doesn't exist.
func getTableColor(table *rt.Table, key string) (*canvas.Color, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}
	if n, ok := val.TryInt(); ok {
		if n < 0 || n > 0xffffff {
			return nil, fmt.Errorf("color %#x out of range", n)
		}
		c := canvas.Color(n)
		return &c, nil
	}
	if s, ok := val.TryString(); ok {
		c, err := canvas.ParseColor(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	return nil, fmt.Errorf("expected a color, got %s", val.TypeName())
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	if f, ok := valueFloat(table.Get(rt.StringValue(key))); ok {
		return &f
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table, truncating floats.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}

func getTableBool(table *rt.Table, key string) *bool {
	if b, ok := table.Get(rt.StringValue(key)).TryBool(); ok {
		return &b
	}
	return nil
}

func valueFloat(v rt.Value) (float64, bool) {
	if f, ok := v.TryFloat(); ok {
		return f, true
	}
	if n, ok := v.TryInt(); ok {
		return float64(n), true
	}
	return 0, false
}

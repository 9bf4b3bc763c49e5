package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Limits past which a value is accepted with a warning.
const (
	maxDimension = 10000
	maxFPS       = 240
	maxThickness = 32
	maxTicks     = 1000
)

// Validator checks a Config for values the renderer cannot honor.
type Validator struct {
	// strictMode turns every warning into an error.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode enables strict validation where warnings are errors.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs comprehensive validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateWindow(&cfg.Window, result)
	v.validateGraph(&cfg.Graph, &cfg.Window, result)
	v.validateCurves(cfg.Curves, result)
	v.validateDatasets(cfg, result)

	if len(cfg.Curves) == 0 && len(cfg.Datasets) == 0 {
		result.AddWarning("plot", "scene has no curves or points; only axes are drawn")
	}

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("window.width", fmt.Sprintf("must be positive, got %d", wc.Width))
	}
	if wc.Height <= 0 {
		result.AddError("window.height", fmt.Sprintf("must be positive, got %d", wc.Height))
	}
	if wc.Width > maxDimension {
		result.AddWarning("window.width", fmt.Sprintf("unusually large value %d", wc.Width))
	}
	if wc.Height > maxDimension {
		result.AddWarning("window.height", fmt.Sprintf("unusually large value %d", wc.Height))
	}

	if wc.FPS <= 0 {
		result.AddError("window.fps", fmt.Sprintf("must be positive, got %d", wc.FPS))
	} else if wc.FPS > maxFPS {
		result.AddWarning("window.fps", fmt.Sprintf("very high frame rate %d may cause high CPU usage", wc.FPS))
	}

	if wc.Scale < 1 {
		result.AddError("window.scale", fmt.Sprintf("must be at least 1, got %d", wc.Scale))
	}
	if strings.TrimSpace(wc.Title) == "" {
		result.AddWarning("window.title", "empty title")
	}
}

func (v *Validator) validateGraph(gc *GraphConfig, wc *WindowConfig, result *ValidationResult) {
	if wc.Width > 0 && wc.Height > 0 {
		if err := gc.Settings().Validate(wc.Width, wc.Height); err != nil {
			result.AddError("graph", err.Error())
		}
	}

	steps := []struct {
		field string
		step  float64
		span  float64
	}{
		{"graph.x_step", gc.XStep, gc.X.Span()},
		{"graph.y_step", gc.YStep, gc.Y.Span()},
	}
	for _, s := range steps {
		switch {
		case s.step < 0:
			result.AddError(s.field, fmt.Sprintf("must be non-negative, got %v", s.step))
		case s.step == 0:
			result.AddWarning(s.field, "zero step draws the axis without ticks")
		case s.span > 0 && s.span/s.step > maxTicks:
			result.AddWarning(s.field, fmt.Sprintf("%v produces more than %d ticks", s.step, maxTicks))
		}
	}

	if gc.Thickness < 1 {
		result.AddError("graph.thickness", fmt.Sprintf("must be at least 1, got %d", gc.Thickness))
	} else if gc.Thickness > maxThickness {
		result.AddWarning("graph.thickness", fmt.Sprintf("unusually large value %d", gc.Thickness))
	}
	if gc.LabelScale < 1 {
		result.AddError("graph.label_scale", fmt.Sprintf("must be at least 1, got %d", gc.LabelScale))
	}
	if gc.AxisColor == gc.Background {
		result.AddWarning("graph.axis_color", "same as background; axes will be invisible")
	}
}

func (v *Validator) validateCurves(curves []CurveConfig, result *ValidationResult) {
	seen := make(map[string]bool, len(curves))
	for i, c := range curves {
		field := fmt.Sprintf("curves[%d]", i+1)
		if c.Sampler == nil {
			result.AddError(field+".fn", "missing function")
		}
		if c.Step < 1 {
			result.AddError(field+".step", fmt.Sprintf("must be at least 1, got %d", c.Step))
		}
		if seen[c.Name] {
			result.AddWarning(field+".name", fmt.Sprintf("duplicate curve name %q", c.Name))
		}
		seen[c.Name] = true
	}
}

func (v *Validator) validateDatasets(cfg *Config, result *ValidationResult) {
	for i, ds := range cfg.Datasets {
		field := fmt.Sprintf("points[%d]", i+1)
		if ds.Scale < 1 {
			result.AddError(field+".scale", fmt.Sprintf("must be at least 1, got %d", ds.Scale))
		}
		if len(ds.Points) == 0 {
			result.AddWarning(field+".data", "no points")
		}
		outside := 0
		for _, p := range ds.Points {
			if !cfg.Graph.X.Contains(p.X) || !cfg.Graph.Y.Contains(p.Y) {
				outside++
			}
		}
		if outside > 0 {
			result.AddWarning(field+".data", fmt.Sprintf("%d point(s) outside the axis ranges", outside))
		}
	}
}

// ValidateConfig validates cfg and returns an error if it is invalid.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates cfg, treating warnings as errors.
func ValidateConfigStrict(cfg *Config) error {
	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}

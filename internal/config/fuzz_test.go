package config

import (
	"testing"

	"github.com/opd-ai/go-grapher/internal/lua"
)

// FuzzParse feeds arbitrary scene source to the parser. Parsing must never
// panic and must return either a scene or an error.
func FuzzParse(f *testing.F) {
	f.Add([]byte(exampleScene))
	f.Add([]byte(`plot.curves = { { fn = "math.sin(x)" } }`))
	f.Add([]byte(`plot.graph = { x = {min = -5, max = 5}, y = {-1, 1} }`))

	// Edge cases
	f.Add([]byte(""))
	f.Add([]byte("plot = nil"))
	f.Add([]byte("plot.window = 3"))
	f.Add([]byte("plot.curves = { {}, {}, {} }"))
	f.Add([]byte("plot.points = { { data = { {0/0, 1/0} } } }"))
	f.Add([]byte("while true do end"))

	runtimeConfig := lua.RuntimeConfig{CPULimit: 100_000, MemoryLimit: 4 * 1024 * 1024}

	f.Fuzz(func(t *testing.T, data []byte) {
		scene, err := NewParserWithRuntime(runtimeConfig).Parse(data)
		if err == nil && scene == nil {
			t.Fatal("Parse returned nil scene with nil error")
		}
		if scene != nil {
			scene.Close()
		}
	})
}

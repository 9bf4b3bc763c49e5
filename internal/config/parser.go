package config

import (
	"fmt"
	"io"
	"io/fs"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-grapher/internal/lua"
)

// Parser loads scene files. Every parsed Scene gets its own Lua runtime,
// so a Parser can be reused and shared.
type Parser struct {
	runtimeConfig lua.RuntimeConfig
	validator     *Validator
}

// NewParser creates a Parser with the default Lua resource limits.
func NewParser() *Parser {
	return NewParserWithRuntime(lua.DefaultConfig())
}

// NewParserWithRuntime creates a Parser whose scenes run with cfg.
func NewParserWithRuntime(cfg lua.RuntimeConfig) *Parser {
	return &Parser{
		runtimeConfig: cfg,
		validator:     NewValidator(),
	}
}

// WithStrictMode makes validation warnings fail parsing.
func (p *Parser) WithStrictMode(strict bool) *Parser {
	p.validator.WithStrictMode(strict)
	return p
}

// ParseFile reads and parses a scene file.
func (p *Parser) ParseFile(path string) (*Scene, error) {
	return p.parse(func(runtime *lua.Runtime) (*rt.Closure, error) {
		closure, err := runtime.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene file: %w", err)
		}
		return closure, nil
	})
}

// ParseFromFS reads and parses a scene file from fsys.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Scene, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene from FS %s: %w", path, err)
	}
	return p.parseSource(path, content)
}

// ParseReader parses a scene read from r.
func (p *Parser) ParseReader(r io.Reader) (*Scene, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	return p.Parse(content)
}

// Parse parses scene source.
func (p *Parser) Parse(content []byte) (*Scene, error) {
	return p.parseSource("scene", content)
}

func (p *Parser) parseSource(name string, content []byte) (*Scene, error) {
	return p.parse(func(runtime *lua.Runtime) (*rt.Closure, error) {
		closure, err := runtime.LoadString(name, string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to compile scene: %w", err)
		}
		return closure, nil
	})
}

// parse runs the chunk returned by load in a fresh runtime and extracts the
// scene from the plot table.
func (p *Parser) parse(load func(*lua.Runtime) (*rt.Closure, error)) (scene *Scene, err error) {
	runtime, err := lua.New(p.runtimeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua runtime: %w", err)
	}
	defer func() {
		if err != nil {
			runtime.Close()
		}
	}()

	initPlotGlobal(runtime)

	closure, err := load(runtime)
	if err != nil {
		return nil, err
	}
	if _, err := runtime.Execute(closure); err != nil {
		return nil, fmt.Errorf("failed to execute scene: %w", err)
	}

	cfg, samplers, err := extractConfig(runtime)
	if err != nil {
		return nil, err
	}
	ExpandEnvConfig(&cfg)

	result := p.validator.Validate(&cfg)
	if err := result.Error(); err != nil {
		return nil, err
	}

	hooks, err := lua.NewHooks(runtime)
	if err != nil {
		return nil, err
	}
	if err := hooks.Call(lua.HookStartup); err != nil {
		return nil, err
	}

	return &Scene{
		Config:   cfg,
		Warnings: result.Warnings,
		runtime:  runtime,
		hooks:    hooks,
		samplers: samplers,
	}, nil
}

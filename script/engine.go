// Package script loads plugin declarations from Lua source files.
//
// A source file declares plugin types with the plugin built-in:
//
//	local base = plugin("BaseTextFilter", { categories = {"text_filter"} })
//	plugin("MarkdownTextFilter", { categories = {"markdown"}, extends = base })
//
// Each file compiles to one blocks.Module; helpers, locals and plain
// tables in the script never register anything. Scripts run in a fresh
// state per file with a restricted library set (no io, os, debug or
// package access).
package script

import (
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/BaSui01/blocks"
)

// DefaultExtension is the source file extension the engine looks for.
const DefaultExtension = ".lua"

// Engine compiles Lua plugin sources into modules.
type Engine struct {
	ext    string
	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. nil falls back to a no-op logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithExtension sets the source file extension recognized when loading
// directories, including the leading dot.
func WithExtension(ext string) EngineOption {
	return func(e *Engine) { e.ext = ext }
}

// NewEngine creates an engine with the default ".lua" extension.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{ext: DefaultExtension}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.logger = e.logger.With(zap.String("component", "script_engine"))
	return e
}

// Compile evaluates one source file and returns the module of plugin
// types it declares, named after the file. The Lua state is discarded
// afterwards; only descriptors and factories survive.
func (e *Engine) Compile(path string) (*blocks.Module, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	c := &compilation{file: path, seen: make(map[string]bool)}
	L.SetGlobal("plugin", L.NewFunction(c.declare))

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	m := blocks.NewModule(moduleName(path))
	for _, desc := range c.descriptors {
		m.Define(desc, func() blocks.Plugin {
			return &scriptPlugin{desc: desc, source: path}
		})
	}

	e.logger.Debug("script compiled",
		zap.String("file", path),
		zap.Int("plugins", len(c.descriptors)))
	return m, nil
}

// openSafeLibraries opens only safe Lua standard libraries. io, os,
// debug and package stay closed so scripts cannot reach outside the
// declaration sandbox.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// compilation accumulates the declarations of one file.
type compilation struct {
	file        string
	seen        map[string]bool
	descriptors []*blocks.Descriptor
}

// declare implements the plugin(name, spec) built-in. The optional
// spec table carries categories (array of strings) and extends (a
// handle returned by an earlier plugin call in the same file). It
// returns the handle for the declared type.
func (c *compilation) declare(L *lua.LState) int {
	name := L.CheckString(1)
	if name == "" {
		L.RaiseError("plugin name must not be empty")
	}
	if c.seen[name] {
		L.RaiseError("plugin %q declared twice", name)
	}

	desc := &blocks.Descriptor{Name: name}
	if spec := L.OptTable(2, nil); spec != nil {
		c.parseSpec(L, spec, desc)
	}

	c.seen[name] = true
	c.descriptors = append(c.descriptors, desc)

	ud := L.NewUserData()
	ud.Value = desc
	L.Push(ud)
	return 1
}

func (c *compilation) parseSpec(L *lua.LState, spec *lua.LTable, desc *blocks.Descriptor) {
	switch cats := spec.RawGetString("categories").(type) {
	case *lua.LNilType:
	case *lua.LTable:
		bad := false
		cats.ForEach(func(_, v lua.LValue) {
			s, ok := v.(lua.LString)
			if !ok {
				bad = true
				return
			}
			desc.Categories = append(desc.Categories, string(s))
		})
		if bad {
			L.RaiseError("plugin %q: categories must contain only strings", desc.Name)
		}
	default:
		L.RaiseError("plugin %q: categories must be an array of strings", desc.Name)
	}

	if ext := spec.RawGetString("extends"); ext != lua.LNil {
		ud, ok := ext.(*lua.LUserData)
		if !ok {
			L.RaiseError("plugin %q: extends must be a plugin handle", desc.Name)
		}
		parent, ok := ud.Value.(*blocks.Descriptor)
		if !ok {
			L.RaiseError("plugin %q: extends must be a plugin handle", desc.Name)
		}
		desc.Extends = parent
	}
}

// scriptPlugin is an instance produced from a Lua declaration.
type scriptPlugin struct {
	blocks.Base
	desc   *blocks.Descriptor
	source string
}

// Compile-time interface compliance check.
var _ blocks.Plugin = (*scriptPlugin)(nil)

func (p *scriptPlugin) Descriptor() *blocks.Descriptor { return p.desc }

// Source returns the path of the file that declared this plugin.
func (p *scriptPlugin) Source() string { return p.source }

// moduleName derives the module name from the file name, extension
// stripped.
func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

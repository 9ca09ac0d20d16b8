package blocks

// Definition couples a plugin type declaration with a zero-argument
// factory producing fresh instances of that type.
type Definition struct {
	// Descriptor declares the type being defined.
	Descriptor *Descriptor

	// New builds a new instance. It must not return nil.
	New func() Plugin

	// definedIn is the name of the module that defined the type, so
	// loading can tell local definitions from re-exports.
	definedIn string
}

// DefinedIn returns the name of the module that defined this type.
func (d Definition) DefinedIn() string { return d.definedIn }

// Module is an ordered collection of plugin type definitions, the
// in-memory counterpart of one plugin source file.
type Module struct {
	name string
	defs []Definition
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Define adds a type defined by this module and returns the module for
// chaining.
func (m *Module) Define(d *Descriptor, factory func() Plugin) *Module {
	m.defs = append(m.defs, Definition{Descriptor: d, New: factory, definedIn: m.name})
	return m
}

// Include re-exports definitions from another module without claiming
// them: included types keep their original provenance and are skipped
// when this module is loaded into a registry.
func (m *Module) Include(defs ...Definition) *Module {
	m.defs = append(m.defs, defs...)
	return m
}

// Definitions returns a copy of the definition list in declaration
// order, re-exports included.
func (m *Module) Definitions() []Definition {
	return append([]Definition(nil), m.defs...)
}

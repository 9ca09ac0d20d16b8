package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Define(t *testing.T) {
	m := NewModule("filters").
		Define(textFilterDesc, func() Plugin { return newTestPlugin(textFilterDesc) }).
		Define(mdTextDesc, func() Plugin { return newTestPlugin(mdTextDesc) })

	assert.Equal(t, "filters", m.Name())

	defs := m.Definitions()
	require.Len(t, defs, 2)
	// Declaration order is preserved and provenance is stamped.
	assert.Equal(t, "BaseTextFilter", defs[0].Descriptor.Name)
	assert.Equal(t, "MarkdownTextFilter", defs[1].Descriptor.Name)
	assert.Equal(t, "filters", defs[0].DefinedIn())
	assert.Equal(t, "filters", defs[1].DefinedIn())
}

func TestModule_Include_KeepsProvenance(t *testing.T) {
	source := NewModule("source").
		Define(firstDesc, func() Plugin { return newTestPlugin(firstDesc) })

	m := NewModule("consumer").Include(source.Definitions()...)

	defs := m.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "source", defs[0].DefinedIn())
}

func TestModule_Definitions_ReturnsCopy(t *testing.T) {
	m := NewModule("m").
		Define(firstDesc, func() Plugin { return newTestPlugin(firstDesc) })

	defs := m.Definitions()
	defs[0] = Definition{}

	// Mutating the returned slice must not reach the module.
	fresh := m.Definitions()
	require.Len(t, fresh, 1)
	assert.Equal(t, "FirstPlugin", fresh[0].Descriptor.Name)
}

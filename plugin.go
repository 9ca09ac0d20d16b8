package blocks

// Plugin is the contract every registrable capability implements.
// Concrete plugins are pointer types that embed Base for the enabled
// flag and add a Descriptor declaring their name, categories and
// ancestry; the registry relies on instance identity when it
// deduplicates category buckets.
type Plugin interface {
	// Descriptor returns the static declaration for this plugin type.
	// The returned value is shared by every instance of the type and
	// must not be mutated.
	Descriptor() *Descriptor

	// Enabled reports whether the plugin is visible to default queries.
	// Plugins start enabled.
	Enabled() bool

	// Enable makes the plugin visible to default queries again.
	Enable()

	// Disable hides the plugin from default queries. A disabled plugin
	// stays registered and remains reachable through the
	// includeDisabled forms of the registry operations.
	Disable()
}

// Base is the default implementation of the enabled flag. Embed it by
// pointer-receiver convention in a concrete plugin; the zero value is
// enabled, so factories need no explicit setup.
type Base struct {
	disabled bool
}

// Enabled reports whether the plugin is enabled.
func (b *Base) Enabled() bool { return !b.disabled }

// Enable marks the plugin enabled. Enabling an enabled plugin is a no-op.
func (b *Base) Enable() { b.disabled = false }

// Disable marks the plugin disabled. Disabling a disabled plugin is a no-op.
func (b *Base) Disable() { b.disabled = true }

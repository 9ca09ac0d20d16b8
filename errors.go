package blocks

import "errors"

// Sentinel errors for the plugin registry. Returned errors wrap these
// with the offending name, path or operation; test with errors.Is.
var (
	// ErrMissingTarget reports an operation that needs a plugin but was
	// given none.
	ErrMissingTarget = errors.New("no target plugin supplied")

	// ErrNotFound reports a name or source path with no plugin behind it.
	ErrNotFound = errors.New("plugin not found")

	// ErrDisabled reports a plugin that exists but is disabled, reached
	// through an operation that excludes disabled plugins.
	ErrDisabled = errors.New("plugin is disabled")

	// ErrAlreadyRegistered reports a name collision on Register.
	ErrAlreadyRegistered = errors.New("plugin already registered")
)

package nativeruntime

// PackedFunc is a host-callable function bridged from a loaded module.
// Arguments are marshaled into the packed calling convention by the
// producing bridge; the single return value is whatever the callee wrote
// through the return channel, or nil for void functions.
type PackedFunc func(args ...any) (any, error)

// Module is a loaded code module: either the native artifact itself or a
// sub-module reconstructed from its import blob by a registered loader.
type Module interface {
	// TypeKey identifies the loader family that produced this module,
	// e.g. "dso" for the native artifact or "wasm" for wazero-backed
	// sub-modules.
	TypeKey() string

	// GetFunction resolves a named entry point to a callable. A nil
	// function with a nil error means the name is not exported; callers
	// may probe without treating absence as failure.
	GetFunction(name string) (PackedFunc, error)

	// Imports returns the owned sub-modules in decode order.
	Imports() []Module

	// Close releases the module's resources, including owned sub-modules.
	// A module must not be used after Close.
	Close() error
}

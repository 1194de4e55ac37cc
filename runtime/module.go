package runtime

import (
	stderrors "errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/abi"
	"github.com/wippyai/native-runtime/dl"
	"github.com/wippyai/native-runtime/errors"
)

// Library is the platform loader surface a NativeModule runs against.
// *dl.Library implements it; tests substitute in-memory fakes.
type Library interface {
	// Resolve looks up an exported symbol by exact name. Absence is an
	// observation, not an error.
	Resolve(name string) (addr uintptr, ok bool)

	// Close releases the library. Idempotent.
	Close() error
}

// NativeModule is a loaded native artifact: the owned library, the
// sub-modules reconstructed from its import blob, and the packed-call view
// of its exports. Construct with Load or FromLibrary; release with Close.
type NativeModule struct {
	lib       Library
	bridge    *abi.Bridge
	imports   []nativeruntime.Module
	ctx       Handle
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ nativeruntime.Module = (*NativeModule)(nil)

// Load maps the dynamic library at path into the process and links it.
func Load(path string, opts ...Option) (*NativeModule, error) {
	lib, err := dl.Open(path)
	if err != nil {
		return nil, err
	}

	m, err := FromLibrary(lib, opts...)
	if err != nil {
		return nil, err
	}
	Logger().Debug("loaded native artifact",
		zap.String("path", path),
		zap.Int("imports", len(m.imports)))
	return m, nil
}

// FromLibrary links an already-opened library into a NativeModule, taking
// ownership of lib. Linkage either fully succeeds or fully fails: on error
// the library is closed and no module is returned.
func FromLibrary(lib Library, opts ...Option) (*NativeModule, error) {
	if lib == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "library cannot be nil")
	}
	cfg := newConfig(opts)

	m := &NativeModule{
		lib:    lib,
		bridge: cfg.bridge,
	}
	m.linkHost()

	mods, err := m.decodeImports(cfg.registry)
	if err != nil {
		m.unlink()
		if cerr := lib.Close(); cerr != nil {
			Logger().Warn("close after failed linkage", zap.Error(cerr))
		}
		return nil, err
	}
	m.imports = mods
	return m, nil
}

// TypeKey reports the module kind.
func (m *NativeModule) TypeKey() string {
	return nativeruntime.TypeKeyDSO
}

// GetFunction resolves an exported function by name and wraps it for
// packed calls. A name that is simply not exported yields (nil, nil) so
// callers can probe. Requesting the reserved main-entry name resolves the
// alias symbol to the actual entry's name first; a main request against an
// artifact that declares no entry, or an alias naming an absent function,
// is an error.
func (m *NativeModule) GetFunction(name string) (nativeruntime.PackedFunc, error) {
	if m.closed.Load() {
		return nil, errors.InvalidInput(errors.PhaseResolve, "module is closed")
	}

	symbol := name
	if name == nativeruntime.SymbolModuleMain {
		aliasAddr, ok := m.lib.Resolve(nativeruntime.SymbolModuleMain)
		if !ok {
			return nil, errors.MissingSymbol(name, "artifact declares no main entry")
		}
		symbol = abi.GoString(aliasAddr)
		addr, ok := m.lib.Resolve(symbol)
		if !ok {
			return nil, errors.MissingSymbol(symbol, "main entry alias names an absent function")
		}
		return m.wrap(addr), nil
	}

	addr, ok := m.lib.Resolve(symbol)
	if !ok {
		return nil, nil
	}
	return m.wrap(addr), nil
}

// wrap binds a resolved address to this module so calls fail cleanly once
// the module is closed instead of entering an unmapped library.
func (m *NativeModule) wrap(addr uintptr) nativeruntime.PackedFunc {
	fn := m.bridge.Wrap(addr)
	return func(args ...any) (any, error) {
		if m.closed.Load() {
			return nil, errors.InvalidInput(errors.PhaseCall, "module is closed")
		}
		return fn(args...)
	}
}

// Imports returns the sub-modules reconstructed from the import blob, in
// decode order.
func (m *NativeModule) Imports() []nativeruntime.Module {
	out := make([]nativeruntime.Module, len(m.imports))
	copy(out, m.imports)
	return out
}

// Close releases the module: sub-modules first, then the library, each
// exactly once. Further calls return the first outcome. Functions obtained
// from GetFunction refuse to run after Close.
func (m *NativeModule) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.unlink()

		var errs []error
		for _, sub := range m.imports {
			if err := sub.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := m.lib.Close(); err != nil {
			errs = append(errs, err)
		}
		m.closeErr = stderrors.Join(errs...)
	})
	return m.closeErr
}

package runtime

import (
	"unsafe"

	"go.uber.org/zap"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/abi"
	"github.com/wippyai/native-runtime/blob"
	"github.com/wippyai/native-runtime/errors"
)

// This file is the unsafe boundary of the package: it writes host values
// into artifact memory and views the embedded import blob through resolved
// symbol addresses. Everything stored on the native side is a pointer-sized
// integer (a Handle or a C-callable address), never a Go pointer.

// linkHost fills the artifact's optional host slots: the context slot
// receives the module's handle, the last-error slot the address of the
// host's error reporter. Absent slots are skipped; minimal artifacts carry
// neither.
func (m *NativeModule) linkHost() {
	if addr, ok := m.lib.Resolve(nativeruntime.SymbolModuleCtx); ok {
		m.ctx = ctxHandles.put(m)
		*(*uintptr)(unsafe.Pointer(addr)) = uintptr(m.ctx)
		Logger().Debug("linked host context", zap.Uint64("handle", uint64(m.ctx)))
	}
	if addr, ok := m.lib.Resolve(nativeruntime.SymbolLastErrorFn); ok {
		*(*uintptr)(unsafe.Pointer(addr)) = abi.ErrorReporter()
	}
}

// unlink retires the module's context handle so stale callbacks from native
// code resolve to nothing instead of a dead module.
func (m *NativeModule) unlink() {
	if m.ctx != 0 {
		ctxHandles.drop(m.ctx)
		m.ctx = 0
	}
}

// decodeImports locates the embedded import blob and reconstructs its
// sub-modules. The blob symbols are optional as a pair: one present without
// the other means the artifact was emitted inconsistently.
func (m *NativeModule) decodeImports(reg blob.LoaderRegistry) ([]nativeruntime.Module, error) {
	dataAddr, dataOK := m.lib.Resolve(nativeruntime.SymbolImportBlob)
	sizeAddr, sizeOK := m.lib.Resolve(nativeruntime.SymbolImportBlobSize)
	if !dataOK && !sizeOK {
		return nil, nil
	}
	if dataOK != sizeOK {
		present, absent := nativeruntime.SymbolImportBlob, nativeruntime.SymbolImportBlobSize
		if sizeOK {
			present, absent = absent, present
		}
		return nil, errors.MalformedBlob("artifact exports %s but not %s", present, absent)
	}

	size := *(*uint64)(unsafe.Pointer(sizeAddr))
	if size == 0 {
		return nil, nil
	}

	// The view borrows artifact memory; loaders copy whatever payload bytes
	// they keep, so nothing references the region after Decode returns.
	data := unsafe.Slice((*byte)(unsafe.Pointer(dataAddr)), size)
	return blob.Decode(data, reg)
}

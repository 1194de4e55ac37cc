package runtime

import (
	stderrors "errors"
	"testing"
	"unsafe"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/abi"
	"github.com/wippyai/native-runtime/blob"
	"github.com/wippyai/native-runtime/errors"
	"github.com/wippyai/native-runtime/registry"
)

// fakeLibrary is an in-memory Library. Exported symbols map to addresses of
// Go allocations pinned for the library's lifetime, which lets tests
// exercise linkage without a real artifact on disk.
type fakeLibrary struct {
	symbols map[string]uintptr
	pins    []any
	closed  int
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{symbols: make(map[string]uintptr)}
}

func (f *fakeLibrary) export(name string, addr uintptr) {
	f.symbols[name] = addr
}

func (f *fakeLibrary) exportBytes(name string, b []byte) {
	f.pins = append(f.pins, b)
	f.symbols[name] = uintptr(unsafe.Pointer(&b[0]))
}

func (f *fakeLibrary) exportUint64(name string, v *uint64) {
	f.pins = append(f.pins, v)
	f.symbols[name] = uintptr(unsafe.Pointer(v))
}

func (f *fakeLibrary) exportSlot(name string, slot *uintptr) {
	f.pins = append(f.pins, slot)
	f.symbols[name] = uintptr(unsafe.Pointer(slot))
}

func (f *fakeLibrary) Resolve(name string) (uintptr, bool) {
	addr, ok := f.symbols[name]
	return addr, ok
}

func (f *fakeLibrary) Close() error {
	f.closed++
	return nil
}

// stubModule is a decoded sub-module that records Close calls.
type stubModule struct {
	tag    string
	closed bool
}

func (s *stubModule) TypeKey() string { return s.tag }
func (s *stubModule) GetFunction(name string) (nativeruntime.PackedFunc, error) {
	return nil, nil
}
func (s *stubModule) Imports() []nativeruntime.Module { return nil }
func (s *stubModule) Close() error {
	s.closed = true
	return nil
}

// stubRegistry returns a registry whose "stub" loader consumes a
// u64-length-prefixed payload and yields a stubModule tagged with it.
func stubRegistry(t *testing.T, decoded *[]*stubModule) *registry.Registry {
	t.Helper()
	reg := registry.New()
	err := reg.RegisterBinary("stub", func(r *blob.Reader) (nativeruntime.Module, error) {
		n, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		p, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		m := &stubModule{tag: string(p)}
		*decoded = append(*decoded, m)
		return m, nil
	})
	if err != nil {
		t.Fatalf("RegisterBinary error: %v", err)
	}
	return reg
}

func stubEntry(tag string) blob.Entry {
	var w blob.Writer
	w.WriteUint64(uint64(len(tag)))
	w.WriteBytes([]byte(tag))
	return blob.Entry{Tag: "stub", Payload: w.Bytes()}
}

func TestFromLibrary_MinimalArtifact(t *testing.T) {
	lib := newFakeLibrary()

	m, err := FromLibrary(lib)
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	if m.TypeKey() != "dso" {
		t.Errorf("TypeKey = %q, want dso", m.TypeKey())
	}
	if got := m.Imports(); len(got) != 0 {
		t.Errorf("Imports = %d entries, want 0", len(got))
	}

	fn, err := m.GetFunction("not_exported")
	if err != nil {
		t.Fatalf("probing an absent export must not error, got %v", err)
	}
	if fn != nil {
		t.Error("absent export resolved to a function")
	}
}

func TestFromLibrary_NilLibrary(t *testing.T) {
	_, err := FromLibrary(nil)
	want := &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidInput}
	if !stderrors.Is(err, want) {
		t.Errorf("error = %v, want phase=load kind=invalid_input", err)
	}
}

func TestNativeModule_GetFunction_Call(t *testing.T) {
	lib := newFakeLibrary()
	lib.export("add", 0xA110)

	var calledAddr uintptr
	bridge := abi.NewBridgeWith(func(addr uintptr, values []abi.Value, codes []abi.TypeCode, numArgs int32) int32 {
		calledAddr = addr
		values[numArgs] = abi.Int64Value(values[0].Int64() + values[1].Int64())
		codes[numArgs] = abi.CodeInt
		return 0
	})

	m, err := FromLibrary(lib, WithBridge(bridge))
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	fn, err := m.GetFunction("add")
	if err != nil {
		t.Fatalf("GetFunction error: %v", err)
	}
	if fn == nil {
		t.Fatal("exported function did not resolve")
	}

	got, err := fn(2, 3)
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if got != int64(5) {
		t.Errorf("result = %v, want 5", got)
	}
	if calledAddr != 0xA110 {
		t.Errorf("invoked address = %#x, want 0xA110", calledAddr)
	}
}

func TestNativeModule_GetFunction_MainAlias(t *testing.T) {
	lib := newFakeLibrary()
	lib.exportBytes(nativeruntime.SymbolModuleMain, []byte("real_entry\x00"))
	lib.export("real_entry", 0xE117)

	var addrs []uintptr
	bridge := abi.NewBridgeWith(func(addr uintptr, values []abi.Value, codes []abi.TypeCode, numArgs int32) int32 {
		addrs = append(addrs, addr)
		return 0
	})

	m, err := FromLibrary(lib, WithBridge(bridge))
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	viaMain, err := m.GetFunction(nativeruntime.SymbolModuleMain)
	if err != nil {
		t.Fatalf("GetFunction(main) error: %v", err)
	}
	viaName, err := m.GetFunction("real_entry")
	if err != nil {
		t.Fatalf("GetFunction(real_entry) error: %v", err)
	}

	if _, err := viaMain(); err != nil {
		t.Fatalf("main call error: %v", err)
	}
	if _, err := viaName(); err != nil {
		t.Fatalf("named call error: %v", err)
	}
	if len(addrs) != 2 || addrs[0] != addrs[1] {
		t.Errorf("main alias and direct name invoked different addresses: %#x", addrs)
	}
	if addrs[0] != 0xE117 {
		t.Errorf("invoked address = %#x, want 0xE117", addrs[0])
	}
}

func TestNativeModule_GetFunction_MainAbsent(t *testing.T) {
	lib := newFakeLibrary()

	m, err := FromLibrary(lib)
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	_, err = m.GetFunction(nativeruntime.SymbolModuleMain)
	want := &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindMissingSymbol}
	if !stderrors.Is(err, want) {
		t.Errorf("error = %v, want phase=resolve kind=missing_symbol", err)
	}
}

func TestNativeModule_GetFunction_MainTargetAbsent(t *testing.T) {
	lib := newFakeLibrary()
	lib.exportBytes(nativeruntime.SymbolModuleMain, []byte("gone\x00"))

	m, err := FromLibrary(lib)
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	_, err = m.GetFunction(nativeruntime.SymbolModuleMain)
	if err == nil {
		t.Fatal("expected error for dangling main alias")
	}
	var rerr *errors.Error
	if !stderrors.As(err, &rerr) {
		t.Fatalf("error %T does not unwrap to *errors.Error", err)
	}
	if rerr.Kind != errors.KindMissingSymbol || rerr.Symbol != "gone" {
		t.Errorf("error = %v, want missing_symbol for %q", err, "gone")
	}
}

func TestFromLibrary_ContextSlot(t *testing.T) {
	lib := newFakeLibrary()
	var slot uintptr
	lib.exportSlot(nativeruntime.SymbolModuleCtx, &slot)

	m, err := FromLibrary(lib)
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}

	if slot == 0 {
		t.Fatal("context slot was not written")
	}
	got, ok := FromHandle(Handle(slot))
	if !ok || got != m {
		t.Errorf("FromHandle(%#x) = %v, %v; want the loaded module", slot, got, ok)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, ok := FromHandle(Handle(slot)); ok {
		t.Error("handle still resolves after Close")
	}
}

func TestFromLibrary_ErrorReporterSlot(t *testing.T) {
	lib := newFakeLibrary()
	var slot uintptr
	lib.exportSlot(nativeruntime.SymbolLastErrorFn, &slot)

	m, err := FromLibrary(lib)
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	if slot == 0 {
		t.Error("last-error slot was not written")
	}
	if slot != abi.ErrorReporter() {
		t.Errorf("last-error slot = %#x, want reporter %#x", slot, abi.ErrorReporter())
	}
}

func TestFromLibrary_DecodesImports(t *testing.T) {
	var decoded []*stubModule
	reg := stubRegistry(t, &decoded)

	data := blob.Encode([]blob.Entry{stubEntry("first"), stubEntry("second")})
	size := uint64(len(data))

	lib := newFakeLibrary()
	lib.exportBytes(nativeruntime.SymbolImportBlob, data)
	lib.exportUint64(nativeruntime.SymbolImportBlobSize, &size)

	m, err := FromLibrary(lib, WithRegistry(reg))
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}
	defer m.Close()

	imports := m.Imports()
	if len(imports) != 2 {
		t.Fatalf("Imports = %d entries, want 2", len(imports))
	}
	for i, want := range []string{"first", "second"} {
		if imports[i].TypeKey() != want {
			t.Errorf("imports[%d] = %q, want %q (decode order must hold)", i, imports[i].TypeKey(), want)
		}
	}
}

func TestFromLibrary_EmptyBlob(t *testing.T) {
	data := blob.Encode(nil)
	size := uint64(len(data))
	zero := uint64(0)

	tests := []struct {
		name  string
		setup func(lib *fakeLibrary)
	}{
		{"zero count", func(lib *fakeLibrary) {
			lib.exportBytes(nativeruntime.SymbolImportBlob, data)
			lib.exportUint64(nativeruntime.SymbolImportBlobSize, &size)
		}},
		{"zero length", func(lib *fakeLibrary) {
			lib.exportBytes(nativeruntime.SymbolImportBlob, data)
			lib.exportUint64(nativeruntime.SymbolImportBlobSize, &zero)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := newFakeLibrary()
			tt.setup(lib)

			m, err := FromLibrary(lib, WithRegistry(registry.New()))
			if err != nil {
				t.Fatalf("FromLibrary error: %v", err)
			}
			defer m.Close()

			if got := m.Imports(); len(got) != 0 {
				t.Errorf("Imports = %d entries, want 0", len(got))
			}
		})
	}
}

func TestFromLibrary_BlobPairMismatch(t *testing.T) {
	size := uint64(8)

	tests := []struct {
		name  string
		setup func(lib *fakeLibrary)
	}{
		{"data without size", func(lib *fakeLibrary) {
			lib.exportBytes(nativeruntime.SymbolImportBlob, blob.Encode(nil))
		}},
		{"size without data", func(lib *fakeLibrary) {
			lib.exportUint64(nativeruntime.SymbolImportBlobSize, &size)
		}},
	}

	want := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindMalformedBlob}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := newFakeLibrary()
			tt.setup(lib)

			_, err := FromLibrary(lib)
			if !stderrors.Is(err, want) {
				t.Fatalf("error = %v, want phase=decode kind=malformed_blob", err)
			}
			if lib.closed != 1 {
				t.Errorf("library closed %d times after failed linkage, want 1", lib.closed)
			}
		})
	}
}

func TestFromLibrary_UnregisteredTag(t *testing.T) {
	data := blob.Encode([]blob.Entry{{Tag: "mystery"}})
	size := uint64(len(data))

	lib := newFakeLibrary()
	lib.exportBytes(nativeruntime.SymbolImportBlob, data)
	lib.exportUint64(nativeruntime.SymbolImportBlobSize, &size)

	_, err := FromLibrary(lib, WithRegistry(registry.New()))
	want := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindUnregisteredLoader}
	if !stderrors.Is(err, want) {
		t.Fatalf("error = %v, want phase=decode kind=unregistered_loader", err)
	}
	if lib.closed != 1 {
		t.Errorf("library closed %d times after failed linkage, want 1", lib.closed)
	}
}

func TestNativeModule_Close_Cascades(t *testing.T) {
	var decoded []*stubModule
	reg := stubRegistry(t, &decoded)

	data := blob.Encode([]blob.Entry{stubEntry("a"), stubEntry("b")})
	size := uint64(len(data))

	lib := newFakeLibrary()
	lib.exportBytes(nativeruntime.SymbolImportBlob, data)
	lib.exportUint64(nativeruntime.SymbolImportBlobSize, &size)

	m, err := FromLibrary(lib, WithRegistry(reg))
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	for i, sub := range decoded {
		if !sub.closed {
			t.Errorf("sub-module %d not closed", i)
		}
	}
	if lib.closed != 1 {
		t.Fatalf("library closed %d times, want 1", lib.closed)
	}

	// Second Close must not release anything again.
	if err := m.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
	if lib.closed != 1 {
		t.Errorf("library closed %d times after repeat Close, want 1", lib.closed)
	}
}

func TestNativeModule_CallAfterClose(t *testing.T) {
	lib := newFakeLibrary()
	lib.export("f", 0xF)

	m, err := FromLibrary(lib, WithBridge(abi.NewBridgeWith(
		func(addr uintptr, values []abi.Value, codes []abi.TypeCode, numArgs int32) int32 {
			t.Error("invoker ran against a closed module")
			return 0
		})))
	if err != nil {
		t.Fatalf("FromLibrary error: %v", err)
	}

	fn, err := m.GetFunction("f")
	if err != nil || fn == nil {
		t.Fatalf("GetFunction = %v, %v", fn, err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if _, err := fn(); err == nil {
		t.Error("call through a closed module must fail")
	}
	if _, err := m.GetFunction("f"); err == nil {
		t.Error("GetFunction on a closed module must fail")
	}
}

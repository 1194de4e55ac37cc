package nativeruntime

// Reserved symbol names the code generator may emit into an artifact.
// All are optional exports except where the runtime package documents
// otherwise; absence of an optional symbol is an observation, not an error.
const (
	// SymbolModuleCtx is a writable pointer-sized slot. When present, the
	// loader writes the module's context handle into it so generated code
	// can call back into host services.
	SymbolModuleCtx = "__nrt_module_ctx"

	// SymbolModuleMain holds a NUL-terminated string naming the artifact's
	// actual entry function. Requesting SymbolModuleMain from GetFunction
	// resolves the alias first, then the named function; once the alias
	// exists its target must resolve.
	SymbolModuleMain = "__nrt_module_main"

	// SymbolImportBlob points at the start of the embedded import blob.
	SymbolImportBlob = "__nrt_import_blob"

	// SymbolImportBlobSize holds the import blob's byte length as an
	// unsigned 64-bit value. Present if and only if SymbolImportBlob is.
	SymbolImportBlobSize = "__nrt_import_blob_nbytes"

	// SymbolLastErrorFn is a writable function-pointer slot. When present,
	// the loader writes the address of the host's error reporter into it so
	// generated code can attach a message to a failing call before
	// returning a nonzero status.
	SymbolLastErrorFn = "__nrt_set_last_error"
)

// TypeKeyDSO is the type key of modules loaded from dynamic shared objects.
const TypeKeyDSO = "dso"

// Loader registry key formats. An import blob entry tagged "wasm" is decoded
// by the loader registered under "module.loadbinary_wasm"; a file
// "model.dll" is loaded by the loader under "module.loadfile_dll".
const (
	// LoadBinaryKeyPrefix prefixes a sub-module type tag to form the
	// registry key of its binary loader.
	LoadBinaryKeyPrefix = "module.loadbinary_"

	// LoadFileKeyPrefix prefixes a lowercase file extension (no dot) to
	// form the registry key of its file loader.
	LoadFileKeyPrefix = "module.loadfile_"
)

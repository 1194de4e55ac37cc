// Package wasmmod loads WebAssembly sub-modules out of import blobs.
//
// An artifact whose import blob carries an entry tagged "wasm" embeds a
// u64-length-prefixed core wasm binary as the payload. The loader
// instantiates it with wazero and serves its exports through the same
// packed-function surface native exports use, so callers traverse a module
// tree without caring which entries are native and which run on the wasm
// engine.
//
// Importing this package registers the loader:
//
//	import _ "github.com/wippyai/native-runtime/loaders/wasmmod"
package wasmmod

// Package runtime loads native artifacts and serves their exports as
// packed-call functions.
//
// Load maps a dynamic library into the process, performs the one-time
// linkage steps (host-context handle, import blob decode), and returns a
// NativeModule in the Ready state. Construction is atomic: any linkage
// failure closes the library and returns an error, never a
// partially-initialized module.
//
//	mod, err := runtime.Load("lib/model.so")
//	if err != nil { ... }
//	defer mod.Close()
//
//	fn, err := mod.GetFunction("add")
//	if err != nil { ... }
//	if fn == nil { ... } // not exported
//	sum, err := fn(2, 3)
//
// LoadFromFile dispatches on file extension through the loader registry, so
// callers that receive arbitrary artifact paths need not know the platform's
// library suffix.
//
// Loaded code is trusted. The artifact runs with the full privileges of the
// process; this package adds no sandboxing.
package runtime

// Package nativeruntime provides a Go runtime for loading compiled native
// artifacts (dynamic shared objects produced by an ahead-of-time code
// generator) and calling their exported entry points through a uniform,
// language-agnostic packed calling convention.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	nativeruntime/       Root package with the Module contract and reserved symbol names
//	├── runtime/         High-level API for loading artifacts and resolving functions
//	├── dl/              Platform dynamic-library primitives (dlopen / LoadLibrary)
//	├── abi/             Packed calling convention and the native call bridge
//	├── blob/            Import-blob decode protocol for embedded sub-modules
//	├── registry/        Type-keyed loader registry (binary and file loaders)
//	├── loaders/wasmmod/ Sub-module loader backed by wazero for "wasm" payloads
//	├── objfile/         Export-table inspection for ELF, Mach-O and PE artifacts
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Load an artifact and call an exported function:
//
//	mod, err := runtime.Load("kernels/model.so")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mod.Close()
//
//	add, err := mod.GetFunction("add")
//	if err != nil || add == nil {
//	    log.Fatal("add not exported")
//	}
//	sum, err := add(int64(2), int64(3))
//
// # Sub-modules
//
// An artifact may embed an import blob describing serialized sub-modules.
// Each entry carries a type tag; the matching loader registered under
// "module.loadbinary_<tag>" reconstructs it at load time. Sub-modules appear
// in decode order via Module.Imports and form an ownership tree rooted at the
// artifact module.
//
// # Trust Model
//
// The artifact is trusted. Loading a shared object executes its constructors
// and calling its exports runs arbitrary native code; this library provides
// no sandboxing or isolation.
package nativeruntime

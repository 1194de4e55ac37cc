// Package errors provides structured error types for the native-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the offending symbol or registry key and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindMissingSymbol).
//		Symbol("__nrt_module_main").
//		Detail("artifact declares a main entry but does not export it").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LoadFailed(path, cause)
//	err := errors.UnregisteredLoader("cuda", "module.loadbinary_cuda")
//
// All errors implement the standard error interface and support errors.Is/As;
// two *Error values match when Phase and Kind agree.
package errors

// Package abi implements the packed calling convention that bridges host
// calls to native function pointers.
//
// Every generated entry point shares one fixed C signature:
//
//	int32 f(Value* values, int32* type_codes, int32 num_args)
//
// values is a caller-allocated array of 8-byte tagged slots, type_codes the
// parallel tag array, num_args the input count. A zero status is success; a
// nonzero status is a failure whose message the callee deposits in the
// process-wide last-error channel. The artifact and this runtime are compiled
// independently, so the signature's shape never changes.
//
// The host always allocates one slot pair past num_args. Callees that
// produce a value write it into values[num_args] and its tag into
// type_codes[num_args]; the host presets the tag to CodeNil so a void callee
// needs no action. This trailing pair is the return channel referred to
// throughout the library.
//
// Bridge.Wrap turns a resolved function address into a PackedFunc. The raw
// call is performed by an Invoker; the default one dispatches through
// purego.SyscallN, and tests substitute Go-implemented fakes.
package abi

package abi

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// nativeInvoke dispatches a packed call to a real function address. The
// trailing return slot travels inside values/codes; numArgs counts inputs
// only, matching what the callee expects.
func nativeInvoke(addr uintptr, values []Value, codes []TypeCode, numArgs int32) int32 {
	ret, _, _ := purego.SyscallN(addr,
		uintptr(unsafe.Pointer(&values[0])),
		uintptr(unsafe.Pointer(&codes[0])),
		uintptr(numArgs),
	)
	return int32(ret)
}

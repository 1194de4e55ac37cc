package abi

import (
	"math"
	"unsafe"

	"github.com/wippyai/native-runtime/errors"
)

// TypeCode tags the content of a Value slot. The tag space is shared with
// the code generator; codes below 16 are reserved for the runtime.
type TypeCode int32

const (
	CodeNil    TypeCode = 0 // empty slot, also the preset return tag
	CodeInt    TypeCode = 1 // signed 64-bit integer
	CodeUint   TypeCode = 2 // unsigned 64-bit integer
	CodeFloat  TypeCode = 3 // IEEE-754 64-bit float
	CodeHandle TypeCode = 4 // opaque pointer-sized handle
	CodeStr    TypeCode = 5 // pointer to a NUL-terminated byte sequence
)

// Value is one 8-byte slot of the packed calling convention. Integers are
// stored two's-complement, floats as their IEEE-754 bit pattern, pointers
// zero-extended.
type Value uint64

func Int64Value(v int64) Value     { return Value(uint64(v)) }
func Uint64Value(v uint64) Value   { return Value(v) }
func Float64Value(f float64) Value { return Value(math.Float64bits(f)) }
func HandleValue(p uintptr) Value  { return Value(uint64(p)) }

func (v Value) Int64() int64     { return int64(uint64(v)) }
func (v Value) Uint64() uint64   { return uint64(v) }
func (v Value) Float64() float64 { return math.Float64frombits(uint64(v)) }
func (v Value) Handle() uintptr  { return uintptr(uint64(v)) }

// Decode interprets a slot according to its tag, yielding the host-side
// representation. CodeStr slots are copied out of native memory immediately.
func Decode(v Value, code TypeCode) (any, error) {
	switch code {
	case CodeNil:
		return nil, nil
	case CodeInt:
		return v.Int64(), nil
	case CodeUint:
		return v.Uint64(), nil
	case CodeFloat:
		return v.Float64(), nil
	case CodeHandle:
		return v.Handle(), nil
	case CodeStr:
		return GoString(v.Handle()), nil
	default:
		return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
			Detail("unknown type code %d in return slot", code).
			Build()
	}
}

// GoString copies a NUL-terminated byte sequence at addr into a Go string.
// The address must point at readable native memory; addr 0 yields "".
// This is an unsafe boundary: the caller vouches for the pointer.
func GoString(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(addr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(addr)), n))
}

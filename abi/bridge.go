package abi

import (
	"runtime"
	"unsafe"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/errors"
)

// Invoker performs one raw native call under the packed convention.
// values and codes hold numArgs input slots plus the trailing return pair;
// the return value is the callee's status code.
type Invoker func(addr uintptr, values []Value, codes []TypeCode, numArgs int32) int32

// Bridge turns resolved function addresses into host-callable PackedFuncs.
// The zero value is not usable; obtain one from NewBridge or NewBridgeWith.
type Bridge struct {
	invoke Invoker
}

// NewBridge returns a bridge that dispatches through the platform invoker.
func NewBridge() *Bridge {
	return &Bridge{invoke: nativeInvoke}
}

// NewBridgeWith returns a bridge using a custom invoker. Tests use this to
// stand in Go functions for native code.
func NewBridgeWith(inv Invoker) *Bridge {
	return &Bridge{invoke: inv}
}

// Wrap produces the PackedFunc for a native function address. Each call
// marshals its arguments, invokes the address, and either decodes the return
// channel or surfaces the last-error text behind a nonzero status. A failing
// call leaves the function usable; callers may retry.
func (b *Bridge) Wrap(addr uintptr) nativeruntime.PackedFunc {
	return func(args ...any) (any, error) {
		n := len(args)
		values := make([]Value, n+1)
		codes := make([]TypeCode, n+1)
		keep, err := marshalArgs(values, codes, args)
		if err != nil {
			return nil, err
		}

		status := b.invoke(addr, values, codes, int32(n))
		runtime.KeepAlive(keep)
		if status != 0 {
			return nil, errors.NativeCall(status, LastError())
		}
		return Decode(values[n], codes[n])
	}
}

// marshalArgs fills the input slots of values/codes from Go arguments and
// returns the allocations that must stay reachable until the call returns.
func marshalArgs(values []Value, codes []TypeCode, args []any) ([][]byte, error) {
	var keep [][]byte
	for i, arg := range args {
		switch a := arg.(type) {
		case nil:
			values[i], codes[i] = 0, CodeNil
		case bool:
			if a {
				values[i] = Int64Value(1)
			}
			codes[i] = CodeInt
		case int:
			values[i], codes[i] = Int64Value(int64(a)), CodeInt
		case int8:
			values[i], codes[i] = Int64Value(int64(a)), CodeInt
		case int16:
			values[i], codes[i] = Int64Value(int64(a)), CodeInt
		case int32:
			values[i], codes[i] = Int64Value(int64(a)), CodeInt
		case int64:
			values[i], codes[i] = Int64Value(a), CodeInt
		case uint:
			values[i], codes[i] = Uint64Value(uint64(a)), CodeUint
		case uint8:
			values[i], codes[i] = Uint64Value(uint64(a)), CodeUint
		case uint16:
			values[i], codes[i] = Uint64Value(uint64(a)), CodeUint
		case uint32:
			values[i], codes[i] = Uint64Value(uint64(a)), CodeUint
		case uint64:
			values[i], codes[i] = Uint64Value(a), CodeUint
		case float32:
			values[i], codes[i] = Float64Value(float64(a)), CodeFloat
		case float64:
			values[i], codes[i] = Float64Value(a), CodeFloat
		case uintptr:
			values[i], codes[i] = HandleValue(a), CodeHandle
		case unsafe.Pointer:
			values[i], codes[i] = HandleValue(uintptr(a)), CodeHandle
		case string:
			buf := make([]byte, len(a)+1)
			copy(buf, a)
			keep = append(keep, buf)
			values[i], codes[i] = HandleValue(uintptr(unsafe.Pointer(&buf[0]))), CodeStr
		case []byte:
			// Raw buffer handle; the callee learns the length through
			// another argument.
			if len(a) == 0 {
				values[i], codes[i] = 0, CodeHandle
				break
			}
			keep = append(keep, a)
			values[i], codes[i] = HandleValue(uintptr(unsafe.Pointer(&a[0]))), CodeHandle
		default:
			return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
				Detail("argument %d: type %T cannot cross the packed call boundary", i, arg).
				Build()
		}
	}
	return keep, nil
}

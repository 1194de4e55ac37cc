package wasmmod

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/blob"
	"github.com/wippyai/native-runtime/errors"
	"github.com/wippyai/native-runtime/registry"
)

// TypeKey is the import blob tag this loader claims.
const TypeKey = "wasm"

func init() {
	registry.MustRegisterBinary(TypeKey, LoadBinary)
}

// Module is an instantiated WebAssembly sub-module. Each Module owns a
// dedicated wazero runtime, so sibling sub-modules stay isolated from one
// another.
type Module struct {
	runtime   wazero.Runtime
	instance  api.Module
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ nativeruntime.Module = (*Module)(nil)

// LoadBinary reconstructs "wasm" entries: a u64 payload length followed by
// that many bytes of core wasm binary.
func LoadBinary(r *blob.Reader) (nativeruntime.Module, error) {
	n, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	wasm, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return New(context.Background(), wasm)
}

// New compiles and instantiates a core wasm binary as a sub-module.
func New(ctx context.Context, wasm []byte) (*Module, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	instance, err := rt.Instantiate(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformedBlob, err, "instantiate wasm sub-module")
	}

	Logger().Debug("instantiated wasm sub-module", zap.Int("wasm_bytes", len(wasm)))
	return &Module{runtime: rt, instance: instance}, nil
}

// TypeKey reports the module kind.
func (m *Module) TypeKey() string {
	return TypeKey
}

// GetFunction resolves an exported wasm function and adapts it to the
// packed-call surface. Integer results widen to int64 and float results to
// float64, matching what native exports produce.
func (m *Module) GetFunction(name string) (nativeruntime.PackedFunc, error) {
	if m.closed.Load() {
		return nil, errors.InvalidInput(errors.PhaseResolve, "module is closed")
	}

	fn := m.instance.ExportedFunction(name)
	if fn == nil {
		return nil, nil
	}
	def := fn.Definition()
	params := def.ParamTypes()
	results := def.ResultTypes()

	return func(args ...any) (any, error) {
		if m.closed.Load() {
			return nil, errors.InvalidInput(errors.PhaseCall, "module is closed")
		}
		if len(args) != len(params) {
			return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
				Symbol(name).
				Detail("wasm export takes %d arguments, got %d", len(params), len(args)).
				Build()
		}

		stack := make([]uint64, len(args))
		for i, arg := range args {
			v, err := encodeParam(name, i, params[i], arg)
			if err != nil {
				return nil, err
			}
			stack[i] = v
		}

		out, err := fn.Call(context.Background(), stack...)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseCall, errors.KindNativeCall, err, "wasm call "+name)
		}
		if len(results) == 0 {
			return nil, nil
		}
		return decodeResult(results[0], out[0]), nil
	}, nil
}

// Imports reports no sub-modules; wasm entries are leaves of the module tree.
func (m *Module) Imports() []nativeruntime.Module {
	return nil
}

// Close tears down the module's wazero runtime. Idempotent.
func (m *Module) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.closeErr = m.runtime.Close(context.Background())
	})
	return m.closeErr
}

func encodeParam(fn string, idx int, want api.ValueType, arg any) (uint64, error) {
	switch want {
	case api.ValueTypeI32:
		if v, ok := toInt64(arg); ok {
			return api.EncodeI32(int32(v)), nil
		}
	case api.ValueTypeI64:
		if v, ok := toInt64(arg); ok {
			return api.EncodeI64(v), nil
		}
	case api.ValueTypeF32:
		if v, ok := toFloat64(arg); ok {
			return api.EncodeF32(float32(v)), nil
		}
	case api.ValueTypeF64:
		if v, ok := toFloat64(arg); ok {
			return api.EncodeF64(v), nil
		}
	}
	return 0, errors.New(errors.PhaseCall, errors.KindInvalidInput).
		Symbol(fn).
		Detail("argument %d: %T does not fit wasm type %s", idx, arg, api.ValueTypeName(want)).
		Build()
}

func decodeResult(typ api.ValueType, raw uint64) any {
	switch typ {
	case api.ValueTypeI32:
		return int64(api.DecodeI32(raw))
	case api.ValueTypeF32:
		return float64(api.DecodeF32(raw))
	case api.ValueTypeF64:
		return api.DecodeF64(raw)
	default:
		return int64(raw)
	}
}

func toInt64(arg any) (int64, bool) {
	switch v := arg.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat64(arg any) (float64, bool) {
	switch v := arg.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

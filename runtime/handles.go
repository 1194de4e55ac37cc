package runtime

import (
	"sync"
)

// Handle identifies a live NativeModule across the native boundary. The
// host-context slot of an artifact receives a Handle rather than a Go
// pointer: native memory must never hold Go pointers, and the indirection
// also lets the host reject callbacks that arrive after the module closed.
type Handle uintptr

// handleTable allocates dense 1-based handles with slot reuse.
type handleTable struct {
	mu      sync.RWMutex
	entries []*NativeModule
	free    []Handle
}

func (t *handleTable) put(m *NativeModule) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.free); n > 0 {
		h := t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[h-1] = m
		return h
	}
	t.entries = append(t.entries, m)
	return Handle(len(t.entries))
}

func (t *handleTable) get(h Handle) (*NativeModule, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || t.entries[idx] == nil {
		return nil, false
	}
	return t.entries[idx], true
}

func (t *handleTable) drop(h Handle) {
	if h == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || t.entries[idx] == nil {
		return
	}
	t.entries[idx] = nil
	t.free = append(t.free, h)
}

// ctxHandles maps context handles for every loaded module in the process.
// Process-wide because native code presents bare handles with no other way
// to scope them.
var ctxHandles = &handleTable{}

// FromHandle resolves a context handle back to its module. Host entry
// points called from generated code use it to recover the NativeModule whose
// context slot the artifact is passing back. Returns false for zero, stale,
// or never-issued handles.
func FromHandle(h Handle) (*NativeModule, bool) {
	return ctxHandles.get(h)
}

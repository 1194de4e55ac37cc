package dl

import (
	"sync"
	"sync/atomic"

	"github.com/wippyai/native-runtime/errors"
)

// Library is an exclusively owned handle to a dynamic library mapped into
// the process. The zero value is not usable; obtain one from Open.
type Library struct {
	handle    atomic.Uintptr
	path      string
	closeOnce sync.Once
	closeErr  error
}

// Open maps the library at path into the process. On failure the returned
// error carries the platform loader's diagnostic; no partial state remains.
func Open(path string) (*Library, error) {
	h, err := openLibrary(path)
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}
	l := &Library{path: path}
	l.handle.Store(h)
	return l, nil
}

// Path returns the path the library was opened from.
func (l *Library) Path() string {
	return l.path
}

// Resolve looks up an exported symbol by exact name. ok is false when the
// symbol is absent or the library has been closed; absence is never an
// error, callers decide whether a missing symbol is fatal.
func (l *Library) Resolve(name string) (addr uintptr, ok bool) {
	h := l.handle.Load()
	if h == 0 {
		return 0, false
	}
	addr, err := resolveSymbol(h, name)
	if err != nil || addr == 0 {
		return 0, false
	}
	return addr, true
}

// Close releases the underlying OS handle. Only the first call releases;
// subsequent calls return the first call's result without touching the
// loader again.
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		h := l.handle.Swap(0)
		if h != 0 {
			l.closeErr = closeLibrary(h)
		}
	})
	return l.closeErr
}

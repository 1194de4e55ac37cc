package abi

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"
)

// lastError holds the most recent error text reported by native code. Native
// artifacts report failure detail out of band: the call returns a nonzero
// status, and the message travels through this channel. The channel is one
// slot deep for the whole process: concurrent failing calls can overwrite
// each other's message unless the artifact serializes its reports.
var lastError atomic.Value

// SetLastError records message as the pending error text. Native code reaches
// this through the callback from ErrorReporter; Go callers may also use it
// directly when synthesizing failures.
func SetLastError(message string) {
	lastError.Store(message)
}

// LastError returns the most recently recorded error text, or "" when none
// has been set since the last call.
func LastError() string {
	v := lastError.Swap("")
	if v == nil {
		return ""
	}
	return v.(string)
}

var (
	reporterOnce sync.Once
	reporterAddr uintptr
)

// ErrorReporter returns the address of a C-callable function with signature
// void (*)(const char* message) that stores its argument as the last error.
// Artifacts that want richer diagnostics than a bare status code receive this
// address during linkage and call it before returning nonzero.
func ErrorReporter() uintptr {
	reporterOnce.Do(func() {
		reporterAddr = purego.NewCallback(func(msg uintptr) uintptr {
			SetLastError(GoString(msg))
			return 0
		})
	})
	return reporterAddr
}

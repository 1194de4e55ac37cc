// Package dl provides the platform dynamic-library primitives used to map a
// compiled artifact into the process: open by path, resolve exported symbols
// by name, release on teardown.
//
// On unix-like systems the implementation rides on purego's dlopen bindings;
// on Windows it uses the system loader via golang.org/x/sys/windows. Both are
// hidden behind the same Library type.
//
// A Library is owned by exactly one module. Close releases the OS handle on
// the first call and is a no-op afterwards, so a double release is
// unreachable through this API.
package dl

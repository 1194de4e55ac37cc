//go:build !windows

package dl

import (
	"github.com/ebitengine/purego"
)

// RTLD_LOCAL keeps artifact symbols out of the global namespace so two
// artifacts exporting the same entry names never interfere.
func openLibrary(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil || h == 0 {
		return 0, err
	}
	return h, nil
}

func resolveSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}

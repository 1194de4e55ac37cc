package runtime

import (
	"path/filepath"
	"strings"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/errors"
	"github.com/wippyai/native-runtime/registry"
)

// Dynamic library extensions this package claims in the default registry.
// All three map to Load, so an artifact built on any platform loads by path
// alone where the OS supports its format.
func init() {
	for _, ext := range []string{"so", "dylib", "dll"} {
		registry.MustRegisterFile(ext, func(path string) (nativeruntime.Module, error) {
			return Load(path)
		})
	}
}

// LoadFromFile loads the artifact at path through the file loader
// registered for its extension. Unlike Load it is not limited to dynamic
// libraries: any registered format works. Loaders registered for an
// extension receive the path verbatim and apply their own options; callers
// needing per-load options should use the format's own entry point.
func LoadFromFile(path string, opts ...Option) (nativeruntime.Module, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "path has no extension to select a loader")
	}

	cfg := newConfig(opts)
	key := nativeruntime.LoadFileKeyPrefix + ext
	loader, ok := cfg.registry.LookupFile(key)
	if !ok {
		return nil, errors.New(errors.PhaseRegistry, errors.KindUnregisteredLoader).
			Key(key).
			Detail("no loader for files with extension %q", ext).
			Build()
	}
	return loader(path)
}

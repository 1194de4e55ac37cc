package registry

import (
	"sort"
	"strings"
	"sync"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/blob"
	"github.com/wippyai/native-runtime/errors"
)

// FileLoader opens the artifact at path and returns the resulting module.
type FileLoader func(path string) (nativeruntime.Module, error)

// Registry maps loader keys to loader functions. Registration is expected at
// init time but is safe at any point; lookups may run concurrently with
// registrations.
type Registry struct {
	mu     sync.RWMutex
	binary map[string]blob.Loader
	file   map[string]FileLoader
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		binary: make(map[string]blob.Loader),
		file:   make(map[string]FileLoader),
	}
}

// RegisterBinary registers fn as the loader for import blob entries tagged
// tag, under the key "module.loadbinary_" + tag. Registering a tag twice is
// an error: two loaders claiming one tag means the process would decode the
// same artifact two different ways depending on import order.
func (r *Registry) RegisterBinary(tag string, fn blob.Loader) error {
	if tag == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "sub-module type tag cannot be empty")
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "loader function cannot be nil")
	}
	key := nativeruntime.LoadBinaryKeyPrefix + tag

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.binary[key]; exists {
		return errors.Registration(key, errors.InvalidInput(errors.PhaseRegistry, "loader already registered"))
	}
	r.binary[key] = fn
	return nil
}

// LookupBinary resolves a full binary-loader key. It implements
// blob.LoaderRegistry.
func (r *Registry) LookupBinary(key string) (blob.Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.binary[key]
	return fn, ok
}

// RegisterFile registers fn as the loader for artifacts whose filename ends
// in ext, under the key "module.loadfile_" + ext. A leading dot is stripped
// and the extension lowercased, so ".SO" and "so" register the same key.
func (r *Registry) RegisterFile(ext string, fn FileLoader) error {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "file extension cannot be empty")
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "loader function cannot be nil")
	}
	key := nativeruntime.LoadFileKeyPrefix + ext

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.file[key]; exists {
		return errors.Registration(key, errors.InvalidInput(errors.PhaseRegistry, "loader already registered"))
	}
	r.file[key] = fn
	return nil
}

// LookupFile resolves a full file-loader key.
func (r *Registry) LookupFile(key string) (FileLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.file[key]
	return fn, ok
}

// BinaryKeys returns the registered binary-loader keys in sorted order.
func (r *Registry) BinaryKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.binary))
	for k := range r.binary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FileKeys returns the registered file-loader keys in sorted order.
func (r *Registry) FileKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.file))
	for k := range r.file {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var defaultRegistry = New()

// Default returns the process-wide registry that init-time registrations
// target and that loading uses unless a caller supplies its own.
func Default() *Registry {
	return defaultRegistry
}

// MustRegisterBinary registers fn in the default registry and panics on
// failure. Intended for init functions, where a duplicate tag is a
// programming error.
func MustRegisterBinary(tag string, fn blob.Loader) {
	if err := Default().RegisterBinary(tag, fn); err != nil {
		panic(err)
	}
}

// MustRegisterFile registers fn in the default registry and panics on
// failure. Intended for init functions.
func MustRegisterFile(ext string, fn FileLoader) {
	if err := Default().RegisterFile(ext, fn); err != nil {
		panic(err)
	}
}

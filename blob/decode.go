package blob

import (
	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/errors"
)

// Loader reconstructs one sub-module from the stream, consuming exactly its
// own payload bytes so the entry that follows stays unambiguous.
type Loader func(r *Reader) (nativeruntime.Module, error)

// LoaderRegistry resolves full binary-loader keys ("module.loadbinary_" plus
// a type tag) to loaders. The process-wide registry implements it; tests
// supply fakes.
type LoaderRegistry interface {
	LookupBinary(key string) (Loader, bool)
}

// Decode reconstructs the sub-modules described by an import blob region.
// Entries come back in stream order. An empty region is a legal empty blob.
// Any failure is fatal: no partial module list is ever returned, since a
// half-decoded import graph would leave the artifact's cross-references
// dangling.
func Decode(data []byte, reg LoaderRegistry) ([]nativeruntime.Module, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := NewReader(data)
	count, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}

	var mods []nativeruntime.Module
	for i := uint64(0); i < count; i++ {
		tag, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		key := nativeruntime.LoadBinaryKeyPrefix + tag
		loader, ok := reg.LookupBinary(key)
		if !ok {
			return nil, errors.UnregisteredLoader(tag, key)
		}
		mod, err := loader(r)
		if err != nil {
			return nil, err
		}
		if mod == nil {
			return nil, errors.MalformedBlob("loader %q returned no module for entry %d", key, i)
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

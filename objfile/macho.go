package objfile

import (
	"debug/macho"
	"fmt"
	"os"
	"strings"
)

// Symbol type bits debug/macho leaves to the caller.
const (
	machoNType = 0x0e // mask for the symbol's type field
	machoNSect = 0x0e // defined in a section
	machoNExt  = 0x01 // externally visible
)

// machoExports lists externally visible defined symbols. The leading
// underscore the toolchain adds to C symbol names is stripped so names match
// what Resolve expects.
func machoExports(f *os.File) ([]string, error) {
	mf, err := machoFile(f)
	if err != nil {
		return nil, err
	}

	if mf.Symtab == nil {
		return nil, nil
	}

	var names []string
	for _, sym := range mf.Symtab.Syms {
		if sym.Type&machoNType != machoNSect || sym.Type&machoNExt == 0 {
			continue
		}
		names = append(names, strings.TrimPrefix(sym.Name, "_"))
	}
	return names, nil
}

// machoFile opens thin binaries directly and picks the first arch out of a
// fat binary; the export surface is the same across slices.
func machoFile(f *os.File) (*macho.File, error) {
	var magic [4]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		return nil, err
	}
	if magic == [4]byte{0xca, 0xfe, 0xba, 0xbe} {
		fat, err := macho.NewFatFile(f)
		if err != nil {
			return nil, err
		}
		if len(fat.Arches) == 0 {
			return nil, fmt.Errorf("fat binary has no architectures")
		}
		return fat.Arches[0].File, nil
	}
	return macho.NewFile(f)
}

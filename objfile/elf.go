package objfile

import (
	"debug/elf"
	stderrors "errors"
	"os"
)

// elfExports lists defined function symbols from the dynamic symbol table,
// the table the runtime loader resolves against.
func elfExports(f *os.File) ([]string, error) {
	ef, err := elf.NewFile(f)
	if err != nil {
		return nil, err
	}

	syms, err := ef.DynamicSymbols()
	if err != nil {
		if stderrors.Is(err, elf.ErrNoSymbols) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC {
			continue
		}
		if s.Section == elf.SHN_UNDEF {
			continue // imported, not provided
		}
		names = append(names, s.Name)
	}
	return names, nil
}

package objfile

import (
	"os"
	"sort"

	"github.com/wippyai/native-runtime/errors"
)

type format int

const (
	formatUnknown format = iota
	formatELF
	formatMachO
	formatPE
)

// Exports returns the sorted names of function symbols the artifact at path
// exports for dynamic resolution. The file is only read, never mapped into
// the process.
func Exports(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailed).
			Cause(err).
			Detail("read artifact %q", path).
			Build()
	}
	defer f.Close()

	var magic [4]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailed).
			Cause(err).
			Detail("read artifact %q", path).
			Build()
	}

	var names []string
	switch sniffFormat(magic) {
	case formatELF:
		names, err = elfExports(f)
	case formatMachO:
		names, err = machoExports(f)
	case formatPE:
		names, err = peExports(f)
	default:
		return nil, errors.InvalidInput(errors.PhaseLoad, "unrecognized artifact format")
	}
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailed).
			Cause(err).
			Detail("parse artifact %q", path).
			Build()
	}

	sort.Strings(names)
	return names, nil
}

func sniffFormat(magic [4]byte) format {
	switch {
	case magic == [4]byte{0x7f, 'E', 'L', 'F'}:
		return formatELF
	case magic == [4]byte{0xfe, 0xed, 0xfa, 0xce}, // 32-bit big-endian
		magic == [4]byte{0xfe, 0xed, 0xfa, 0xcf}, // 64-bit big-endian
		magic == [4]byte{0xce, 0xfa, 0xed, 0xfe}, // 32-bit little-endian
		magic == [4]byte{0xcf, 0xfa, 0xed, 0xfe}, // 64-bit little-endian
		magic == [4]byte{0xca, 0xfe, 0xba, 0xbe}: // fat binary
		return formatMachO
	case magic[0] == 'M' && magic[1] == 'Z':
		return formatPE
	default:
		return formatUnknown
	}
}

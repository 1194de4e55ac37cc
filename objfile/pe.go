package objfile

import (
	"debug/pe"
	"encoding/binary"
	"fmt"
	"os"
)

// peExports walks the PE export directory, which debug/pe exposes only as a
// raw data directory entry. Layout reference: IMAGE_EXPORT_DIRECTORY.
func peExports(f *os.File) ([]string, error) {
	pf, err := pe.NewFile(f)
	if err != nil {
		return nil, err
	}

	var dir pe.DataDirectory
	switch oh := pf.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		dir = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_EXPORT]
	case *pe.OptionalHeader64:
		dir = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_EXPORT]
	default:
		return nil, fmt.Errorf("missing optional header")
	}
	if dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil, nil // no export table
	}

	table, err := readRVA(pf, dir.VirtualAddress, 40)
	if err != nil {
		return nil, err
	}
	nameCount := binary.LittleEndian.Uint32(table[24:])
	namesRVA := binary.LittleEndian.Uint32(table[32:])
	if nameCount == 0 {
		return nil, nil // ordinal-only exports carry no names to resolve
	}

	nameRVAs, err := readRVA(pf, namesRVA, 4*nameCount)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, nameCount)
	for i := uint32(0); i < nameCount; i++ {
		rva := binary.LittleEndian.Uint32(nameRVAs[4*i:])
		name, err := readCString(pf, rva)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// readRVA copies size bytes at a relative virtual address out of whichever
// section contains it.
func readRVA(pf *pe.File, rva, size uint32) ([]byte, error) {
	for _, sect := range pf.Sections {
		end := sect.VirtualAddress + sect.VirtualSize
		if rva < sect.VirtualAddress || rva >= end {
			continue
		}
		if rva+size > end {
			return nil, fmt.Errorf("export data at rva %#x runs past its section", rva)
		}
		data, err := sect.Data()
		if err != nil {
			return nil, err
		}
		off := rva - sect.VirtualAddress
		if uint32(len(data)) < off+size {
			return nil, fmt.Errorf("section %s shorter on disk than mapped", sect.Name)
		}
		return data[off : off+size], nil
	}
	return nil, fmt.Errorf("rva %#x not contained in any section", rva)
}

func readCString(pf *pe.File, rva uint32) (string, error) {
	for _, sect := range pf.Sections {
		end := sect.VirtualAddress + sect.VirtualSize
		if rva < sect.VirtualAddress || rva >= end {
			continue
		}
		data, err := sect.Data()
		if err != nil {
			return "", err
		}
		off := rva - sect.VirtualAddress
		for i := off; i < uint32(len(data)); i++ {
			if data[i] == 0 {
				return string(data[off:i]), nil
			}
		}
		return "", fmt.Errorf("unterminated export name at rva %#x", rva)
	}
	return "", fmt.Errorf("rva %#x not contained in any section", rva)
}

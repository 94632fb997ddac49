package elf

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	shstrtabName = ".shstrtab"
	strtabName   = ".strtab"
	symtabName   = ".symtab"
)

// sections holds the headers the resolver needs. A section missing from the
// file is left zero-valued.
type sections struct {
	symtab SectionHeader
	strtab SectionHeader
}

func readSectionHeader(r *fileReader, h *FileHeader, i uint16, where string) (*SectionHeader, error) {
	buf, err := r.readAt(h.sectionHeaderOffset(i), sectionHeaderSize, where)
	if err != nil {
		return nil, err
	}

	sh := &SectionHeader{}
	sh.decode(buf)
	return sh, nil
}

// scanSections walks the whole section header table, naming each entry
// through .shstrtab. When a name repeats, the later header wins.
func scanSections(r *fileReader, h *FileHeader, logger zerolog.Logger) (*sections, error) {
	res := &sections{}
	if h.Shnum == 0 {
		return res, nil
	}

	shstrtabHeader, err := readSectionHeader(r, h, h.Shstrndx, "section header ("+shstrtabName+")")
	if err != nil {
		return nil, err
	}

	shstrtab, err := loadStringTable(r, shstrtabHeader, shstrtabName)
	if err != nil {
		return nil, err
	}

	for i := uint16(0); i < h.Shnum; i++ {
		sh, err := readSectionHeader(r, h, i, fmt.Sprintf("section header %d", i))
		if err != nil {
			return nil, err
		}

		name := shstrtab.NameAt(sh.Name)
		switch name {
		case strtabName:
			res.strtab = *sh
		case symtabName:
			res.symtab = *sh
		default:
			continue
		}
		logger.Debug().Uint16("index", i).Str("name", name).
			Uint64("offset", sh.Offset).Uint64("size", sh.Size).Msg("found section")
	}
	return res, nil
}

package elf

import (
	"github.com/pkg/errors"
)

// loadSymbols reads Size/Entsize entries of the symbol table described by sh,
// in file order.
func loadSymbols(r *fileReader, sh *SectionHeader) ([]Symbol, error) {
	if sh.Size == 0 {
		return nil, nil
	}
	if sh.Entsize < symbolSize {
		return nil, newError(KindMalformed, "section header ("+symtabName+")",
			errors.Errorf("symbol entry size %d", sh.Entsize))
	}

	count := sh.Size / sh.Entsize
	buf, err := r.readAt(sh.Offset, count*sh.Entsize, "section content ("+symtabName+")")
	if err != nil {
		return nil, err
	}

	symbols := make([]Symbol, count)
	for i := range symbols {
		start := uint64(i) * sh.Entsize
		symbols[i].decode(buf[start : start+symbolSize])
	}
	return symbols, nil
}

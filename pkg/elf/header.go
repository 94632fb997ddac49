package elf

import (
	"github.com/pkg/errors"
)

// readFileHeader decodes the header at offset 0 and rejects anything that is
// not a little-endian ELF64 object.
func readFileHeader(r *fileReader) (*FileHeader, error) {
	buf, err := r.readAt(0, fileHeaderSize, "file header")
	if err != nil {
		return nil, err
	}

	h := &FileHeader{}
	h.decode(buf)
	err = h.validate()
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (h *FileHeader) validate() error {
	if string(h.Ident[:4]) != elfMagic {
		return newError(KindMalformed, "file header", errors.Errorf("bad magic % x", h.Ident[:4]))
	}
	if h.Ident[identClassByte] != elfClass64 {
		return newError(KindMalformed, "file header", errors.Errorf("unsupported class %d", h.Ident[identClassByte]))
	}
	if h.Ident[identDataByte] != elfDataLSB {
		return newError(KindMalformed, "file header", errors.Errorf("unsupported byte order %d", h.Ident[identDataByte]))
	}
	if h.Shnum > 0 && h.Shentsize < sectionHeaderSize {
		return newError(KindMalformed, "file header", errors.Errorf("section header entry size %d", h.Shentsize))
	}
	return nil
}

// sectionHeaderOffset returns the file offset of section header i.
func (h *FileHeader) sectionHeaderOffset(i uint16) uint64 {
	return h.Shoff + uint64(i)*uint64(h.Shentsize)
}

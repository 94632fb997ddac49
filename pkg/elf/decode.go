package elf

import (
	"encoding/binary"
)

var (
	byteOrder = binary.LittleEndian
)

func (h *FileHeader) decode(buf []byte) {
	copy(h.Ident[:], buf[0:16])
	h.Type = byteOrder.Uint16(buf[16:18])
	h.Machine = byteOrder.Uint16(buf[18:20])
	h.Version = byteOrder.Uint32(buf[20:24])
	h.Entry = byteOrder.Uint64(buf[24:32])
	h.Phoff = byteOrder.Uint64(buf[32:40])
	h.Shoff = byteOrder.Uint64(buf[40:48])
	h.Flags = byteOrder.Uint32(buf[48:52])
	h.Ehsize = byteOrder.Uint16(buf[52:54])
	h.Phentsize = byteOrder.Uint16(buf[54:56])
	h.Phnum = byteOrder.Uint16(buf[56:58])
	h.Shentsize = byteOrder.Uint16(buf[58:60])
	h.Shnum = byteOrder.Uint16(buf[60:62])
	h.Shstrndx = byteOrder.Uint16(buf[62:64])
}

func (s *SectionHeader) decode(buf []byte) {
	s.Name = byteOrder.Uint32(buf[0:4])
	s.Type = byteOrder.Uint32(buf[4:8])
	s.Flags = byteOrder.Uint64(buf[8:16])
	s.Addr = byteOrder.Uint64(buf[16:24])
	s.Offset = byteOrder.Uint64(buf[24:32])
	s.Size = byteOrder.Uint64(buf[32:40])
	s.Link = byteOrder.Uint32(buf[40:44])
	s.Info = byteOrder.Uint32(buf[44:48])
	s.Addralign = byteOrder.Uint64(buf[48:56])
	s.Entsize = byteOrder.Uint64(buf[56:64])
}

func (s *Symbol) decode(buf []byte) {
	s.Name = byteOrder.Uint32(buf[0:4])
	s.Info = buf[4]
	s.Other = buf[5]
	s.Shndx = byteOrder.Uint16(buf[6:8])
	s.Value = byteOrder.Uint64(buf[8:16])
	s.Size = byteOrder.Uint64(buf[16:24])
}

func (p *ProgHeader) decode(buf []byte) {
	p.Type = byteOrder.Uint32(buf[0:4])
	p.Flags = byteOrder.Uint32(buf[4:8])
	p.Off = byteOrder.Uint64(buf[8:16])
	p.Vaddr = byteOrder.Uint64(buf[16:24])
	p.Paddr = byteOrder.Uint64(buf[24:32])
	p.Filesz = byteOrder.Uint64(buf[32:40])
	p.Memsz = byteOrder.Uint64(buf[40:48])
	p.Align = byteOrder.Uint64(buf[48:56])
}

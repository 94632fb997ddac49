package elf

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	shtSymtab = 2
	shtStrtab = 3
	shtProg   = 1
)

type testSection struct {
	name    string
	typ     uint32
	data    []byte
	entsize uint64
}

type testSym struct {
	name  string
	value uint64
}

// symtabSections returns a .symtab and its .strtab holding syms after the
// usual null entry.
func symtabSections(syms ...testSym) (testSection, testSection) {
	return symtabSectionsSized(symbolSize, syms...)
}

// symtabSectionsSized is symtabSections with entries padded to entsize.
func symtabSectionsSized(entsize uint64, syms ...testSym) (testSection, testSection) {
	strtab := []byte{0}
	symtab := make([]byte, entsize)
	for _, s := range syms {
		off := len(strtab)
		strtab = append(strtab, s.name...)
		strtab = append(strtab, 0)

		ent := make([]byte, entsize)
		byteOrder.PutUint32(ent[0:4], uint32(off))
		ent[4] = 0x12 // STB_GLOBAL, STT_FUNC
		byteOrder.PutUint16(ent[6:8], 1)
		byteOrder.PutUint64(ent[8:16], s.value)
		for i := uint64(symbolSize); i < entsize; i++ {
			ent[i] = 0xee
		}
		symtab = append(symtab, ent...)
	}
	return testSection{name: symtabName, typ: shtSymtab, data: symtab, entsize: entsize},
		testSection{name: strtabName, typ: shtStrtab, data: strtab}
}

// buildELF lays out a little-endian ELF64 relocatable file: header, section
// contents, then the section header table. Section 0 is the null section and
// .shstrtab is appended as the last one.
func buildELF(sections ...testSection) []byte {
	shstrtab := []byte{0}
	nameOffs := make([]uint32, 0, len(sections)+1)
	for _, s := range sections {
		nameOffs = append(nameOffs, uint32(len(shstrtab)))
		shstrtab = append(shstrtab, s.name...)
		shstrtab = append(shstrtab, 0)
	}
	nameOffs = append(nameOffs, uint32(len(shstrtab)))
	shstrtab = append(shstrtab, shstrtabName...)
	shstrtab = append(shstrtab, 0)

	all := append(append([]testSection{}, sections...),
		testSection{name: shstrtabName, typ: shtStrtab, data: shstrtab})

	buf := make([]byte, fileHeaderSize)
	offsets := make([]uint64, len(all))
	for i, s := range all {
		buf = pad8(buf)
		offsets[i] = uint64(len(buf))
		buf = append(buf, s.data...)
	}
	buf = pad8(buf)

	shoff := uint64(len(buf))
	buf = append(buf, make([]byte, sectionHeaderSize)...)
	for i, s := range all {
		sh := make([]byte, sectionHeaderSize)
		byteOrder.PutUint32(sh[0:4], nameOffs[i])
		byteOrder.PutUint32(sh[4:8], s.typ)
		byteOrder.PutUint64(sh[24:32], offsets[i])
		byteOrder.PutUint64(sh[32:40], uint64(len(s.data)))
		byteOrder.PutUint64(sh[48:56], 1)
		byteOrder.PutUint64(sh[56:64], s.entsize)
		buf = append(buf, sh...)
	}

	copy(buf[0:4], elfMagic)
	buf[identClassByte] = elfClass64
	buf[identDataByte] = elfDataLSB
	buf[6] = 1                          // EV_CURRENT
	byteOrder.PutUint16(buf[16:18], 1)  // ET_REL
	byteOrder.PutUint16(buf[18:20], 62) // EM_X86_64
	byteOrder.PutUint32(buf[20:24], 1)
	byteOrder.PutUint64(buf[40:48], shoff)
	byteOrder.PutUint16(buf[52:54], fileHeaderSize)
	byteOrder.PutUint16(buf[58:60], sectionHeaderSize)
	byteOrder.PutUint16(buf[60:62], uint16(len(all)+1))
	byteOrder.PutUint16(buf[62:64], uint16(len(all)))
	return buf
}

func pad8(b []byte) []byte {
	for len(b)%8 != 0 {
		b = append(b, 0)
	}
	return b
}

// withProgHeaders appends a program header table to an image from buildELF.
func withProgHeaders(data []byte, progs ...ProgHeader) []byte {
	buf := pad8(append([]byte{}, data...))
	phoff := uint64(len(buf))
	for _, p := range progs {
		ph := make([]byte, progHeaderSize)
		byteOrder.PutUint32(ph[0:4], p.Type)
		byteOrder.PutUint32(ph[4:8], p.Flags)
		byteOrder.PutUint64(ph[8:16], p.Off)
		byteOrder.PutUint64(ph[16:24], p.Vaddr)
		byteOrder.PutUint64(ph[24:32], p.Paddr)
		byteOrder.PutUint64(ph[32:40], p.Filesz)
		byteOrder.PutUint64(ph[40:48], p.Memsz)
		byteOrder.PutUint64(ph[48:56], p.Align)
		buf = append(buf, ph...)
	}
	byteOrder.PutUint64(buf[32:40], phoff)
	byteOrder.PutUint16(buf[54:56], progHeaderSize)
	byteOrder.PutUint16(buf[56:58], uint16(len(progs)))
	return buf
}

func symbolELF(syms ...testSym) []byte {
	symtab, strtab := symtabSections(syms...)
	text := testSection{name: ".text", typ: shtProg, data: []byte{0xc3}}
	return buildELF(text, symtab, strtab)
}

func memFs(t *testing.T, files map[string][]byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0644))
	}
	return fs
}

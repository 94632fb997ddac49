package elf

// Sizes of the ELF64 records this package decodes.
const (
	fileHeaderSize    = 64
	sectionHeaderSize = 64
	symbolSize        = 24
	progHeaderSize    = 56
)

const (
	elfMagic       = "\x7fELF"
	elfClass64     = 2
	elfDataLSB     = 1
	identClassByte = 4
	identDataByte  = 5
)

// FileHeader ELF64 file header
type FileHeader struct {
	Ident     [16]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// SectionHeader ELF64 section header. A zero value describes an empty
// section and is what the scanner reports for a missing one.
type SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

const (
	ptLoad = 1
	pfX    = 1
)

// ProgHeader ELF64 program header
type ProgHeader struct {
	Type   uint32
	Flags  uint32
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// Symbol ELF64 symbol table entry
type Symbol struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Value uint64
	Size  uint64
}

// Offset is the result for one requested name. Found is false when no
// symbol carried that name, in which case Value is zero.
type Offset struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
	Found bool   `json:"found"`
}

// Offsets results in request order
type Offsets []Offset

// Map indexes the results by name.
func (o Offsets) Map() map[string]Offset {
	m := make(map[string]Offset, len(o))
	for _, off := range o {
		m[off.Name] = off
	}
	return m
}

package elf

import "bytes"

// StringTable is the raw content of a string-table section.
type StringTable []byte

func loadStringTable(r *fileReader, sh *SectionHeader, name string) (StringTable, error) {
	if sh.Size == 0 {
		return StringTable{}, nil
	}

	buf, err := r.readAt(sh.Offset, sh.Size, "section content ("+name+")")
	if err != nil {
		return nil, err
	}
	return StringTable(buf), nil
}

// NameAt returns the NUL-terminated string starting at off. The string runs
// to the end of the table when no NUL follows. An offset outside the table
// yields "".
func (t StringTable) NameAt(off uint32) string {
	if uint64(off) >= uint64(len(t)) {
		return ""
	}

	b := t[off:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

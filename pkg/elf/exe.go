// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Exe maps symbol values of an executable to file offsets through its
// program headers.
type Exe struct {
	progs []ProgHeader
}

// OpenExe reads the program headers of the ELF64 file at name.
func OpenExe(name string, options ...Option) (x *Exe, err error) {
	opts := newOptions(options)
	r, err := openFile(opts.Fs, name, opts.SharedLock)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := r.close()
		if err == nil && closeErr != nil {
			x, err = nil, closeErr
		}
	}()

	header, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}
	return readExe(r, header)
}

func readExe(r *fileReader, h *FileHeader) (*Exe, error) {
	x := &Exe{}
	if h.Phnum == 0 {
		return x, nil
	}
	if h.Phentsize < progHeaderSize {
		return nil, newError(KindMalformed, "file header", errors.Errorf("program header entry size %d", h.Phentsize))
	}

	x.progs = make([]ProgHeader, h.Phnum)
	for i := range x.progs {
		off := h.Phoff + uint64(i)*uint64(h.Phentsize)
		buf, err := r.readAt(off, progHeaderSize, fmt.Sprintf("program header %d", i))
		if err != nil {
			return nil, err
		}
		x.progs[i].decode(buf)
	}
	return x, nil
}

// FileOffset converts a symbol value to its offset in the file.
// Values outside every executable segment are returned unchanged.
func (x *Exe) FileOffset(value uint64) uint64 {
	for _, prog := range x.progs {
		// Skip uninteresting segments.
		if prog.Type != ptLoad || (prog.Flags&pfX) == 0 {
			continue
		}

		if prog.Vaddr <= value && value < (prog.Vaddr+prog.Memsz) {
			// fn symbol offset = fn symbol VA - .text VA + .text offset
			//
			// stackoverflow.com/a/40249502
			return value - prog.Vaddr + prog.Off
		}
	}
	return value
}

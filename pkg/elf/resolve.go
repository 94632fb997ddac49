package elf

import (
	"github.com/ianlancetaylor/demangle"
	"github.com/pkg/errors"
)

// SymbolOffset parses the binary file with the specified path
// and gets the offset of the symbol with the specified name.
func SymbolOffset(path, name string, options ...Option) (uint64, error) {
	res, err := SymbolOffsets(path, []string{name}, options...)
	if err != nil && !errors.Is(err, ErrClose) {
		return 0, err
	}
	if !res[0].Found {
		return 0, newError(KindNotFound, name, nil)
	}
	return res[0].Value, err
}

// SymbolOffsets looks every name up in the .symtab of the ELF64 file at path.
// The result has one entry per name, in the same order, duplicates included.
// A name that matches several symbols gets the value of the last one in file
// order. Names with no match come back with Found unset.
//
// Every failure aborts the call except a failure to close the file: the
// results are complete by then, so they are returned along with an error
// matching ErrClose.
func SymbolOffsets(path string, names []string, options ...Option) (Offsets, error) {
	return symbolOffsets(path, names, newOptions(options))
}

func symbolOffsets(path string, names []string, opts *Options) (res Offsets, err error) {
	r, err := openFile(opts.Fs, path, opts.SharedLock)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := r.close()
		if err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	logger := opts.Logger.With().Str("path", path).Logger()

	header, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}

	secs, err := scanSections(r, header, logger)
	if err != nil {
		return nil, err
	}

	strtab, err := loadStringTable(r, &secs.strtab, strtabName)
	if err != nil {
		return nil, err
	}

	symbols, err := loadSymbols(r, &secs.symtab)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("symbols", len(symbols)).Int("names", len(names)).Msg("symbol table loaded")

	res = resolve(symbols, strtab, names, opts.Demangle)

	if opts.FileOffset {
		exe, err := readExe(r, header)
		if err != nil {
			return nil, err
		}
		for i := range res {
			if res[i].Found {
				res[i].Value = exe.FileOffset(res[i].Value)
			}
		}
	}
	return res, nil
}

// resolve matches every symbol against every name. Matches overwrite
// unconditionally, so the last symbol in file order wins.
func resolve(symbols []Symbol, strtab StringTable, names []string, demangled bool) Offsets {
	res := make(Offsets, len(names))
	for i, name := range names {
		res[i].Name = name
	}
	if len(names) == 0 {
		return res
	}

	for i := range symbols {
		sym := &symbols[i]
		name := strtab.NameAt(sym.Name)
		if name == "" {
			continue
		}

		alt := name
		if demangled {
			alt = demangle.Filter(name)
		}

		for j := range res {
			if res[j].Name == name || res[j].Name == alt {
				res[j].Value = sym.Value
				res[j].Found = true
			}
		}
	}
	return res
}

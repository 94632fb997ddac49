package elf

import (
	goelf "debug/elf"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"
)

// selfExe returns the path of the running test binary, skipping when it is
// not a little-endian ELF64 file.
func selfExe(t *testing.T) string {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("needs an ELF test binary")
	}

	path, err := os.Executable()
	require.NoError(t, err)

	f, err := goelf.Open(path)
	require.NoError(t, err)
	defer f.Close()
	if f.Class != goelf.ELFCLASS64 || f.Data != goelf.ELFDATA2LSB {
		t.Skip("test binary is not little-endian ELF64")
	}
	return path
}

func TestSymbolOffsetsMatchDebugElf(t *testing.T) {
	path := selfExe(t)

	f, err := goelf.Open(path)
	require.NoError(t, err)
	syms, err := f.Symbols()
	f.Close()
	if err != nil {
		t.Skip("test binary has no .symtab:", err)
	}

	count := map[string]int{}
	for _, s := range syms {
		count[s.Name]++
	}

	var names []string
	want := map[string]uint64{}
	for _, s := range syms {
		if s.Name == "" || count[s.Name] != 1 {
			continue
		}
		names = append(names, s.Name)
		want[s.Name] = s.Value
		if len(names) == 50 {
			break
		}
	}
	require.NotEmpty(t, names)

	res, err := SymbolOffsets(path, append(names, "no.such.symbol"))
	require.NoError(t, err)
	for _, off := range res[:len(names)] {
		require.True(t, off.Found, off.Name)
		require.Equal(t, want[off.Name], off.Value, off.Name)
	}
	require.False(t, res[len(names)].Found)
}

func TestExeFileOffset(t *testing.T) {
	path := selfExe(t)

	x, err := OpenExe(path)
	require.NoError(t, err)

	checked := 0
	for _, prog := range x.progs {
		if prog.Type != ptLoad || prog.Flags&pfX == 0 {
			continue
		}
		require.Equal(t, prog.Off, x.FileOffset(prog.Vaddr))
		require.Equal(t, prog.Off+1, x.FileOffset(prog.Vaddr+1))
		checked++
	}
	require.NotZero(t, checked)
	require.Equal(t, uint64(1<<63), x.FileOffset(1<<63))
}

func TestFileOffsetWithoutSegments(t *testing.T) {
	fs := memFs(t, map[string][]byte{"/bin/app": symbolELF(testSym{"foo", 0x1000})})

	res, err := SymbolOffsets("/bin/app", []string{"foo"}, WithFs(fs), WithFileOffset(true))
	require.NoError(t, err)
	require.Equal(t, uint64(0x1000), res[0].Value)
}

func TestFileOffsetTranslation(t *testing.T) {
	data := withProgHeaders(symbolELF(testSym{"foo", 0x400010}, testSym{"bar", 0x10}, testSym{"baz", 0x400020}),
		ProgHeader{Type: ptLoad, Flags: 4, Off: 0, Vaddr: 0x10, Memsz: 0x100},
		ProgHeader{Type: ptLoad, Flags: pfX | 4, Off: 0x1000, Vaddr: 0x400000, Filesz: 0x2000, Memsz: 0x2000})

	res, err := resolveMem(t, data, []string{"foo", "bar", "baz", "missing"}, WithFileOffset(true))
	require.NoError(t, err)
	require.Equal(t, Offsets{
		{Name: "foo", Value: 0x1010, Found: true},
		{Name: "bar", Value: 0x10, Found: true},
		{Name: "baz", Value: 0x1020, Found: true},
		{Name: "missing"},
	}, res)

	res, err = resolveMem(t, data, []string{"foo"})
	require.NoError(t, err)
	require.Equal(t, uint64(0x400010), res[0].Value)
}

func TestFileOffsetIgnoresVersion(t *testing.T) {
	data := withProgHeaders(symbolELF(testSym{"foo", 0x400010}),
		ProgHeader{Type: ptLoad, Flags: pfX, Off: 0x1000, Vaddr: 0x400000, Memsz: 0x2000})
	data[6] = 0
	byteOrder.PutUint32(data[20:24], 0)

	res, err := resolveMem(t, data, []string{"foo"}, WithFileOffset(true))
	require.NoError(t, err)
	require.Equal(t, uint64(0x1010), res[0].Value)
}

func TestFileOffsetMalformedProgHeaders(t *testing.T) {
	data := withProgHeaders(symbolELF(testSym{"foo", 0x400010}),
		ProgHeader{Type: ptLoad, Flags: pfX, Off: 0x1000, Vaddr: 0x400000, Memsz: 0x2000})

	short := append([]byte{}, data...)
	byteOrder.PutUint16(short[54:56], progHeaderSize-8)
	_, err := resolveMem(t, short, []string{"foo"}, WithFileOffset(true))
	require.ErrorIs(t, err, ErrMalformed)

	truncated := append([]byte{}, data...)
	byteOrder.PutUint16(truncated[56:58], 2)
	_, err = resolveMem(t, truncated, []string{"foo"}, WithFileOffset(true))
	require.ErrorIs(t, err, ErrShortRead)

	// Program headers are only read when translating.
	res, err := resolveMem(t, short, []string{"foo"})
	require.NoError(t, err)
	require.True(t, res[0].Found)
}

func TestOpenExeRejectsNonELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755))

	_, err := OpenExe(path)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSharedLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(path, symbolELF(testSym{"foo", 0x1000}), 0644))

	value, err := SymbolOffset(path, "foo", WithSharedLock(true))
	require.NoError(t, err)
	require.Equal(t, uint64(0x1000), value)

	writer := flock.New(path)
	ok, err := writer.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer writer.Unlock()

	_, err = SymbolOffset(path, "foo", WithSharedLock(true))
	require.ErrorIs(t, err, ErrOpen)
}

func TestSharedLockMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := SymbolOffset(path, "foo", WithSharedLock(true))
	require.ErrorIs(t, err, ErrOpen)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestSharedLockNeedsOsFs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only-in-memfs")
	fs := memFs(t, map[string][]byte{path: symbolELF(testSym{"foo", 0x1000})})

	_, err := SymbolOffsets(path, []string{"foo"}, WithFs(fs), WithSharedLock(true))
	require.ErrorIs(t, err, ErrOpen)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	_, err = ParseGoVersion(path, WithFs(fs), WithSharedLock(true))
	require.ErrorIs(t, err, ErrOpen)
	_, statErr = os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	value, err := SymbolOffset(path, "foo", WithFs(fs))
	require.NoError(t, err)
	require.Equal(t, uint64(0x1000), value)
}

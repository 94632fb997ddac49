package elf

import (
	"io"
	"math"
	"os"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// fileReader gives seek-then-read access to the target. Every read is
// positioned explicitly by the caller.
type fileReader struct {
	path string
	file afero.File
	size uint64
	pos  uint64
	lock *flock.Flock
}

// openFile opens path on fs. With lock set, a shared advisory lock is held
// until close. Locking needs the OS filesystem.
func openFile(fs afero.Fs, path string, lock bool) (*fileReader, error) {
	if lock {
		if _, ok := fs.(*afero.OsFs); !ok {
			return nil, newError(KindOpen, path, errors.Errorf("cannot lock %s on %s", path, fs.Name()))
		}
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, newError(KindOpen, path, errors.Wrap(err, "open"))
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, newError(KindOpen, path, errors.Wrap(err, "stat"))
	}

	r := &fileReader{
		path: path,
		file: file,
		size: uint64(info.Size()),
	}

	if lock {
		err = r.tryLockFile()
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return r, nil
}

// flock creates missing paths, so the file must still be there.
func (r *fileReader) tryLockFile() error {
	_, err := os.Stat(r.path)
	if err != nil {
		return newError(KindOpen, r.path, errors.Wrap(err, "lock"))
	}

	lock := flock.New(r.path)
	ok, err := lock.TryRLock()
	if err != nil {
		return newError(KindOpen, r.path, errors.Wrap(err, "lock"))
	}

	if !ok {
		return newError(KindOpen, r.path, errors.Errorf("%s is locked exclusively", r.path))
	}

	r.lock = lock
	return nil
}

func (r *fileReader) seek(off uint64, where string) error {
	if off > math.MaxInt64 {
		return newError(KindSeek, where, errors.Errorf("offset %#x out of range", off))
	}

	_, err := r.file.Seek(int64(off), io.SeekStart)
	if err != nil {
		return newError(KindSeek, where, errors.Wrapf(err, "seek to %#x", off))
	}
	r.pos = off
	return nil
}

// readExact reads n bytes at the current position. Anything less is an error.
func (r *fileReader) readExact(n uint64, where string) ([]byte, error) {
	if r.pos > r.size || n > r.size-r.pos {
		return nil, newError(KindShortRead, where,
			errors.Errorf("need %d bytes at %#x, file has %d", n, r.pos, r.size))
	}

	buf := make([]byte, n)
	_, err := io.ReadFull(r.file, buf)
	if err != nil {
		return nil, newError(KindShortRead, where, errors.Wrapf(err, "read %d bytes at %#x", n, r.pos))
	}
	r.pos += n
	return buf, nil
}

func (r *fileReader) readAt(off, n uint64, where string) ([]byte, error) {
	err := r.seek(off, where)
	if err != nil {
		return nil, err
	}
	return r.readExact(n, where)
}

func (r *fileReader) close() error {
	var unlockErr error
	if r.lock != nil {
		unlockErr = r.lock.Unlock()
		r.lock = nil
	}

	err := r.file.Close()
	if err != nil {
		return newError(KindClose, r.path, errors.Wrap(err, "close"))
	}
	if unlockErr != nil {
		return newError(KindClose, r.path, errors.Wrap(unlockErr, "unlock"))
	}
	return nil
}

package elf

import (
	"debug/buildinfo"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

var goVersionRe = regexp.MustCompile(`^go(\d+)\.(\d+)`)

// ParseGoVersion parses the specified binary file to get the go version used
// in the build, encoded as major*100+minor (go1.8 is 108, go1.21 is 121).
// The file is opened the way SymbolOffsets opens it. Binaries not built by
// Go fail with ErrMalformed.
func ParseGoVersion(path string, options ...Option) (ver int, err error) {
	opts := newOptions(options)
	r, err := openFile(opts.Fs, path, opts.SharedLock)
	if err != nil {
		return 0, err
	}
	defer func() {
		closeErr := r.close()
		if err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	info, err := buildinfo.Read(r.file)
	if err != nil {
		return 0, newError(KindMalformed, "go buildinfo", errors.Wrap(err, "read"))
	}
	return parseGoVersion(info.GoVersion)
}

func parseGoVersion(ver string) (int, error) {
	sm := goVersionRe.FindStringSubmatch(ver)
	if len(sm) != 3 {
		return 0, newError(KindMalformed, "go buildinfo", errors.Errorf("unknown go version %q", ver))
	}

	major, err := strconv.Atoi(sm[1])
	if err != nil {
		return 0, err
	}
	minor, err := strconv.Atoi(sm[2])
	if err != nil {
		return 0, err
	}
	return major*100 + minor, nil
}

package elf

import "fmt"

// Kind classifies a resolution failure.
type Kind int

const (
	// KindOpen the target could not be opened or locked
	KindOpen Kind = iota + 1
	// KindSeek an absolute seek failed
	KindSeek
	// KindShortRead fewer bytes were available than the record needs
	KindShortRead
	// KindClose releasing the file handle failed
	KindClose
	// KindMalformed the file is not a little-endian ELF64 object
	KindMalformed
	// KindNotFound the symbol is absent (single-name API only)
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open failure"
	case KindSeek:
		return "seek failure"
	case KindShortRead:
		return "short read"
	case KindClose:
		return "close failure"
	case KindMalformed:
		return "malformed elf"
	case KindNotFound:
		return "symbol not found"
	}
	return fmt.Sprintf("unknown kind %d", int(k))
}

// Error is returned by every operation of this package. Where names the
// record or table being processed when the failure happened.
type Error struct {
	Kind  Kind
	Where string
	Err   error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrOpen           = &Error{Kind: KindOpen}
	ErrSeek           = &Error{Kind: KindSeek}
	ErrShortRead      = &Error{Kind: KindShortRead}
	ErrClose          = &Error{Kind: KindClose}
	ErrMalformed      = &Error{Kind: KindMalformed}
	ErrSymbolNotFound = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Where != "" {
		msg += " (" + e.Where + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, where string, err error) *Error {
	return &Error{Kind: kind, Where: where, Err: err}
}

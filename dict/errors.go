package dict

import "github.com/pkg/errors"

// Kind classifies an error raised by the dictionary build, load, or save
// paths. Find-path failures never surface a Kind; per the recovery policy,
// they degrade to "no match" and are only visible through a Trace.
type Kind int

const (
	// KindNone is the zero Kind; Error.Kind() never returns it for a non-nil
	// error produced by this package.
	KindNone Kind = iota
	// KindTooManyEntries is raised by the builder when the corpus would
	// exceed the maximum of 2^32-1 entries. The index is left cleared.
	KindTooManyEntries
	// KindOutOfIDs is raised by the posting-list id generator when the
	// per-dictionary id space (uint32) is exhausted.
	KindOutOfIDs
	// KindBadMagic is raised on Load when the file's magic number does not
	// match any known format.
	KindBadMagic
	// KindBadVersion is raised on Load when the magic matches but the
	// version field is not one this package understands.
	KindBadVersion
	// KindIO wraps an underlying file open/read/write error.
	KindIO
	// KindAllocation is raised when the string store fails to grow.
	KindAllocation
)

func (k Kind) String() string {
	switch k {
	case KindTooManyEntries:
		return "too many entries"
	case KindOutOfIDs:
		return "out of posting-list ids"
	case KindBadMagic:
		return "bad magic"
	case KindBadVersion:
		return "bad version"
	case KindIO:
		return "io failure"
	case KindAllocation:
		return "allocation failure"
	default:
		return "none"
	}
}

// Error is the concrete error type returned by build, load, and save paths.
// It carries a Kind so callers can branch on the taxonomy in the error
// handling design without string matching.
type Error struct {
	kind Kind
	err  error
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, err: errors.New(msg)}
}

func wrapError(kind Kind, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: errors.Wrap(err, msg)}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.err.Error()
}

// Cause unwraps to the underlying error, for use with errors.Cause.
func (e *Error) Cause() error { return e.err }

var (
	// errTooManyEntries is returned by the builder when ingesting the
	// corpus would hand out entry index 2^32-1 (the reserved sentinel
	// index), i.e. push the entry count past 2^32-1.
	errTooManyEntries = newError(KindTooManyEntries, "corpus exceeds maximum of 2^32-1 entries")
	// errOutOfIDs is returned by the posting-list id generator once every
	// uint32 id has been handed out.
	errOutOfIDs = newError(KindOutOfIDs, "posting-list id space exhausted")
)

package scaffold

import (
	"errors"
	"fmt"
)

// Kind classifies why a scaffold run failed.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindDirectoryCreation
	KindSubprocess
	KindFileWrite
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDirectoryCreation = errors.New("directory creation failed")
	ErrSubprocess        = errors.New("subprocess failed")
	ErrFileWrite         = errors.New("file write failed")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindDirectoryCreation:
		return "directory_creation"
	case KindSubprocess:
		return "subprocess"
	case KindFileWrite:
		return "file_write"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindDirectoryCreation:
		return ErrDirectoryCreation
	case KindSubprocess:
		return ErrSubprocess
	case KindFileWrite:
		return ErrFileWrite
	default:
		return nil
	}
}

// Error is returned by Scaffolder.Run. Step names the pipeline step that
// failed and Path the file or directory involved, if any.
type Error struct {
	Kind Kind
	Step string
	Path string
	Err  error
	// CleanedUp is set when the partially created project was removed.
	CleanedUp bool
}

func (e *Error) Error() string {
	msg := e.Step + ": "
	if e.Path != "" {
		msg += e.Path + ": "
	}
	msg += e.Err.Error()
	if e.CleanedUp {
		msg += " (partial project removed)"
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if s := e.Kind.sentinel(); s != nil {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// ExitCode returns the process exit code for err: 0 for nil, 2 for invalid
// arguments, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if KindOf(err) == KindInvalidArgument {
		return 2
	}
	return 1
}

package level

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

// Contract violations. These are programming errors in the caller and are
// raised as panics carrying a *BugError.
var (
	// ErrBadObjType indicates an unknown record kind.
	ErrBadObjType = errors.New("bad object type")

	// ErrIndexOutOfRange indicates an index outside the live range of a kind.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrBadField indicates a field id the record kind does not have.
	ErrBadField = errors.New("bad field")

	// ErrKindMismatch indicates a record handed to the wrong array.
	ErrKindMismatch = errors.New("record kind mismatch")
)

// ErrBadReference is returned by Check for a dangling reference.
var ErrBadReference = errors.New("bad reference")

// BugError is the panic value for a violated contract.
type BugError struct {
	Msg string
	Err error
}

func (e *BugError) Error() string {
	if e.Msg == "" {
		return "bug: " + e.Err.Error()
	}
	return "bug: " + e.Msg + ": " + e.Err.Error()
}

func (e *BugError) Unwrap() error {
	return e.Err
}

// Bugf logs and panics with a *BugError wrapping err.
func Bugf(err error, format string, args ...any) {
	e := &BugError{Msg: fmt.Sprintf(format, args...), Err: err}
	glog.ErrorDepth(1, e.Error())
	panic(e)
}

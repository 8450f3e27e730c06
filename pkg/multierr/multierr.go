package multierr

import (
	"fmt"
	"strings"
)

// Error collects the errors of a batch operation (registering construct types, creating every construct
// of a configuration) so that all failures are reported at once instead of only the first one.
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"

	case 1:
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:", len(e))
	for _, err := range e {
		sb.WriteString("\n\t* ")
		sb.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t  "))
	}
	return sb.String()
}

// Append adds err to e, flattening it if it is itself an [Error]. No-op if `err == nil`.
//
//	var errs multierr.Error
//	errs.Append(err)
func (e *Error) Append(err error) {
	if e == nil || err == nil {
		return
	}
	if merr, ok := err.(Error); ok {
		for _, inner := range merr {
			e.Append(inner)
		}
		return
	}
	*e = append(*e, err)
}

// Append combines two errors without mutating either.
func Append(err1, err2 error) Error {
	var e Error
	e.Append(err1)
	e.Append(err2)
	return e
}

// ErrOrNil converts e into an error, avoiding the typed-nil trap (`Error(nil) != nil` when returned as
// an `error`). A single error is returned unwrapped.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		return e
	}
}

// Unwrap lets [errors.Is] and [errors.As] match against any of the collected errors.
func (e Error) Unwrap() []error {
	return e
}

// Errors returns the individual errors of err: the members if it is an [Error], otherwise err itself.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if merr, ok := err.(Error); ok {
		return merr
	}
	return []error{err}
}

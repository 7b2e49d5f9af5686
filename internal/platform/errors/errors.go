// Package errors is the coded error shared by every layer; import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable half of an error
// the numbers travel in the response envelope, so only append
type ErrorCode uint16

const (
	ErrorCodeUnknown      ErrorCode = iota // unclassified
	ErrorCodePanic                         // recovered by middleware
	ErrorCodeUnavailable                   // engine or store not ready, retry later
	ErrorCodeValidation                    // malformed request or corpus row
	ErrorCodeJSON                          // body did not decode
	ErrorCodeNotFound                      // unknown syllable or resource
	ErrorCodeDuplicateKey                  // unique violation on corpus import
	ErrorCodeDB                            // any other store failure
	ErrorCodeConfig                        // profile or graph parameters that cannot run
	ErrorCodeDeadEnd                       // walk ran out of candidates
)

var codes = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:      {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:        {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:  {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeValidation:   {"validation", http.StatusBadRequest},
	ErrorCodeJSON:         {"json", http.StatusBadRequest},
	ErrorCodeNotFound:     {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey: {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:           {"db", http.StatusInternalServerError},
	ErrorCodeConfig:       {"config", http.StatusUnprocessableEntity},
	ErrorCodeDeadEnd:      {"dead_end", http.StatusUnprocessableEntity},
}

// String names the code for logs
func (c ErrorCode) String() string {
	if int(c) < len(codes) {
		return codes[c].name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Status is the HTTP status for c, 500 for codes it does not know
func (c ErrorCode) Status() int {
	if int(c) < len(codes) {
		return codes[c].status
	}
	return http.StatusInternalServerError
}

// HTTPStatusCode is c.Status as a function, for handler tables
func HTTPStatusCode(c ErrorCode) int { return c.Status() }

// Error pairs a message for people with a code for machines
type Error struct {
	code  ErrorCode
	msg   string
	field string // offending input, if any
	orig  error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	default:
		return e.msg + ": " + e.orig.Error()
	}
}

func (e *Error) Unwrap() error   { return e.orig }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }

// Wire is how an error appears inside a JSON payload
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom flattens err, errors from outside this package become Unknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error, Unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// HTTPStatus maps any error to a status
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// Root walks Unwrap to the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// WithField copies the outermost *Error with field set, other errors are returned as is
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

// ErrNotFound is what single row store reads return on no rows
var ErrNotFound = New(ErrorCodeNotFound, "not found")

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Configf(format string, a ...any) error      { return Newf(ErrorCodeConfig, format, a...) }
func DeadEndf(format string, a ...any) error     { return Newf(ErrorCodeDeadEnd, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Internalf(format string, a ...any) error    { return Newf(ErrorCodeUnknown, format, a...) }

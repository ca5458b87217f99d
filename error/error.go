// Package error defines the failure taxonomy shared by every resource and view.
//
// Every failure surfaced by this module is an *Error tagged with a Kind. The
// package level sentinels match any error of the same kind:
//
//	if errors.Is(err, e.OutOfBounds) {
//		...
//	}
package error

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindPermissionDenied    Kind = "permission_denied"
	KindAmbiguous           Kind = "ambiguous"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindOutOfRange          Kind = "out_of_range"
	KindResourceUnavailable Kind = "resource_unavailable"
	KindIO                  Kind = "io" // OS failure outside the taxonomy, see Cause
)

var (
	NotFound            = &Error{Kind: KindNotFound}
	PermissionDenied    = &Error{Kind: KindPermissionDenied}
	Ambiguous           = &Error{Kind: KindAmbiguous}
	OutOfBounds         = &Error{Kind: KindOutOfBounds}
	OutOfRange          = &Error{Kind: KindOutOfRange}
	ResourceUnavailable = &Error{Kind: KindResourceUnavailable}
)

type Error struct {
	Kind     Kind
	Op       string
	Resource string
	Detail   string
	Cause    error
}

func (err *Error) Error() string {
	var b strings.Builder

	if err.Op != "" {
		b.WriteByte('[')
		b.WriteString(err.Op)
		b.WriteString("] ")
	}
	b.WriteString(string(err.Kind))

	if err.Resource != "" {
		b.WriteString(" ")
		b.WriteString(err.Resource)
	}

	if err.Detail != "" {
		b.WriteString(": ")
		b.WriteString(err.Detail)
	}

	if err.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(err.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (err *Error) Unwrap() error {
	return err.Cause
}

// Is reports whether target is an *Error of the same kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == err.Kind
}

func New(kind Kind, op, resource, format string, args ...interface{}) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}

	return &Error{
		Kind:     kind,
		Op:       op,
		Resource: resource,
		Detail:   detail,
	}
}

func Wrap(kind Kind, op, resource string, cause error) *Error {
	return &Error{
		Kind:     kind,
		Op:       op,
		Resource: resource,
		Cause:    cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// Bounds reports a relative range that does not fit a view of the given size.
func Bounds(op, resource string, offset, length, size uint64) *Error {
	return New(KindOutOfBounds, op, resource, "offset:%d length:%d size:%d", offset, length, size)
}

// Closed reports use of a handle or context after Close.
func Closed(op, resource string) *Error {
	return New(KindResourceUnavailable, op, resource, "use after close")
}

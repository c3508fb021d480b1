package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks a 401 from the API: the upstream session is gone.
var ErrUnauthorized = errors.New("api: unauthorized")

type Kind int

const (
	// KindNetwork covers transport failures: DNS, refused connections, timeouts.
	KindNetwork Kind = iota + 1
	// KindStatus is an unexpected HTTP status.
	KindStatus
	// KindDecode is a response body that could not be read.
	KindDecode
	// KindRejected is a well-formed answer saying no (status=false).
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindRejected:
		return "rejected"
	}
	return "unknown"
}

type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: %s (%d): %s", e.Op, e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsUnauthorized is shorthand for errors.Is(err, ErrUnauthorized).
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Rejection returns the server's message when err is a business-rule rejection.
func Rejection(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindRejected {
		return apiErr.Message, true
	}
	return "", false
}

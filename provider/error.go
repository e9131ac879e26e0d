package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is the normal state of a request carrying absent,
	// expired, or revoked credential material. Not a failure.
	ErrNoSession = errors.New("no session")

	// ErrUnreachable marks a transport failure talking to the provider.
	// Routing treats it exactly like ErrNoSession; it exists so callers can log it.
	ErrUnreachable = errors.New("provider unreachable")
)

// An Error is a rejection the provider chose to explain.
//
// Message is surfaced to the end user verbatim and is the only provider
// diagnostic gatehouse ever exposes.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider rejected request (%d)", e.Code)
	}

	return e.Message
}

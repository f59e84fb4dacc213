package query

import (
	"errors"
	"fmt"
)

// Kind categorizes query failures for diagnostics.
// The conversation store collapses every kind into one fallback message.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport covers unreachable hosts, refused connections and transport timeouts.
	KindTransport
	// KindProtocol covers any non-2xx HTTP status.
	KindProtocol
	// KindMalformed covers bodies that are not JSON or lack the reply field.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is returned by every failing Client call.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the failure kind of err, or KindUnknown when err is not a *Error.
func KindOf(err error) Kind {
	var qerr *Error
	if errors.As(err, &qerr) {
		return qerr.Kind
	}
	return KindUnknown
}

package silverpop

import (
	"errors"
	"fmt"

	"github.com/natserract/silverpop/pkg/codec"
)

// ErrorIDNotAuthenticated is the fault error id the API returns when the
// session id is missing or has expired.
const ErrorIDNotAuthenticated = "140"

var (
	// ErrAuthentication is returned when login cannot obtain a session id.
	ErrAuthentication = errors.New("silverpop: authentication failed")

	// ErrPrecondition is returned before any network call when arguments
	// are unusable.
	ErrPrecondition = errors.New("silverpop: precondition failed")

	// ErrMalformedResponse is returned when a response decodes but has no
	// Envelope.Body.
	ErrMalformedResponse = errors.New("silverpop: malformed response")
)

// Fault is the decoded Envelope.Body.Fault subtree of a failed call.
type Fault map[string]any

// ErrorID returns detail.error.errorid, or "" when absent.
func (f Fault) ErrorID() string {
	id, _ := codec.LookupString(f, "detail", "error", "errorid")
	return id
}

// FaultString returns the human readable fault message, or "" when absent.
func (f Fault) FaultString() string {
	s, _ := codec.LookupString(f, "FaultString")
	return s
}

// APICallError reports a failure returned by the API for a non-login call.
type APICallError struct {
	Operation string
	Fault     Fault
}

func (e *APICallError) Error() string {
	msg := fmt.Sprintf("silverpop: %s failed", e.Operation)
	if id := e.Fault.ErrorID(); id != "" {
		msg += fmt.Sprintf(" (errorid %s)", id)
	}
	if s := e.Fault.FaultString(); s != "" {
		msg += ": " + s
	}
	return msg
}

// ErrorID is a shortcut for e.Fault.ErrorID().
func (e *APICallError) ErrorID() string {
	return e.Fault.ErrorID()
}

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

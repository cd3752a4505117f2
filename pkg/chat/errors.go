package chat

import (
	"github.com/pkg/errors"
)

const (
	emptyPromptText = "Please enter a question or prompt."
	serverErrorText = "Unable to reach AI server. Please try again."
)

// ErrBusy is returned when Submit or ResetConversation is called while a
// request is in flight.
var ErrBusy = errors.New("a request is already in flight")

// ValidationError reports a prompt that cannot be sent.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid prompt: " + e.Reason
}

// ServerError reports any failure of the outbound request: transport errors,
// non-success statuses and missing or malformed replies. Cause is kept for
// diagnostics only, users get a generic notice.
type ServerError struct {
	Cause error
}

func (e *ServerError) Error() string {
	if e.Cause == nil {
		return "server error"
	}
	return "server error: " + e.Cause.Error()
}

func (e *ServerError) Unwrap() error { return e.Cause }

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsServerError(err error) bool {
	var s *ServerError
	return errors.As(err, &s)
}

package services

import (
	"errors"

	"github.com/dmitrijs2005/blogdesk/internal/client/client"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrRegistrationFailed = errors.New("Registration failed")
	ErrNoSession          = errors.New("no stored session")
	ErrTitleRequired      = errors.New("Title is required")
)

// displayError carries a user-facing message while still matching both a
// service sentinel and the underlying cause with errors.Is.
type displayError struct {
	msg   string
	kind  error
	cause error
}

func (e *displayError) Error() string {
	return e.msg
}

func (e *displayError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// isTransport reports whether err is a client error with no usable response.
func isTransport(err error) bool {
	apiErr, ok := client.AsAPIError(err)
	return ok && apiErr.Kind == client.KindTransport
}

// serverMessage returns the message the server supplied, "" when it sent
// none.
func serverMessage(err error) string {
	apiErr, ok := client.AsAPIError(err)
	if !ok || apiErr.Kind != client.KindServer || apiErr.Message == client.MsgRequestFailed {
		return ""
	}
	return apiErr.Message
}

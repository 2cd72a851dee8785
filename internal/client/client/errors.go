package client

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/blogdesk/internal/netx"
)

// Display strings used when the server does not supply its own message.
const (
	MsgRequestFailed    = "API request failed"
	MsgNetwork          = "Network error or invalid response"
	MsgNotAuthenticated = "User is not authenticated."
)

var (
	// ErrNotAuthenticated matches errors of kind KindUnauthenticated.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnavailable matches transport errors where the server was unreachable.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized matches server rejections with status 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
)

// Kind classifies an APIError.
type Kind int

const (
	// KindServer: the server answered with a failure status or envelope.
	KindServer Kind = iota + 1
	// KindTransport: no usable response (network failure or undecodable body).
	KindTransport
	// KindUnauthenticated: an authenticated call was attempted without a token.
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// APIError is returned by every Client call that fails. Message is always a
// displayable string.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotAuthenticated:
		return e.Kind == KindUnauthenticated
	case ErrUnavailable:
		return e.Kind == KindTransport && netx.IsUnavailable(e.Err)
	case ErrUnauthorized:
		return e.Kind == KindServer &&
			(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
	}
	return false
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func notAuthenticated(err error) *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: MsgNotAuthenticated, Err: err}
}

func transportError(err error) *APIError {
	return &APIError{Kind: KindTransport, Message: MsgNetwork, Err: err}
}

func serverError(status int, message string) *APIError {
	if message == "" {
		message = MsgRequestFailed
	}
	return &APIError{Kind: KindServer, StatusCode: status, Message: message}
}

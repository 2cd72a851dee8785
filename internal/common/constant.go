// Package common contains shared constants and sentinel errors used across
// blogdesk components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token value in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client and server log lines.
	RequestIDHeaderName = "X-Request-ID"
)

// Package models defines client-side data models used by the blogdesk SDK
// and terminal client.
package models

// RoleUser is assigned to users derived from a login response.
const RoleUser = "USER"

// User is the cached profile of the signed-in author. Views receive copies
// and never mutate the session's instance.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// DisplayName prefers the user name and falls back to the email.
func (u User) DisplayName() string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.Email
}

// SessionState is the authentication lifecycle of the client.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateVerifying     SessionState = "verifying"
	StateAuthenticated SessionState = "authenticated"
)

// Session is a read-only snapshot of authentication state.
// IsAuthenticated is true exactly when Token is non-empty.
type Session struct {
	IsAuthenticated bool
	User            *User
	Token           string
}

// AnonymousSession is the zero session.
func AnonymousSession() Session {
	return Session{}
}

// NewSession builds a session for token and user, keeping the
// IsAuthenticated ⇔ Token invariant.
func NewSession(token string, user *User) Session {
	if token == "" {
		return AnonymousSession()
	}
	var u *User
	if user != nil {
		cp := *user
		u = &cp
	}
	return Session{IsAuthenticated: true, User: u, Token: token}
}

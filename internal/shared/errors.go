package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired indicates the bearer token no longer resolves.
	ErrSessionExpired = errors.New("session expired")
)

// UserSafeMessage returns a message safe to surface to API clients. Internal
// errors collapse to a generic string so SQL and infrastructure details never
// leak into responses.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "record not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, ErrSessionExpired):
		return "session expired, sign in again"
	default:
		return "something went wrong, try again"
	}
}

package enroll

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Stable machine readable codes surfaced to API clients.
const (
	TextCodeActivityNotFound  = "activity_not_found"
	TextCodeAlreadyRegistered = "already_registered"
	TextCodeActivityFull      = "activity_full"
	TextCodeNotRegistered     = "not_registered"
	TextCodeUserExists        = "user_exists"
	TextCodeBadCredentials    = "bad_credentials"
	TextCodeTokenExpired      = "token_expired"
	TextCodeTokenMalformed    = "token_malformed"
	TextCodeEmptyPassword     = "empty_password"
)

// ErrActivityNotFound is returned when no activity matches the given name.
var ErrActivityNotFound = errors.New("activity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeActivityNotFound).
	WithCode(errors.CodeNotFound)

// ErrAlreadyRegistered is returned when a (user, activity) registration
// already exists.
var ErrAlreadyRegistered = errors.New("student is already signed up", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyRegistered).
	WithCode(errors.CodeConflict)

// ErrActivityFull is returned when an activity has reached max_participants.
var ErrActivityFull = errors.New("activity is full", errors.CategoryConflict).
	WithTextCode(TextCodeActivityFull).
	WithCode(errors.CodeConflict)

// ErrNotRegistered is returned on unregister when the user has no
// registration for the activity (or does not exist at all).
var ErrNotRegistered = errors.New("student is not signed up for this activity", errors.CategoryConflict).
	WithTextCode(TextCodeNotRegistered).
	WithCode(errors.CodeBadRequest)

// ErrUserExists is returned when registration is attempted with an email
// that already has a user record.
var ErrUserExists = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists).
	WithCode(errors.CodeConflict)

// ErrMismatchedHashAndPassword covers every credential failure: unknown
// email, password-less account, and wrong password all collapse into it so
// login responses cannot be used to enumerate accounts.
var ErrMismatchedHashAndPassword = errors.New("incorrect username or password", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is cooling down.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when an empty password is hashed.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token's embedded expiry has passed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned on signature mismatch, malformed structure,
// or a missing subject claim.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrUnableToFindSession is returned when a request carries no session token
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims is returned when claims cannot be read from a token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed, tampered, or unparseable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	if hasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// hasTextCode matches on the rich error's machine code rather than its
// rendered message, which the renderer masks for auth categories.
func hasTextCode(err error, code string) bool {
	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == code
}

// isUniqueViolation detects storage level unique constraint failures so the
// commands can translate them into domain conflicts.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

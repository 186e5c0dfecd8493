package enroll_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-enroll"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured token expired error",
			err:      enroll.ErrTokenExpired,
			expected: true,
		},
		{
			name:     "Legacy token expired error (string match)",
			err:      errors.New("some wrapper: token is expired"),
			expected: true,
		},
		{
			name: "Wrapped error carries the text code but masks the message",
			err: goerrors.Wrap(errors.New("exp claim in the past"), goerrors.CategoryAuth, "Authentication failed.").
				WithTextCode(enroll.TextCodeTokenExpired),
			expected: true,
		},
		{
			name:     "Different structured error",
			err:      enroll.ErrIdentityNotFound,
			expected: false,
		},
		{
			name:     "Different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := enroll.IsTokenExpiredError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured malformed error",
			err:      enroll.ErrTokenMalformed,
			expected: true,
		},
		{
			name:     "Missing JWT from middleware",
			err:      errors.New("missing or malformed JWT"),
			expected: true,
		},
		{
			name: "Wrapped signature mismatch carries the text code but masks the message",
			err: goerrors.Wrap(errors.New("signature is invalid"), goerrors.CategoryAuth, "Authentication failed.").
				WithTextCode(enroll.TextCodeTokenMalformed),
			expected: true,
		},
		{
			name:     "Expired error is not malformed",
			err:      enroll.ErrTokenExpired,
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := enroll.IsMalformedError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDomainErrorCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
	}{
		{
			name:     "activity not found",
			err:      enroll.ErrActivityNotFound,
			category: goerrors.CategoryNotFound,
			textCode: enroll.TextCodeActivityNotFound,
		},
		{
			name:     "already registered",
			err:      enroll.ErrAlreadyRegistered,
			category: goerrors.CategoryConflict,
			textCode: enroll.TextCodeAlreadyRegistered,
		},
		{
			name:     "activity full",
			err:      enroll.ErrActivityFull,
			category: goerrors.CategoryConflict,
			textCode: enroll.TextCodeActivityFull,
		},
		{
			name:     "not registered",
			err:      enroll.ErrNotRegistered,
			category: goerrors.CategoryConflict,
			textCode: enroll.TextCodeNotRegistered,
		},
		{
			name:     "user exists",
			err:      enroll.ErrUserExists,
			category: goerrors.CategoryConflict,
			textCode: enroll.TextCodeUserExists,
		},
		{
			name:     "bad credentials",
			err:      enroll.ErrMismatchedHashAndPassword,
			category: goerrors.CategoryAuth,
			textCode: enroll.TextCodeBadCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

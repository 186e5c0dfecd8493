package enroll_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testConfig is a minimal Config for exercising the authenticator.
type testConfig struct{}

func (testConfig) GetSigningKey() string { return "test-signing-key" }
func (testConfig) GetSigningMethod() string { return "HS256" }
func (testConfig) GetContextKey() string { return "user" }
func (testConfig) GetTokenExpiration() int { return 60 }
func (testConfig) GetTokenLookup() string { return "header:Authorization" }
func (testConfig) GetAuthScheme() string { return "Bearer" }
func (testConfig) GetIssuer() string { return "test-issuer" }
func (testConfig) GetAudience() []string { return []string{"test:audience"} }

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a signed token for valid credentials", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "teacher@example.com", "secret").
			Return(testIdentity{id: "t-1", email: "teacher@example.com", name: "Pat Teacher", role: "teacher"}, nil)

		auther := enroll.NewAuthenticator(provider, testConfig{})

		token, err := auther.Login(ctx, "teacher@example.com", "secret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// the token round trips through the same service
		claims, err := auther.TokenService().Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "teacher@example.com", claims.Subject())
		assert.Equal(t, "teacher", claims.Role())

		provider.AssertExpectations(t)
	})

	t.Run("propagates the provider error", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "teacher@example.com", "wrong").
			Return(nil, enroll.ErrMismatchedHashAndPassword)

		auther := enroll.NewAuthenticator(provider, testConfig{})

		_, err := auther.Login(ctx, "teacher@example.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects a nil identity", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "ghost@example.com", "secret").
			Return(nil, nil)

		auther := enroll.NewAuthenticator(provider, testConfig{})

		_, err := auther.Login(ctx, "ghost@example.com", "secret")
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrIdentityNotFound)
	})
}

func TestIdentityFromClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the identity behind the token subject", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("FindIdentityByIdentifier", ctx, "student@example.com").
			Return(testIdentity{id: "s-1", email: "student@example.com", name: "Stu Dent", role: "student"}, nil)

		auther := enroll.NewAuthenticator(provider, testConfig{})

		claims := &enroll.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "student@example.com"},
			UserRole:         "student",
		}

		identity, err := auther.IdentityFromClaims(ctx, claims)
		require.NoError(t, err)
		assert.Equal(t, "student@example.com", identity.Email())

		provider.AssertExpectations(t)
	})

	t.Run("rejects nil claims", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		auther := enroll.NewAuthenticator(provider, testConfig{})

		_, err := auther.IdentityFromClaims(ctx, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrUnableToMapClaims)
		provider.AssertNotCalled(t, "FindIdentityByIdentifier", mock.Anything, mock.Anything)
	})

	t.Run("propagates lookup failures", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("FindIdentityByIdentifier", ctx, "gone@example.com").
			Return(nil, enroll.ErrIdentityNotFound)

		auther := enroll.NewAuthenticator(provider, testConfig{})

		claims := &enroll.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "gone@example.com"},
		}

		_, err := auther.IdentityFromClaims(ctx, claims)
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrIdentityNotFound)
	})
}

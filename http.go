package enroll

import (
	"net/http"

	"github.com/goliatone/go-enroll/middleware/jwtware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// tokenValidatorAdapter bridges the TokenService to the middleware's local
// validator interface.
type tokenValidatorAdapter struct {
	ts TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ProtectedRoute builds the bearer-token middleware for routes that require
// an authenticated user.
func ProtectedRoute(auther Authenticator, cfg Config, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: tokenValidatorAdapter{ts: auther.TokenService()},
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
	})
}

// UnauthorizedErrorHandler collapses every token failure into a single 401
// response so the reason cannot be probed from outside. The expired versus
// malformed distinction is preserved in the logs.
func UnauthorizedErrorHandler(logger Logger) router.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(ctx router.Context, err error) error {
		if IsTokenExpiredError(err) {
			logger.Info("rejected expired token: %v", err)
		} else if IsMalformedError(err) {
			logger.Info("rejected malformed token: %v", err)
		} else {
			logger.Info("rejected token: %v", err)
		}

		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "could not validate credentials",
		})
	}
}

// respondError maps domain errors to HTTP responses. Business rule failures
// surface as structured client errors; anything unexpected becomes a 500.
func respondError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	status := statusForCategory(richErr.Category)

	body := map[string]string{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	return ctx.JSON(status, body)
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusBadRequest
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	default:
		return router.StatusInternalServerError
	}
}

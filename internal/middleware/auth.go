package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"studentblog/internal/auth"
	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/service"
)

// Context keys set by Auth.
const (
	UserContextKey   = "user"
	ClaimsContextKey = "claims"

	authErrorKey = "auth_error"
	bearerPrefix = "Bearer "
)

// Authenticator resolves a raw bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *auth.Claims, error)
}

// Auth rejects requests without a valid, unrevoked token of an existing user.
// On success the user and the claims are stored in the echo context.
func Auth(authenticator Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		ContextKey:  ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, claims, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				c.Set(authErrorKey, err)
				return nil, err
			}
			c.Set(UserContextKey, user)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// no stored cause means the extractor found no bearer token
			cause, ok := c.Get(authErrorKey).(error)
			if !ok {
				return apperrors.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied", "TOKEN_MISSING")
			}
			return mapAuthError(cause)
		},
	})
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.NewHTTPError(http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
	case errors.Is(err, service.ErrTokenRevoked):
		return apperrors.NewHTTPError(http.StatusUnauthorized, "Token has been revoked", "TOKEN_REVOKED")
	case errors.Is(err, apperrors.ErrUserNotFound):
		return apperrors.NewHTTPError(http.StatusUnauthorized, "User not found", "USER_NOT_FOUND")
	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenSignatureInvalid),
		errors.Is(err, auth.ErrTokenInvalid):
		return apperrors.NewHTTPError(http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID")
	default:
		return err
	}
}

// CurrentUser returns the user attached by Auth, or nil on public routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(UserContextKey).(*model.User)
	return user
}

// CurrentClaims returns the verified claims attached by Auth.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims
}

// BearerToken extracts the token of an "Authorization: Bearer" header, if any.
func BearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

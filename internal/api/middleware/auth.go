// Package middleware implements the access-control gate. Every protected
// route goes through RequireRole or one of its named configurations; a
// request either reaches the wrapped handler with a verified identity in
// context or is terminated here.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicatlas/records-system/internal/api/metrics"
	"github.com/civicatlas/records-system/internal/core/domain"
	"github.com/civicatlas/records-system/internal/core/ports"
)

const (
	identityKey = "auth.identity"
	tokenKey    = "auth.token"
)

// RequireRole verifies the bearer token and, when requiredRole is non-empty,
// enforces an exact role match. On success the resolved identity and the raw
// token are published into the echo context before the next handler runs.
func RequireRole(codec ports.TokenCodec, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}

			identity, err := codec.Verify(raw)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				metrics.AccessDeniedTotal.WithLabelValues("bad_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			if requiredRole != "" && identity.Role != requiredRole {
				metrics.AccessDeniedTotal.WithLabelValues("role_mismatch").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			PublishIdentity(c, identity, raw)
			return next(c)
		}
	}
}

// RequireAuth admits any verified identity regardless of role.
func RequireAuth(codec ports.TokenCodec) echo.MiddlewareFunc {
	return RequireRole(codec, "")
}

// RequireStaff admits staff identities only.
func RequireStaff(codec ports.TokenCodec) echo.MiddlewareFunc {
	return RequireRole(codec, domain.RoleStaff)
}

// RequireAdmin admits admin identities only.
func RequireAdmin(codec ports.TokenCodec) echo.MiddlewareFunc {
	return RequireRole(codec, domain.RoleAdmin)
}

// OptionalAuth attempts token verification but never fails closed: the
// wrapped handler always runs, with an identity in context iff a valid token
// was supplied.
func OptionalAuth(codec ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if identity, err := codec.Verify(raw); err == nil {
					metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
					PublishIdentity(c, identity, raw)
				} else {
					metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				}
			}
			return next(c)
		}
	}
}

// PublishIdentity attaches a verified identity and its raw token to the
// request context for the downstream handler.
func PublishIdentity(c echo.Context, identity domain.Identity, raw string) {
	c.Set(identityKey, identity)
	c.Set(tokenKey, raw)
}

// IdentityFrom returns the identity published by the gate, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

// TokenFrom returns the raw bearer token published by the gate, if any.
func TokenFrom(c echo.Context) (string, bool) {
	raw, ok := c.Get(tokenKey).(string)
	return raw, ok && raw != ""
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func verifyResult(err error) string {
	if errors.Is(err, domain.ErrTokenExpired) {
		return "expired"
	}
	return "invalid"
}

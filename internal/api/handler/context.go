package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicatlas/records-system/internal/api/middleware"
	"github.com/civicatlas/records-system/internal/core/domain"
)

// currentIdentity extracts the identity published by the access-control
// middleware. Its absence on a gated route means the route was wired without
// the gate — fail closed rather than guess.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return identity, nil
}

// currentToken extracts the raw bearer token published by the middleware.
func currentToken(c echo.Context) (string, error) {
	raw, ok := middleware.TokenFrom(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return raw, nil
}

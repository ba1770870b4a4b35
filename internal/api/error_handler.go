package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicatlas/records-system/internal/api/response"
	"github.com/civicatlas/records-system/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their error tag and HTTP status.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders every failure as the {success,error,message} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, tag, msg := resolveError(err, log, c)
		_ = c.JSON(code, response.Err(tag, msg))
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors: router 404/405, bind failures, and the HTTPErrors
	// raised by the access-control middleware.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, tagForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, response.TagValidation, err.Error()
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusBadRequest, response.TagDuplicateUser, "username or email already taken"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.TagInvalidCredentials, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, response.TagUnauthorized, "Invalid or expired token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, response.TagForbidden, "Insufficient permissions"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, response.TagNotFound, "user not found"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, response.TagNotFound, "record not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, response.TagInternal, "internal server error"
}

// tagForStatus maps framework-level statuses onto the error taxonomy.
func tagForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return response.TagValidation
	case http.StatusUnauthorized:
		return response.TagUnauthorized
	case http.StatusForbidden:
		return response.TagForbidden
	case http.StatusNotFound:
		return response.TagNotFound
	case http.StatusMethodNotAllowed:
		return response.TagMethodNotAllowed
	default:
		return response.TagInternal
	}
}

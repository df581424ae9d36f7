package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/shared/apperr"
)

// respondError renders err in the ErrorResponse envelope. Internal causes
// are logged, never returned.
func respondError(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Default().ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"status", status,
			"err", err,
		)
	}
	body := ErrorResponse{Error: apperr.PublicMessage(err)}
	if ae, ok := apperr.As(err); ok {
		for _, f := range apperr.SortedFields(err) {
			body.Details = append(body.Details, FieldError{Field: f, Message: ae.Fields[f]})
		}
	}
	return c.JSON(status, body)
}

// bindValid binds and validates req; on failure it has already written the
// 400 response and ok is false.
func bindValid(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

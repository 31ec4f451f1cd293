package common

import (
	"context"
	"net/http"
	"strconv"

	ierr "invoicedash/internal/errors"
	"invoicedash/internal/logger"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	SessionIDKey contextKey = "session_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// HTTPErrorHandler renders errors returned by handlers. Marked errors are shown by their hint
// only; the cause is logged.
func HTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			resp   *ErrorResponse
		)
		var he *echo.HTTPError
		if ierr.As(err, &he) {
			status = he.Code
			resp = CreateErrorResponse(http.StatusText(he.Code), http.StatusText(he.Code), nil)
			if msg, ok := he.Message.(string); ok {
				resp.Error.Message = msg
			}
		} else {
			status = ierr.HTTPStatusFromErr(err)
			resp = CreateErrorResponse(ierr.Code(err), ierr.DisplayMessage(err), nil)
		}

		if status >= http.StatusInternalServerError {
			log.Errorw("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"error", err,
			)
		} else {
			log.Debugw("request rejected", "path", c.Request().URL.Path, "status", status, "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, resp)
		}
		if writeErr != nil {
			log.Errorw("failed to write error response", "error", writeErr)
		}
	}
}

// GetUserIDFromContext extracts the signed-in user's id from request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetSessionIDFromContext extracts the current session id from request context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}

// ParsePage reads the 1-based page query parameter, defaulting to the first page
func ParsePage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

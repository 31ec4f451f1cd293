package middleware

import (
	"net/http"
	"time"

	"invoicedash/internal/common"
	"invoicedash/internal/logger"

	"github.com/labstack/echo/v4"
)

// AuditActions records every mutating request with the signed-in user that made it.
// Reads are skipped.
func AuditActions(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			userID, _ := common.GetUserIDFromContext(c.Request().Context())
			status := c.Response().Status
			if err != nil {
				// error not yet rendered; the error handler decides the final status
				status = 0
			}
			log.Infow("invoice action",
				"user_id", userID,
				"method", method,
				"route", c.Path(),
				"invoice_id", c.Param("id"),
				"status", status,
				"failed", err != nil,
				"duration_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}

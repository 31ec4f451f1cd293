package middleware

import (
	"context"
	"net/http"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	ierr "invoicedash/internal/errors"
	"invoicedash/internal/logger"
	"invoicedash/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie holds the signed session token
	SessionCookie = "session"
	// LoginPath is where unauthenticated requests are sent
	LoginPath = "/login"

	tokenContextKey = "user"
)

// SessionAuth admits requests carrying a valid session token, read from the session cookie or
// a Bearer header, whose session is still registered in the cache. Everything else is
// redirected to the login page.
func SessionAuth(jwtSecret string, cacheSvc caching.CacheService, log *logger.Logger) echo.MiddlewareFunc {
	verifyToken := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(jwtSecret),
		ContextKey:  tokenContextKey,
		TokenLookup: "cookie:" + SessionCookie + ",header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.Debugw("session token rejected", "path", c.Request().URL.Path, "error", err)
			return c.Redirect(http.StatusSeeOther, LoginPath)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verifyToken(requireSession(cacheSvc, log)(next))
	}
}

func requireSession(cacheSvc caching.CacheService, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			claims, ok := token.Claims.(*models.SessionClaims)
			if !ok || claims.ID == "" {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			ctx := c.Request().Context()
			userID, err := cacheSvc.GetSession(ctx, claims.ID)
			if err != nil {
				return ierr.WithError(err).WithHint("Something went wrong.").Mark(ierr.ErrCache)
			}
			if userID == "" || userID != claims.Subject {
				log.Debugw("session revoked or expired", "session_id", claims.ID)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			ctx = context.WithValue(ctx, common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.SessionIDKey, claims.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

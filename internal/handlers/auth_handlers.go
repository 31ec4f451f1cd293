package handlers

import (
	"net/http"
	"time"

	"invoicedash/internal/common"
	ierr "invoicedash/internal/errors"
	"invoicedash/internal/logger"
	"invoicedash/internal/middleware"
	"invoicedash/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardPath is where a successful sign-in lands
const DashboardPath = "/dashboard"

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService  services.AuthService
	secureCookie bool
	log          *logger.Logger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, secureCookie bool, log *logger.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		secureCookie: secureCookie,
		log:          log,
	}
}

// LoginResponse carries the message shown on the login form
type LoginResponse struct {
	Message string `json:"message"`
}

// Login handles POST /login with email and password form fields
func (h *AuthHandlers) Login(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return ierr.WithError(err).WithHint("Invalid form submission.").Mark(ierr.ErrValidation)
	}

	message, session, err := h.authService.Authenticate(c.Request().Context(), "", form)
	if err != nil {
		return err
	}
	if message != "" {
		return c.JSON(http.StatusUnauthorized, LoginResponse{Message: message})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

// Logout handles POST /logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if sessionID, ok := common.GetSessionIDFromContext(ctx); ok {
		if err := h.authService.SignOut(ctx, sessionID); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

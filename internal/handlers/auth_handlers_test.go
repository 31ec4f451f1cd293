package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"invoicedash/internal/common"
	"invoicedash/internal/logger"
	"invoicedash/internal/middleware"
	"invoicedash/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthServer(authService *MockAuthService) *echo.Echo {
	log := logger.NewNoop()
	h := NewAuthHandlers(authService, false, log)
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler(log)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), common.SessionIDKey, "sess-1")
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	return e
}

func postForm(e *echo.Echo, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	form := url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}}
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	t.Run("Success sets session cookie", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Authenticate", mock.Anything, "", form).
			Return("", &models.Session{ID: "sess-1", UserID: "user-1", Token: "signed.jwt.token", ExpiresAt: expiresAt}, nil).Once()

		rec := postForm(newAuthServer(authService), "/login", form)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, DashboardPath, rec.Header().Get(echo.HeaderLocation))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
		assert.Equal(t, "signed.jwt.token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		authService.AssertExpectations(t)
	})

	for _, message := range []string{"Invalid credentials.", "Something went wrong."} {
		t.Run(message, func(t *testing.T) {
			authService := &MockAuthService{}
			authService.On("Authenticate", mock.Anything, "", form).Return(message, nil, nil).Once()

			rec := postForm(newAuthServer(authService), "/login", form)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message": "`+message+`"}`, rec.Body.String())
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	t.Run("Unclassified error is fatal", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Authenticate", mock.Anything, "", form).Return("", nil, errors.New("boom")).Once()

		rec := postForm(newAuthServer(authService), "/login", form)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestLogout(t *testing.T) {
	authService := &MockAuthService{}
	authService.On("SignOut", mock.Anything, "sess-1").Return(nil).Once()

	rec := postForm(newAuthServer(authService), "/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get(echo.HeaderLocation))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	authService.AssertExpectations(t)
}

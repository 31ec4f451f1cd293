package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"invoicedash/internal/caching"
	ierr "invoicedash/internal/errors"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
	"invoicedash/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type credentialsForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type credentialsProvider struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	validate   *validator.Validate
	jwtSecret  []byte
	sessionTTL time.Duration
	now        func() time.Time
}

// NewCredentialsProvider signs users in by email and bcrypt password hash.
// Sessions are HS256 JWTs whose jti is registered in the cache for sessionTTL.
func NewCredentialsProvider(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, sessionTTL time.Duration) SignInProvider {
	return &credentialsProvider{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		validate:   validation.New(),
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (p *credentialsProvider) SignIn(ctx context.Context, strategy string, form url.Values) (*models.Session, error) {
	if strategy != CredentialsStrategy {
		return nil, &AuthError{Type: AuthErrorConfiguration, Err: fmt.Errorf("unsupported sign-in strategy %q", strategy)}
	}

	creds := credentialsForm{
		Email:    strings.TrimSpace(form.Get("email")),
		Password: form.Get("password"),
	}
	if err := p.validate.Struct(creds); err != nil {
		return nil, &AuthError{Type: AuthErrorCredentialsSignin, Err: err}
	}

	user, err := p.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, &AuthError{Type: AuthErrorCallbackRoute, Err: err}
	}
	if user == nil {
		return nil, &AuthError{Type: AuthErrorCredentialsSignin, Err: errors.New("user not found")}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, &AuthError{Type: AuthErrorCredentialsSignin, Err: err}
	}

	now := p.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(p.sessionTTL),
	}

	claims := models.SessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.jwtSecret)
	if err != nil {
		return nil, ierr.WithError(err).WithMessage("sign session token").Mark(ierr.ErrSystem)
	}
	session.Token = token

	if err := p.cacheSvc.SetSession(ctx, session.ID, user.ID, p.sessionTTL); err != nil {
		return nil, ierr.WithError(err).WithMessage("store session").Mark(ierr.ErrCache)
	}

	return session, nil
}

func (p *credentialsProvider) SignOut(ctx context.Context, sessionID string) error {
	if err := p.cacheSvc.DeleteSession(ctx, sessionID); err != nil {
		return ierr.WithError(err).WithMessage("delete session").Mark(ierr.ErrCache)
	}
	return nil
}

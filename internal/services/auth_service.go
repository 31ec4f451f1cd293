package services

import (
	"context"
	"fmt"
	"net/url"

	ierr "invoicedash/internal/errors"
	"invoicedash/internal/logger"
	"invoicedash/internal/models"
)

// CredentialsStrategy is the only sign-in strategy the login form uses
const CredentialsStrategy = "credentials"

// AuthError types reported by a SignInProvider
const (
	AuthErrorCredentialsSignin = "CredentialsSignin"
	AuthErrorCallbackRoute     = "CallbackRouteError"
	AuthErrorConfiguration     = "Configuration"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgSomethingWrong     = "Something went wrong."
)

// AuthError is a classified sign-in failure
type AuthError struct {
	Type string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Type
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SignInProvider verifies credentials and establishes sessions
type SignInProvider interface {
	// SignIn returns an *AuthError for classified failures; any other error is unexpected
	SignIn(ctx context.Context, strategy string, form url.Values) (*models.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}

// AuthService turns sign-in failures into messages the login form can show
type AuthService interface {
	// Authenticate returns a message for classified failures, the session on success,
	// and an error only for failures outside the AuthError taxonomy.
	Authenticate(ctx context.Context, prevState string, form url.Values) (string, *models.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}

type authService struct {
	provider SignInProvider
	log      *logger.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(provider SignInProvider, log *logger.Logger) AuthService {
	return &authService{provider: provider, log: log}
}

func (s *authService) Authenticate(ctx context.Context, _ string, form url.Values) (string, *models.Session, error) {
	session, err := s.provider.SignIn(ctx, CredentialsStrategy, form)
	if err == nil {
		return "", session, nil
	}

	var authErr *AuthError
	if ierr.As(err, &authErr) {
		s.log.Infow("sign in rejected", "type", authErr.Type, "error", err)
		switch authErr.Type {
		case AuthErrorCredentialsSignin:
			return msgInvalidCredentials, nil, nil
		default:
			return msgSomethingWrong, nil, nil
		}
	}

	s.log.Errorw("sign in failed", "error", err)
	return "", nil, err
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.provider.SignOut(ctx, sessionID); err != nil {
		s.log.Errorw("failed to sign out", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

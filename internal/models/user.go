package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password"` // Never serialize in JSON
}

// Session is an established sign-in session handed back to the transport
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionClaims are the JWT claims of a session token. RegisteredClaims.ID is the session id.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

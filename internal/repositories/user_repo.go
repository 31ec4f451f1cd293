package repositories

import (
	"context"
	"errors"

	ierr "invoicedash/internal/errors"
	"invoicedash/internal/models"

	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

// GetByEmail returns (nil, nil) when no user has the email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password
		FROM users
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, ierr.WithError(err).WithMessage("get user by email").Mark(ierr.ErrDatabase)
	}
	return user, nil
}

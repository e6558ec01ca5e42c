package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/billbook/billbook/internal/domain/user"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/billbook/billbook/internal/types"
	"github.com/cockroachdb/errors"
)

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (name, email, pass, role, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`

	err := r.db.GetQuerier(ctx).QueryRowxContext(ctx, query,
		u.Name,
		u.Email,
		u.Password,
		u.Role,
		u.Status,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if ierr.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A user with this email already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.FromStorage(err, "Failed to create user")
	}
	return nil
}

// Login is the only caller, so inactive users are filtered here rather than in the service
func (r *userRepository) GetActiveByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
	SELECT id, name, email, pass, role, status, created_at, updated_at
	FROM users
	WHERE LOWER(email) = $1 AND status = $2
	`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, strings.ToLower(strings.TrimSpace(email)), types.UserStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("User not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.FromStorage(err, "Failed to fetch user")
	}
	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET pass = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return ierr.FromStorage(err, "Failed to update password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("user not found").
			WithHint("User not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

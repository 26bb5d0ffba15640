package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkorolev87/simple-auth/internal/logger"
	"github.com/mkorolev87/simple-auth/internal/middlewares"
	"github.com/mkorolev87/simple-auth/internal/models"
)

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// ext returns the per-request transaction when the tx middleware opened
// one, otherwise the pool.
func (r *UserReadRepository) ext(ctx context.Context) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// GetByEmail returns the user with the given email, or nil if none exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, email, username, password_hash, first_name, last_name,
		       is_active, is_staff, is_admin, date_joined
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.ext(ctx), &user, query, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil if none exists.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT user_id, email, username, password_hash, first_name, last_name,
		       is_active, is_staff, is_admin, date_joined
		FROM users
		WHERE user_id = $1
		LIMIT 1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.ext(ctx), &user, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FilterByEmail returns every user matching the email. The email column
// carries a unique constraint, but the reset flow queries a set and takes
// the first match, so the list form is kept.
func (r *UserReadRepository) FilterByEmail(ctx context.Context, email string) ([]models.UserDB, error) {
	const query = `
		SELECT user_id, email, username, password_hash, first_name, last_name,
		       is_active, is_staff, is_admin, date_joined
		FROM users
		WHERE email = $1
	`

	var users []models.UserDB
	err := sqlx.SelectContext(ctx, r.ext(ctx), &users, query, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"count", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

// ExistsByUsernameOrEmail reports whether any user already holds the
// username or the email.
func (r *UserReadRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 OR email = $2
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, username, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"result", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return exists, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

func (r *UserWriteRepository) ext(ctx context.Context) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Save persists the user. date_joined is set to NOW() on insert and on
// every subsequent save of the same record (last-touched semantics).
// Uniqueness of email and username is arbitrated by the store's
// constraints at write time; the loser of a concurrent race gets the
// constraint violation back.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.UserDB) error {
	query := `
		INSERT INTO users (user_id, email, username, password_hash,
		                   first_name, last_name, is_active, is_staff, is_admin, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    username = EXCLUDED.username,
		    password_hash = EXCLUDED.password_hash,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    is_active = EXCLUDED.is_active,
		    is_staff = EXCLUDED.is_staff,
		    is_admin = EXCLUDED.is_admin,
		    date_joined = NOW()
	`
	args := []any{
		user.UserID, user.Email, user.Username, user.PasswordHash,
		user.FirstName, user.LastName, user.IsActive, user.IsStaff, user.IsAdmin,
	}

	res, err := r.ext(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{user.UserID, user.Email, user.Username},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

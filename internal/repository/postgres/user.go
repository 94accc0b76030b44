package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okorneva/cloudstore/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByCredentials(ctx context.Context, login, passwordHash string) (model.User, error) {
	var user model.User
	query := `SELECT id, login, password_hash, COALESCE(auth_token, '')
			  FROM users WHERE login = $1 AND password_hash = $2`

	err := r.db.QueryRow(ctx, query, login, passwordHash).Scan(
		&user.ID, &user.Login, &user.PasswordHash, &user.AuthToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by credentials: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, model.ErrNotFound
	}

	var user model.User
	query := `SELECT id, login, password_hash, COALESCE(auth_token, '')
			  FROM users WHERE auth_token = $1`

	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID, &user.Login, &user.PasswordHash, &user.AuthToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by token: %w", err)
	}

	return user, nil
}

// Save upserts the user as a single statement. A cleared token is stored as
// NULL so the unique constraint only binds users that actually hold a token.
func (r *UserRepository) Save(ctx context.Context, user model.User) (model.User, error) {
	var (
		saved model.User
		err   error
	)

	if user.ID == 0 {
		query := `INSERT INTO users (login, password_hash, auth_token)
				  VALUES ($1, $2, NULLIF($3, ''))
				  RETURNING id, login, password_hash, COALESCE(auth_token, '')`
		err = r.db.QueryRow(ctx, query, user.Login, user.PasswordHash, user.AuthToken).Scan(
			&saved.ID, &saved.Login, &saved.PasswordHash, &saved.AuthToken,
		)
	} else {
		query := `UPDATE users SET login = $2, password_hash = $3, auth_token = NULLIF($4, '')
				  WHERE id = $1
				  RETURNING id, login, password_hash, COALESCE(auth_token, '')`
		err = r.db.QueryRow(ctx, query, user.ID, user.Login, user.PasswordHash, user.AuthToken).Scan(
			&saved.ID, &saved.Login, &saved.PasswordHash, &saved.AuthToken,
		)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "auth_token") {
				return model.User{}, model.ErrTokenTaken
			}
			return model.User{}, model.ErrLoginTaken
		}
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return saved, nil
}

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, bio, avatarURL string) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetPhoneVerified(ctx context.Context, id uuid.UUID, phone string) error
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, username, display_name, email, password_hash, role, points,
	phone, phone_verified, followers_count, following_count,
	avatar_url, bio, created_at, updated_at
`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, display_name, email, password_hash, role, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.DisplayName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Points,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return ErrUsernameTaken
			case "users_email_key":
				return ErrEmailAlreadyExists
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("user repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, bio, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET display_name = $1,
		    bio = NULLIF($2, ''),
		    avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
		    updated_at = now()
		WHERE id = $4
	`, displayName, bio, avatarURL, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *repository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2
	`, avatarURL, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *repository) SetPhoneVerified(ctx context.Context, id uuid.UUID, phone string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET phone = $1, phone_verified = true, updated_at = now() WHERE id = $2
	`, phone, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

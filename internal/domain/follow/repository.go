package follow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists follow edges. The denormalized followers_count
// and following_count on users are updated in the same transaction as
// the edge so they never drift from the edge table.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a follow edge and bumps both counters atomically
func (r *Repository) Create(ctx context.Context, f *Follow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin follow tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO follows (id, follower_id, followee_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, f.ID, f.FollowerID, f.FolloweeID, f.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyFollowing
	}
	if err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET following_count = following_count + 1, updated_at = now() WHERE id = $1
	`, f.FollowerID); err != nil {
		return fmt.Errorf("bump following count: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET followers_count = followers_count + 1, updated_at = now() WHERE id = $1
	`, f.FolloweeID); err != nil {
		return fmt.Errorf("bump followers count: %w", err)
	}

	return tx.Commit()
}

// Delete removes a follow edge and decrements both counters atomically
func (r *Repository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unfollow tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFollowing
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET following_count = greatest(following_count - 1, 0), updated_at = now() WHERE id = $1
	`, followerID); err != nil {
		return fmt.Errorf("drop following count: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET followers_count = greatest(followers_count - 1, 0), updated_at = now() WHERE id = $1
	`, followeeID); err != nil {
		return fmt.Errorf("drop followers count: %w", err)
	}

	return tx.Commit()
}

// Exists reports whether follower follows followee
func (r *Repository) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}

// ListFollowers returns the users following userID, newest first
func (r *Repository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerView, error) {
	var views []*FollowerView
	err := r.db.SelectContext(ctx, &views, `
		SELECT u.id AS user_id, u.username, u.display_name, u.avatar_url, f.created_at AS followed_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return views, nil
}

// ListFollowing returns the users userID follows, newest first
func (r *Repository) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerView, error) {
	var views []*FollowerView
	err := r.db.SelectContext(ctx, &views, `
		SELECT u.id AS user_id, u.username, u.display_name, u.avatar_url, f.created_at AS followed_at
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return views, nil
}

// Counts returns the denormalized counters for a user
func (r *Repository) Counts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error) {
	row := r.db.QueryRowxContext(ctx, `
		SELECT followers_count, following_count FROM users WHERE id = $1
	`, userID)
	if err := row.Scan(&followers, &following); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrUserNotFound
		}
		return 0, 0, fmt.Errorf("get follow counts: %w", err)
	}
	return followers, following, nil
}

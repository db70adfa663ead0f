package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists posts, likes and reposts. The denormalized
// likes_count and reposts_count are updated in the same transaction as
// their row so the counters never drift.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a post
func (r *Repository) Create(ctx context.Context, p *Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, content, image_url, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, p.ID, p.AuthorID, p.Content, p.ImageURL, p.ThumbnailURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetByID returns a post or ErrPostNotFound
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `SELECT * FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

// Delete removes a post and its likes/reposts
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Like inserts a like row and bumps likes_count atomically
func (r *Repository) Like(ctx context.Context, postID, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin like tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, now())
	`, postID, userID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrAlreadyLiked
		case "23503":
			return ErrPostNotFound
		}
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET likes_count = likes_count + 1, updated_at = now() WHERE id = $1
	`, postID); err != nil {
		return fmt.Errorf("bump likes count: %w", err)
	}

	return tx.Commit()
}

// Unlike removes a like row and drops likes_count atomically
func (r *Repository) Unlike(ctx context.Context, postID, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unlike tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotLiked
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET likes_count = greatest(likes_count - 1, 0), updated_at = now() WHERE id = $1
	`, postID); err != nil {
		return fmt.Errorf("drop likes count: %w", err)
	}

	return tx.Commit()
}

// Repost inserts a repost row and bumps reposts_count atomically
func (r *Repository) Repost(ctx context.Context, rp *Repost) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin repost tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reposts (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, rp.ID, rp.PostID, rp.UserID, rp.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrAlreadyReposted
		case "23503":
			return ErrPostNotFound
		}
	}
	if err != nil {
		return fmt.Errorf("insert repost: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET reposts_count = reposts_count + 1, updated_at = now() WHERE id = $1
	`, rp.PostID); err != nil {
		return fmt.Errorf("bump reposts count: %w", err)
	}

	return tx.Commit()
}

// Unrepost removes a repost row and drops reposts_count atomically
func (r *Repository) Unrepost(ctx context.Context, postID, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unrepost tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM reposts WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete repost: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotReposted
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET reposts_count = greatest(reposts_count - 1, 0), updated_at = now() WHERE id = $1
	`, postID); err != nil {
		return fmt.Errorf("drop reposts count: %w", err)
	}

	return tx.Commit()
}

const feedColumns = `
	p.id, p.author_id, p.content, p.image_url, p.thumbnail_url,
	p.likes_count, p.reposts_count, p.created_at, p.updated_at,
	u.username AS author_username,
	u.display_name AS author_display_name,
	u.avatar_url AS author_avatar_url,
	EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS liked`

// Feed returns posts authored by users the viewer follows, plus the
// viewer's own, newest first.
func (r *Repository) Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*FeedItem, error) {
	var items []*FeedItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+feedColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		   OR p.author_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return items, nil
}

// ListByAuthor returns one user's posts, newest first
func (r *Repository) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, limit, offset int) ([]*FeedItem, error) {
	var items []*FeedItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+feedColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $2
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4
	`, viewerID, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return items, nil
}

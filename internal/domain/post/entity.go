package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-authored feed entry
type Post struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AuthorID     uuid.UUID `db:"author_id" json:"author_id"`
	Content      string    `db:"content" json:"content"`
	ImageURL     string    `db:"image_url" json:"image_url,omitempty"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	LikesCount   int64     `db:"likes_count" json:"likes_count"`
	RepostsCount int64     `db:"reposts_count" json:"reposts_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// OwnerIDs implements capability.Resource
func (p *Post) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{p.AuthorID}
}

// FeedItem is a post joined with its author's profile
type FeedItem struct {
	Post
	AuthorUsername    string `db:"author_username" json:"author_username"`
	AuthorDisplayName string `db:"author_display_name" json:"author_display_name"`
	AuthorAvatarURL   string `db:"author_avatar_url" json:"author_avatar_url,omitempty"`
	Liked             bool   `db:"liked" json:"liked"`
}

// Repost marks a user resharing a post
type Repost struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

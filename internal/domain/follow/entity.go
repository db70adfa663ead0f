package follow

import (
	"time"

	"github.com/google/uuid"
)

// Follow represents a follower -> followee edge
type Follow struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FollowerID uuid.UUID `db:"follower_id" json:"follower_id"`
	FolloweeID uuid.UUID `db:"followee_id" json:"followee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FollowerView is a follow edge joined with the follower's profile
type FollowerView struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	AvatarURL   string    `db:"avatar_url" json:"avatar_url,omitempty"`
	FollowedAt  time.Time `db:"followed_at" json:"followed_at"`
}

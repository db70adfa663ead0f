package follow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/user"
)

// Notifier announces new followers. Best-effort, never fails the follow.
type Notifier interface {
	NewFollower(ctx context.Context, followeeID uuid.UUID, follower *user.User)
}

// Service handles follow business logic
type Service struct {
	repo     *Repository
	userRepo user.Repository
	notifier Notifier
}

// NewService creates follow service, notifier may be nil
func NewService(repo *Repository, userRepo user.Repository, notifier Notifier) *Service {
	return &Service{repo: repo, userRepo: userRepo, notifier: notifier}
}

// Follow makes followerID follow the named user
func (s *Service) Follow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if followee.ID == followerID {
		return ErrSelfFollow
	}

	f := &Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		FolloweeID: followee.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return err
	}

	log.Info().
		Str("follower_id", followerID.String()).
		Str("followee_id", followee.ID.String()).
		Msg("user followed")

	if s.notifier != nil {
		follower, err := s.userRepo.GetByID(ctx, followerID)
		if err == nil {
			s.notifier.NewFollower(ctx, followee.ID, follower)
		}
	}
	return nil
}

// Unfollow removes the follow edge to the named user
func (s *Service) Unfollow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, followerID, followee.ID)
}

// IsFollowing reports whether followerID follows the named user
func (s *Service) IsFollowing(ctx context.Context, followerID uuid.UUID, followeeUsername string) (bool, error) {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return s.repo.Exists(ctx, followerID, followee.ID)
}

// Followers lists the followers of a user
func (s *Service) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListFollowers(ctx, userID, limit, offset)
}

// Following lists who a user follows
func (s *Service) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListFollowing(ctx, userID, limit, offset)
}

// Counts returns follower/following counters for a user
func (s *Service) Counts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error) {
	return s.repo.Counts(ctx, userID)
}

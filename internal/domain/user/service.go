package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FollowChecker reports whether one user follows another.
// Satisfied by the follow repository.
type FollowChecker interface {
	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
}

// Service handles user profile business logic
type Service struct {
	repo    Repository
	follows FollowChecker
}

// NewService creates user service. follows may be nil, in which case
// profile views omit the is_following flag.
func NewService(repo Repository, follows FollowChecker) *Service {
	return &Service{repo: repo, follows: follows}
}

// ProfileView is a profile decorated with viewer-relative state
type ProfileView struct {
	*Profile
	IsFollowing bool `json:"is_following"`
}

// GetProfile returns the public profile for a username, annotated with
// whether the viewer follows them. viewerID may be uuid.Nil.
func (s *Service) GetProfile(ctx context.Context, viewerID uuid.UUID, username string) (*ProfileView, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Profile: u.ToProfile()}

	if s.follows != nil && viewerID != uuid.Nil && viewerID != u.ID {
		following, err := s.follows.Exists(ctx, viewerID, u.ID)
		if err != nil {
			log.Warn().Err(err).Str("username", username).Msg("failed to check follow status")
		} else {
			view.IsFollowing = following
		}
	}

	return view, nil
}

// UpdateProfile updates the caller's display name, bio and avatar URL.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if err := s.repo.UpdateProfile(ctx, userID, displayName, strings.TrimSpace(req.Bio), req.AvatarURL); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID.String()).Msg("profile updated")
	return u.ToProfile(), nil
}

// SetAvatar stores a new avatar URL for the user and returns the
// updated profile along with the previous avatar URL, so the caller can
// clean up the replaced file.
func (s *Service) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*Profile, string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	previous := u.AvatarURL.String

	if err := s.repo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return nil, "", err
	}

	u, err = s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return u.ToProfile(), previous, nil
}

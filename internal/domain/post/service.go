package post

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/pkg/capability"
)

const maxContentLength = 2000

// Notifier announces post events. Best-effort, never fails the operation.
type Notifier interface {
	PostLiked(ctx context.Context, authorID uuid.UUID, p *Post, likerID uuid.UUID)
}

// Service handles post business logic
type Service struct {
	repo     *Repository
	notifier Notifier
}

// NewService creates post service, notifier may be nil
func NewService(repo *Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create publishes a new post
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, content, imageURL, thumbnailURL string) (*Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && imageURL == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	p := &Post{
		ID:           uuid.New(),
		AuthorID:     authorID,
		Content:      content,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("post_id", p.ID.String()).Str("author_id", authorID.String()).Msg("post created")
	return p, nil
}

// Get returns a post by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes a post, author or admin only
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, role string, postID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if d := capability.Check(userID, role, p, capability.ActionDelete); !d.Allowed {
		return ErrAccessDenied
	}
	return s.repo.Delete(ctx, postID)
}

// Like records a like and notifies the author
func (s *Service) Like(ctx context.Context, userID, postID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.repo.Like(ctx, postID, userID); err != nil {
		return err
	}
	if s.notifier != nil && p.AuthorID != userID {
		s.notifier.PostLiked(ctx, p.AuthorID, p, userID)
	}
	return nil
}

// Unlike removes a like
func (s *Service) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.Unlike(ctx, postID, userID)
}

// Repost reshares a post into the user's feed
func (s *Service) Repost(ctx context.Context, userID, postID uuid.UUID) (*Repost, error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	rp := &Repost{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Repost(ctx, rp); err != nil {
		return nil, err
	}
	return rp, nil
}

// Unrepost removes a repost
func (s *Service) Unrepost(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.Unrepost(ctx, postID, userID)
}

// Feed returns the viewer's home feed
func (s *Service) Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*FeedItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Feed(ctx, viewerID, limit, offset)
}

// ListByAuthor returns a single user's posts
func (s *Service) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, limit, offset int) ([]*FeedItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByAuthor(ctx, viewerID, authorID, limit, offset)
}

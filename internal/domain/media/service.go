package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/pkg/imaging"
	"github.com/konekt/konekt-api/internal/pkg/storage"
)

// Upload describes a processed and stored image
type Upload struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ContentType  string `json:"content_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
}

// Service processes uploaded images and stores original + thumbnail
type Service struct {
	store     storage.Storage
	processor *imaging.Processor
}

// NewService creates media service
func NewService(store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{store: store, processor: processor}
}

// UploadImage validates, processes and stores an image for the given category
// (either "image" for post attachments or "avatar" for profile pictures).
func (s *Service) UploadImage(ctx context.Context, userID uuid.UUID, category, filename string, data []byte, contentType string) (*Upload, error) {
	processed, err := s.processor.Process(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("process image: %w", err)
	}

	ext := storage.GetExtensionForMime(processed.ContentType)
	if ext == "" {
		ext = ".jpg"
	}

	id := uuid.New().String()
	originalKey := fmt.Sprintf("%s/%s/%s%s", category, userID.String(), id, ext)
	thumbKey := fmt.Sprintf("%s/%s/%s_thumb%s", category, userID.String(), id, ext)

	if err := s.store.Put(ctx, originalKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		// Roll back the original so we never leave a half-stored pair
		if delErr := s.store.Delete(ctx, originalKey); delErr != nil {
			log.Warn().Err(delErr).Str("key", originalKey).Msg("failed to clean up original after thumbnail failure")
		}
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("key", originalKey).
		Int("size", len(processed.Original)).
		Msg("image uploaded")

	return &Upload{
		URL:          s.store.GetURL(originalKey),
		ThumbnailURL: s.store.GetURL(thumbKey),
		ContentType:  processed.ContentType,
		Width:        processed.Width,
		Height:       processed.Height,
		Size:         int64(len(processed.Original)),
	}, nil
}

// Delete removes a stored object by its public URL. Unknown URLs are ignored.
func (s *Service) Delete(ctx context.Context, fileURL string) error {
	key := s.keyFromURL(fileURL)
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func (s *Service) keyFromURL(fileURL string) string {
	// GetURL("") yields the base prefix all our object URLs share
	base := strings.TrimSuffix(s.store.GetURL(""), "/")
	if base == "" || !strings.HasPrefix(fileURL, base) {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(fileURL, base), "/")
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = path.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		return "file"
	}
	return name
}

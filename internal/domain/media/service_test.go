package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/konekt/konekt-api/internal/pkg/imaging"
	"github.com/konekt/konekt-api/internal/pkg/storage"
)

func newTestService(t *testing.T) (*Service, storage.Storage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	return NewService(store, imaging.NewProcessor(imaging.DefaultConfig())), store
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadImageStoresOriginalAndThumbnail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	data := testPNG(t, 640, 480)
	up, err := svc.UploadImage(ctx, userID, "image", "photo.png", data, "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if up.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", up.ContentType)
	}
	if up.Width != 640 || up.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", up.Width, up.Height)
	}
	if !strings.HasPrefix(up.URL, "/uploads/image/"+userID.String()+"/") {
		t.Errorf("unexpected url %q", up.URL)
	}
	if !strings.Contains(up.ThumbnailURL, "_thumb") {
		t.Errorf("thumbnail url %q missing _thumb suffix", up.ThumbnailURL)
	}

	for _, u := range []string{up.URL, up.ThumbnailURL} {
		key := strings.TrimPrefix(u, "/uploads/")
		ok, err := store.Exists(ctx, key)
		if err != nil {
			t.Fatalf("exists %s: %v", key, err)
		}
		if !ok {
			t.Errorf("object %s not stored", key)
		}
	}
}

func TestUploadImageRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UploadImage(context.Background(), uuid.New(), "image", "bad.png", []byte("not an image"), "image/png")
	if err == nil {
		t.Fatal("expected decode error for non-image data")
	}
}

func TestDeleteByURL(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	up, err := svc.UploadImage(ctx, uuid.New(), "avatar", "me.png", testPNG(t, 100, 100), "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, up.URL); err != nil {
		t.Fatalf("delete: %v", err)
	}

	key := strings.TrimPrefix(up.URL, "/uploads/")
	ok, err := store.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("object still present after delete")
	}

	// URLs outside our storage base are ignored
	if err := svc.Delete(ctx, "https://elsewhere.example/x.png"); err != nil {
		t.Errorf("foreign url delete: %v", err)
	}
}

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ProcessedImage holds the stored variants of one upload
type ProcessedImage struct {
	Original    []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
	ThumbWidth  int
	ThumbHeight int
}

// Config bounds the processing pipeline
type Config struct {
	MaxWidth   int // originals larger than this are scaled down
	MaxHeight  int
	ThumbWidth int // square thumbnail edge for feed and avatar views
	Quality    int // JPEG quality 1-100
}

// DefaultConfig returns the processing defaults: feed images capped at
// 2000px, 512px square thumbnails.
func DefaultConfig() Config {
	return Config{
		MaxWidth:   2000,
		MaxHeight:  2000,
		ThumbWidth: 512,
		Quality:    85,
	}
}

// Processor resizes uploads and produces thumbnails
type Processor struct {
	config Config
}

// NewProcessor creates an image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes an upload, scales the original down to the configured
// bounds and cuts a square center-cropped thumbnail.
func (p *Processor) Process(reader io.Reader, filename string) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	result := &ProcessedImage{
		ContentType: mimeFromFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	resized := img
	if result.Width > p.config.MaxWidth || result.Height > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
		result.Width = resized.Bounds().Dx()
		result.Height = resized.Bounds().Dy()
	}

	result.Original, err = p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("encode original: %w", err)
	}

	thumb := imaging.Fill(img, p.config.ThumbWidth, p.config.ThumbWidth, imaging.Center, imaging.Lanczos)
	result.ThumbWidth = thumb.Bounds().Dx()
	result.ThumbHeight = thumb.Bounds().Dy()

	result.Thumbnail, err = p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return result, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		// webp and everything else re-encodes as JPEG
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

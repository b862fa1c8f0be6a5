package storage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ThumbnailSize is the bounding box of generated thumbnails
const ThumbnailSize = 300

type ImageProcessor struct {
	Size int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{Size: ThumbnailSize}
}

// IsImage reports whether content type is one we derive thumbnails for
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png":
		return true
	default:
		return false
	}
}

// Thumbnail fit ảnh vào Size x Size, encode JPEG chất lượng 90
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.Size, p.Size, imaging.Lanczos)

	b := new(bytes.Buffer)
	if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return b.Bytes(), nil
}

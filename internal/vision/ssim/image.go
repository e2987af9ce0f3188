package ssim

import (
	"bytes"
	"fmt"
	"image"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/davidbz/skill4green/internal/domain"
)

// normalize decodes an encoded image into a size x size grayscale canvas.
// Images whose declared dimensions exceed maxPixels are rejected before decoding.
func normalize(data []byte, size int, maxPixels int64) (*image.Gray, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			domain.ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}

	dst := image.NewGray(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	return dst, nil
}

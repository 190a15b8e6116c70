package resizer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ThumbConfig mirrors PhotoConfig but defaults to the narrower thumbnail
// width band.
type ThumbConfig struct {
	MinWidth, MaxWidth int
	OutputPath         string
	Format             string
	Quality            int
	BgColor            color.Color
}

// ThumbResizer is a PhotoResizer with a narrower width band, the same
// relationship a full-size renderer and its thumbnail preset share
// and thumbnail presets: a thin config wrapper around the same renderer.
type ThumbResizer struct {
	*PhotoResizer
}

// NewThumbResizer loads path and returns a Resizer constrained to the
// [150, 320] thumbnail band.
func NewThumbResizer(path string, cfg ThumbConfig) (*ThumbResizer, error) {
	if cfg.MinWidth == 0 {
		cfg.MinWidth = 150
	}
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = 320
	}
	pr, err := NewPhotoResizer(path, PhotoConfig{
		MinWidth:   cfg.MinWidth,
		MaxWidth:   cfg.MaxWidth,
		OutputPath: cfg.OutputPath,
		Format:     cfg.Format,
		Quality:    cfg.Quality,
		BgColor:    cfg.BgColor,
	})
	if err != nil {
		return nil, fmt.Errorf("resizer: thumbnail load failed: %w", err)
	}
	return &ThumbResizer{PhotoResizer: pr}, nil
}

// NewThumbResizerFromImage wraps an already-decoded image for thumbnailing,
// used by frameconform.ConformFile so the decoded image can also feed an
// autofocus resolver without re-reading the source file.
func NewThumbResizerFromImage(img image.Image, cfg ThumbConfig) *ThumbResizer {
	if cfg.MinWidth == 0 {
		cfg.MinWidth = 150
	}
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = 320
	}
	pr := NewPhotoResizerFromImage(img, PhotoConfig{
		MinWidth:   cfg.MinWidth,
		MaxWidth:   cfg.MaxWidth,
		OutputPath: cfg.OutputPath,
		Format:     cfg.Format,
		Quality:    cfg.Quality,
		BgColor:    cfg.BgColor,
	})
	return &ThumbResizer{PhotoResizer: pr}
}

// DownsampleForDetection returns a small NRGBA copy of img capped at
// maxSide on its longest edge (an img already within maxSide on both
// sides is returned as is), cheap input for a vision model that needs
// a bounding box, not a publishable image, mirroring the
// pkg/vision preprocessing step, which the same downsizing before
// handing frames to its saliency pass.
func DownsampleForDetection(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxSide, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxSide, imaging.Lanczos)
}

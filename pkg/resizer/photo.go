package resizer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/sko/frameconform/pkg/geometry"
)

// PhotoConfig holds the per-call settings a PhotoResizer needs beyond the
// image itself.
type PhotoConfig struct {
	MinWidth, MaxWidth int
	OutputPath         string
	Format             string // "jpg", "png", or "webp"
	Quality            int    // 1-100, ignored for png
	Lossless           bool   // webp only
	BgColor            color.Color
	HFlipped, VFlipped bool
	Rotated            bool // true when the source pixels are stored axis-swapped
}

// PhotoResizer implements Resizer for still images, backed by
// disintegration/imaging for the actual crop/resize/paste work and
// chai2010/webp + golang.org/x/image/webp for WebP support, the same
// stack a full-size image renderer needs.
type PhotoResizer struct {
	img image.Image
	cfg PhotoConfig
}

// NewPhotoResizer loads the image file at path and returns a
// Resizer for it. Width band defaults to the photo band assumed by the
// specification's test scenarios, [320, 1080], when cfg.MinWidth/MaxWidth
// are left zero.
func NewPhotoResizer(path string, cfg PhotoConfig) (*PhotoResizer, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("resizer: failed to load %s: %w", path, err)
	}
	if cfg.MinWidth == 0 {
		cfg.MinWidth = 320
	}
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = 1080
	}
	if cfg.Quality == 0 {
		cfg.Quality = 85
	}
	if cfg.BgColor == nil {
		cfg.BgColor = color.Black
	}
	return &PhotoResizer{img: img, cfg: cfg}, nil
}

// NewPhotoResizerFromImage wraps an already-decoded image, for callers
// (e.g. frameconform.ConformFile) that have already loaded the source.
func NewPhotoResizerFromImage(img image.Image, cfg PhotoConfig) *PhotoResizer {
	if cfg.MinWidth == 0 {
		cfg.MinWidth = 320
	}
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = 1080
	}
	if cfg.Quality == 0 {
		cfg.Quality = 85
	}
	if cfg.BgColor == nil {
		cfg.BgColor = color.Black
	}
	return &PhotoResizer{img: img, cfg: cfg}
}

// LoadImage loads an image from a file path, trying the standard library
// and imaging's registered decoders first and falling back to an
// explicit WebP decode, mirroring pkg/processing.Processor.LoadImage.
func LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.Contains(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("resizer: unrecognized image format for %s", path)
}

func (p *PhotoResizer) InputDimensions() geometry.Dimensions {
	b := p.img.Bounds()
	if p.cfg.Rotated {
		return geometry.NewDimensions(b.Dy(), b.Dx())
	}
	return geometry.NewDimensions(b.Dx(), b.Dy())
}

func (p *PhotoResizer) MinWidth() int             { return p.cfg.MinWidth }
func (p *PhotoResizer) MaxWidth() int             { return p.cfg.MaxWidth }
func (p *PhotoResizer) Mod2Required() bool        { return false }
func (p *PhotoResizer) ProcessingRequired() bool  { return false }
func (p *PhotoResizer) HorFlipped() bool          { return p.cfg.HFlipped }
func (p *PhotoResizer) VerFlipped() bool          { return p.cfg.VFlipped }
func (p *PhotoResizer) AxesSwapped() bool         { return p.cfg.Rotated }

// Resize renders src/dst/canvas onto a new image: for CROP-shaped calls
// (dst spans the whole canvas) it crops src and resizes to canvas size;
// for EXPAND-shaped calls (dst is a sub-rectangle of canvas) it fills the
// canvas with BgColor and pastes the resized src into dst.
func (p *PhotoResizer) Resize(ctx context.Context, src, dst geometry.Rectangle, cv geometry.Dimensions) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	cropped := imaging.Crop(p.img, image.Rect(src.X, src.Y, src.X2(), src.Y2()))

	var out image.Image
	if dst.X == 0 && dst.Y == 0 && dst.Width == cv.Width && dst.Height == cv.Height {
		out = imaging.Resize(cropped, cv.Width, cv.Height, imaging.Lanczos)
	} else {
		canvasImg := image.NewNRGBA(image.Rect(0, 0, cv.Width, cv.Height))
		draw.Draw(canvasImg, canvasImg.Bounds(), &image.Uniform{C: p.cfg.BgColor}, image.Point{}, draw.Src)

		resized := imaging.Resize(cropped, dst.Width, dst.Height, imaging.Lanczos)
		out = imaging.Paste(canvasImg, resized, image.Point{X: dst.X, Y: dst.Y})
	}

	if err := SaveImage(out, p.cfg.OutputPath, p.cfg.Format, p.cfg.Quality, p.cfg.Lossless); err != nil {
		return "", fmt.Errorf("resizer: failed to save %s: %w", p.cfg.OutputPath, err)
	}
	return p.cfg.OutputPath, nil
}

// SaveImage writes img to path in the requested format, mirroring
// pkg/processing.Processor.SaveImage's format switch.
func SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
	case "png":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return png.Encode(f, img)
	default: // jpg/jpeg
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	}
}

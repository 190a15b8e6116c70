// Package frameconform exposes a single entry point, ConformFile, that
// wires the canvas calculator, placement planner, and a media-type
// Resizer together for a single input file.
package frameconform

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/sko/frameconform/pkg/autofocus"
	"github.com/sko/frameconform/pkg/canvas"
	"github.com/sko/frameconform/pkg/conform"
	"github.com/sko/frameconform/pkg/resizer"
)

// MediaKind selects which Resizer ConformFile constructs for an input.
type MediaKind int

const (
	Photo MediaKind = iota
	Thumbnail
	Video
)

// Request bundles the inputs a single ConformFile call needs: where the
// media lives, what kind of Resizer renders it, and the enumerated
// placement options from pkg/conform.
type Request struct {
	InputPath  string
	Kind       MediaKind
	OutputPath string
	Format     string
	Quality    int
	Lossless   bool
	BgColor    color.Color

	// MinWidth and MaxWidth override the Resizer's default width band
	// when non-zero.
	MinWidth, MaxWidth int

	Options conform.Configuration

	// Resolver, when non-nil, fills unset crop-focus axes before
	// validation for Photo and Thumbnail inputs; Video inputs are not
	// passed to it. AutofocusModel names the vision model to query.
	Resolver       conform.FocusResolver
	AutofocusModel string
}

// ConformFile runs the full pipeline for one input: it builds the
// requested Resizer, optionally resolves autofocus defaults, validates
// the Configuration, and calls conform.Conform.
func ConformFile(ctx context.Context, req Request) (conform.Result, error) {
	rz, probeImg, err := buildResizer(ctx, req)
	if err != nil {
		return conform.Result{}, err
	}

	opts := req.Options
	if req.Resolver != nil && probeImg != nil {
		opts = conform.ResolveFocusDefaults(ctx, opts, req.Resolver, req.AutofocusModel, probeImg)
	}

	cfg, err := conform.NewConfiguration(opts)
	if err != nil {
		return conform.Result{}, err
	}

	return conform.Conform(ctx, cfg, rz, req.InputPath)
}

// buildResizer constructs the Resizer req.Kind names. For photo and
// thumbnail kinds it also returns the decoded image, so ConformFile can
// feed it straight to an autofocus resolver without a second decode.
func buildResizer(ctx context.Context, req Request) (resizer.Resizer, image.Image, error) {
	switch req.Kind {
	case Photo:
		img, err := resizer.LoadImage(req.InputPath)
		if err != nil {
			return nil, nil, fmt.Errorf("frameconform: %w", err)
		}
		rz := resizer.NewPhotoResizerFromImage(img, resizer.PhotoConfig{
			MinWidth:   req.MinWidth,
			MaxWidth:   req.MaxWidth,
			OutputPath: req.OutputPath,
			Format:     req.Format,
			Quality:    req.Quality,
			Lossless:   req.Lossless,
			BgColor:    req.BgColor,
		})
		return rz, img, nil

	case Thumbnail:
		img, err := resizer.LoadImage(req.InputPath)
		if err != nil {
			return nil, nil, fmt.Errorf("frameconform: %w", err)
		}
		rz := resizer.NewThumbResizerFromImage(img, resizer.ThumbConfig{
			MinWidth:   req.MinWidth,
			MaxWidth:   req.MaxWidth,
			OutputPath: req.OutputPath,
			Format:     req.Format,
			Quality:    req.Quality,
			BgColor:    req.BgColor,
		})
		return rz, img, nil

	case Video:
		rz, err := resizer.NewVideoResizer(ctx, resizer.VideoConfig{
			InputPath:  req.InputPath,
			OutputPath: req.OutputPath,
			MinWidth:   req.MinWidth,
			MaxWidth:   req.MaxWidth,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("frameconform: %w", err)
		}
		return rz, nil, nil

	default:
		return nil, nil, fmt.Errorf("frameconform: unknown media kind %d", req.Kind)
	}
}

// NewResolver constructs an autofocus.Resolver for the given backend,
// wired to an ollama or llamacpp vision client.
func NewResolver(backend, url string) (*autofocus.Resolver, error) {
	client, err := newVisionClient(backend, url)
	if err != nil {
		return nil, err
	}
	return autofocus.NewResolver(client), nil
}

// DefaultFeedBand returns the aspect-ratio band a feed admits, a thin
// pass-through so callers don't need to import pkg/canvas directly just
// to print the defaults.
func DefaultFeedBand(feed canvas.Feed, useBestStoryRatio bool) (min, max float64) {
	return canvas.FeedBand(feed, useBestStoryRatio)
}

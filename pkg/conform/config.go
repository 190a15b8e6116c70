// Package conform wires the canvas calculator (pkg/canvas) and placement
// planner (pkg/placement) together behind a single enumerated
// Configuration and a Conform entry point that takes a Resizer.
package conform

import (
	"context"
	"fmt"
	"image"

	"github.com/sko/frameconform/pkg/canvas"
)

// FocusResolver is satisfied by pkg/autofocus.Resolver without either
// package importing the other: conform only needs the method shape to
// apply a detected subject's center as a crop-focus default.
type FocusResolver interface {
	ResolveFocus(ctx context.Context, model string, img image.Image) (horFocus, verFocus int, err error)
}

// Color is an (R, G, B) triple for the bars an EXPAND operation adds.
// Conform does not pass it to the Resizer; each resizer takes its fill
// color from its own config (PhotoConfig.BgColor, ThumbConfig.BgColor).
type Color struct {
	R, G, B uint8
}

// Configuration is the enumerated option record describing a single
// conform request. It is
// validated once, at construction via NewConfiguration, and is never a
// free-form option bag.
type Configuration struct {
	TargetFeed canvas.Feed
	Operation  canvas.Operation

	// MinAspectRatio and MaxAspectRatio default from the feed profile
	// when left nil.
	MinAspectRatio *float64
	MaxAspectRatio *float64

	// HorCropFocus and VerCropFocus default to 0 and -50 respectively
	// when left nil. Both must be integers in [-50, 50].
	HorCropFocus *int
	VerCropFocus *int

	UseBestStoryRatio      bool
	AllowNewAspectDeviation bool

	BgColor Color

	// Tracer, when non-nil, receives one record per canvas-calculator
	// stage, an optional debug-trace hook.
	Tracer canvas.Tracer
}

// resolvedBand returns the effective min/max aspect ratio: the caller's
// explicit bound if set, else the feed profile's.
func (c Configuration) resolvedBand() (min, max float64) {
	feedMin, feedMax := canvas.FeedBand(c.TargetFeed, c.UseBestStoryRatio)
	min, max = feedMin, feedMax
	if c.MinAspectRatio != nil {
		min = *c.MinAspectRatio
	}
	if c.MaxAspectRatio != nil {
		max = *c.MaxAspectRatio
	}
	return min, max
}

// HorFocus returns the effective horizontal crop focus: the caller's
// explicit value, or the default of 0.
func (c Configuration) HorFocus() int {
	if c.HorCropFocus != nil {
		return *c.HorCropFocus
	}
	return 0
}

// VerFocus returns the effective vertical crop focus: the caller's
// explicit value, or the default of -50 (top).
func (c Configuration) VerFocus() int {
	if c.VerCropFocus != nil {
		return *c.VerCropFocus
	}
	return -50
}

// NewConfiguration validates opts against the Configuration validation
// errors" and returns a ready-to-use Configuration, or a *ConfigError.
func NewConfiguration(opts Configuration) (Configuration, error) {
	if opts.Operation != canvas.Crop && opts.Operation != canvas.Expand {
		return Configuration{}, &ConfigError{Field: "operation", Reason: "must be CROP or EXPAND"}
	}

	if err := validateFocus("horCropFocus", opts.HorCropFocus); err != nil {
		return Configuration{}, err
	}
	if err := validateFocus("verCropFocus", opts.VerCropFocus); err != nil {
		return Configuration{}, err
	}

	feedMin, feedMax := canvas.FeedBand(opts.TargetFeed, opts.UseBestStoryRatio)

	if opts.MinAspectRatio != nil {
		if *opts.MinAspectRatio < feedMin || *opts.MinAspectRatio > feedMax {
			return Configuration{}, &ConfigError{Field: "minAspectRatio", Reason: fmt.Sprintf("outside feed band [%.4f,%.4f]", feedMin, feedMax)}
		}
	}
	if opts.MaxAspectRatio != nil {
		if *opts.MaxAspectRatio < feedMin || *opts.MaxAspectRatio > feedMax {
			return Configuration{}, &ConfigError{Field: "maxAspectRatio", Reason: fmt.Sprintf("outside feed band [%.4f,%.4f]", feedMin, feedMax)}
		}
	}
	if opts.MinAspectRatio != nil && opts.MaxAspectRatio != nil && *opts.MinAspectRatio > *opts.MaxAspectRatio {
		return Configuration{}, &ConfigError{Field: "minAspectRatio", Reason: "must be <= maxAspectRatio"}
	}

	return opts, nil
}

// ResolveFocusDefaults fills nil HorCropFocus/VerCropFocus fields in opts
// by calling resolver.ResolveFocus, before NewConfiguration validates the
// result. Autofocus is strictly additive: a caller-supplied
// focus axis is never overwritten, a nil resolver is a no-op, and a
// resolver error leaves both axes exactly as opts declared them so the
// declared defaults apply unchanged.
func ResolveFocusDefaults(ctx context.Context, opts Configuration, resolver FocusResolver, model string, img image.Image) Configuration {
	if resolver == nil || (opts.HorCropFocus != nil && opts.VerCropFocus != nil) {
		return opts
	}

	hor, ver, err := resolver.ResolveFocus(ctx, model, img)
	if err != nil {
		return opts
	}
	if opts.HorCropFocus == nil {
		opts.HorCropFocus = &hor
	}
	if opts.VerCropFocus == nil {
		opts.VerCropFocus = &ver
	}
	return opts
}

func validateFocus(field string, focus *int) error {
	if focus == nil {
		return nil
	}
	if *focus < -50 || *focus > 50 {
		return &ConfigError{Field: field, Reason: "must be an integer in [-50, 50]"}
	}
	return nil
}

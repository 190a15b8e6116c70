// Package resizer provides the Resizer capability interface and
// concrete strategy objects that implement it for photos, thumbnails, and
// video.
package resizer

import (
	"context"

	"github.com/sko/frameconform/pkg/geometry"
)

// Resizer is the external collaborator the core consumes. It reports
// the input's logical dimensions and constraints, and renders a computed
// placement. No inheritance models this in Go: every concrete resizer is
// a strategy object satisfying this one interface, never a subclass of a
// shared base.
type Resizer interface {
	// InputDimensions returns the logical upright dimensions of the
	// input, after any implicit axis swap.
	InputDimensions() geometry.Dimensions

	MinWidth() int
	MaxWidth() int

	// Mod2Required reports whether the output canvas must have even
	// width and height (true for video).
	Mod2Required() bool

	// ProcessingRequired reports an independent trigger to force
	// processing (e.g. the input needs format transcoding) even when
	// width and aspect bands are already satisfied.
	ProcessingRequired() bool

	HorFlipped() bool
	VerFlipped() bool

	// AxesSwapped reports whether the input's stored pixels are rotated
	// relative to their logical orientation.
	AxesSwapped() bool

	// Resize renders the placement described by src, dst, and canvas,
	// returning the output path or a renderer error.
	Resize(ctx context.Context, src, dst geometry.Rectangle, canvas geometry.Dimensions) (string, error)
}

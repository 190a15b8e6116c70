// Package placement implements the placement planner: given a canvas (as
// produced by pkg/canvas), the input dimensions, the operation, and flip
// flags, it computes the source rectangle on the input and the
// destination rectangle on the canvas.
package placement

import (
	"math"

	"github.com/sko/frameconform/pkg/canvas"
	"github.com/sko/frameconform/pkg/geometry"
)

// Focus biases the origin of a crop. Both fields are integers in
// [-50, 50]; negative biases toward top/left, positive toward
// bottom/right, zero is centered.
type Focus struct {
	Horizontal int
	Vertical   int
}

// DefaultFocus is the crop focus used when the caller supplies none:
// centered horizontally, anchored to the top vertically.
var DefaultFocus = Focus{Horizontal: 0, Vertical: -50}

// Flip reports which axes the resizer's input pixels are mirrored on. The
// planner inverts the corresponding focus bias when a flip is reported,
// since a mirrored crop focus should still favor the same logical side of
// the subject.
type Flip struct {
	Horizontal bool
	Vertical   bool
}

// Params is the input to Plan.
type Params struct {
	Operation canvas.Operation
	Input     geometry.Dimensions
	Canvas    geometry.Dimensions

	// Mod2WidthDiff and Mod2HeightDiff are canvas.Result's Mod2 diffs; CROP
	// mode uses them to recover the ideal (pre-Mod2) canvas.
	Mod2WidthDiff  int
	Mod2HeightDiff int

	Focus Focus
	Flip  Flip

	// AxesSwapped indicates the resizer reports rotated input pixels; when
	// true the planner computes in logical (upright) space and swaps axes
	// on the way out.
	AxesSwapped bool
}

// Result is Plan's output: where to sample from the input and where to
// place that sample on the canvas.
type Result struct {
	Src    geometry.Rectangle
	Dst    geometry.Rectangle
	Canvas geometry.Dimensions
}

// Plan computes the source and destination rectangles for p. It never
// fails on its own inputs; all validation belongs to pkg/canvas.
func Plan(p Params) Result {
	var res Result
	if p.Operation == canvas.Crop {
		res = planCrop(p)
	} else {
		res = planExpand(p)
	}

	if p.AxesSwapped {
		res.Src = res.Src.SwapAxes()
		res.Dst = res.Dst.SwapAxes()
		res.Canvas = res.Canvas.SwapAxes()
	}
	return res
}

func planCrop(p Params) Result {
	inputW, inputH := p.Input.Width, p.Input.Height
	canvasW, canvasH := p.Canvas.Width, p.Canvas.Height

	// The ideal canvas is what Stage A-C would have produced before Mod2
	// perturbed it.
	idealW := canvasW - p.Mod2WidthDiff
	idealH := canvasH - p.Mod2HeightDiff

	sw := float64(idealW) / float64(inputW)
	sh := float64(idealH) / float64(inputH)

	idealAR := float64(idealW) / float64(idealH)
	inputAR := p.Input.Aspect()

	var overallRescale float64
	switch {
	case idealAR == inputAR:
		overallRescale = sw
	case idealAR < inputAR:
		// Width was cropped; the height axis is unaffected.
		overallRescale = sh
	default:
		// Height was cropped; the width axis is unaffected.
		overallRescale = sw
	}

	ideal := geometry.NewRectangle(0, 0, idealW, idealH)
	croppedInput := ideal.WithRescaling(1/overallRescale, geometry.Round)

	// Rescale the Mod2 deltas into input space and fold them in.
	dwFromMod2 := geometry.Round.Apply(float64(p.Mod2WidthDiff) / overallRescale)
	dhFromMod2 := geometry.Round.Apply(float64(p.Mod2HeightDiff) / overallRescale)
	croppedInput.Width += dwFromMod2
	croppedInput.Height += dhFromMod2

	if croppedInput.Width > inputW {
		croppedInput.Width = inputW
	}
	if croppedInput.Height > inputH {
		croppedInput.Height = inputH
	}

	dw := croppedInput.Width - inputW // <= 0
	dh := croppedInput.Height - inputH // <= 0

	x1, x2 := inputW, 0
	if dw < 0 {
		horFocus := p.Focus.Horizontal
		if p.Flip.Horizontal {
			horFocus = -horFocus
		}
		absDw := -dw
		x1 = geometry.Floor.Apply(float64(absDw) * float64(50+horFocus) / 100.0)
		x2 = inputW - (absDw - x1)
	} else {
		x1, x2 = 0, inputW
	}

	y1, y2 := inputH, 0
	if dh < 0 {
		verFocus := p.Focus.Vertical
		if p.Flip.Vertical {
			verFocus = -verFocus
		}
		absDh := -dh
		y1 = geometry.Floor.Apply(float64(absDh) * float64(50+verFocus) / 100.0)
		y2 = inputH - (absDh - y1)
	} else {
		y1, y2 = 0, inputH
	}

	src := geometry.NewRectangle(x1, y1, x2-x1, y2-y1)
	dst := geometry.NewRectangle(0, 0, canvasW, canvasH)

	return Result{Src: clampToInput(src, p.Input), Dst: dst, Canvas: p.Canvas}
}

func planExpand(p Params) Result {
	src := geometry.FromDimensions(p.Input)

	scale := math.Min(
		float64(p.Canvas.Width)/float64(p.Input.Width),
		float64(p.Canvas.Height)/float64(p.Input.Height),
	)

	scaled := src.WithRescaling(scale, geometry.Ceil)
	dstW, dstH := scaled.Width, scaled.Height

	dstX := geometry.Floor.Apply(float64(p.Canvas.Width-dstW) / 2.0)
	dstY := geometry.Floor.Apply(float64(p.Canvas.Height-dstH) / 2.0)

	dst := geometry.NewRectangle(dstX, dstY, dstW, dstH)

	return Result{Src: src, Dst: dst, Canvas: p.Canvas}
}

// clampToInput guards against off-by-one rounding drift pushing the crop
// rectangle a pixel outside the input; it never changes a legally-sized
// rectangle.
func clampToInput(r geometry.Rectangle, input geometry.Dimensions) geometry.Rectangle {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X2() > input.Width {
		r.Width = input.Width - r.X
	}
	if r.Y2() > input.Height {
		r.Height = input.Height - r.Y
	}
	return r
}

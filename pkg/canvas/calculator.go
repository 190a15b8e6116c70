package canvas

import (
	"math"

	"github.com/sko/frameconform/pkg/geometry"
)

// mod2Offsets is the fixed offset list adjustMod2 applies to a candidate
// height, in priority order. It is bounded to ±6 because beyond that the
// deviation from the target aspect dominates any potential area gain, and
// 0 is tried first so the pre-Mod2 canvas is kept when it is already legal.
var mod2Offsets = [...]int{0, 2, -2, 4, -4, 6, -6}

// Params is the input to Calculate: the input's dimensions plus the
// declarative constraints the canvas calculator enforces.
type Params struct {
	Feed         Feed
	Operation    Operation
	Input        geometry.Dimensions
	Mod2Required bool

	MinWidth int
	MaxWidth int

	// MinAspectRatio and MaxAspectRatio are nil when the caller left the
	// bound unset; an unset bound never fails validation on its own side.
	MinAspectRatio *float64
	MaxAspectRatio *float64

	AllowDeviation bool

	// Tracer receives a record per stage when non-nil. Optional.
	Tracer Tracer
}

// Result is Calculate's successful output: the canvas, and how much the
// Mod2 step altered it (each may be negative; both are zero when Mod2 was
// not required or left the pre-Stage-D canvas untouched).
type Result struct {
	Canvas         geometry.Dimensions
	Mod2WidthDiff  int
	Mod2HeightDiff int
}

func (p Params) tracer() Tracer {
	if p.Tracer == nil {
		return NopTracer{}
	}
	return p.Tracer
}

// Calculate runs the four ordered stages (aspect conformance, square
// sanity, width clamp, Mod2 adjustment) and returns the resulting canvas,
// or an *Error if no legal canvas exists under the supplied constraints.
func Calculate(p Params) (Result, error) {
	tracer := p.tracer()
	inputW, inputH := p.Input.Width, p.Input.Height
	ar := p.Input.Aspect()
	tracer.TraceStep("input", inputW, inputH, ar)

	targetW, targetH, targetAR, heightBias := stageA(p, ar)
	tracer.TraceStep("stageA", targetW, targetH, float64(targetW)/float64(targetH))

	targetW, targetH = stageB(p.Operation, targetAR, targetW, targetH)
	tracer.TraceStep("stageB", targetW, targetH, float64(targetW)/float64(targetH))

	targetW, targetH = stageC(p.MinWidth, p.MaxWidth, targetAR, heightBias, targetW, targetH)
	tracer.TraceStep("stageC", targetW, targetH, float64(targetW)/float64(targetH))

	var mod2WidthDiff, mod2HeightDiff int
	if p.Mod2Required && (targetW%2 != 0 || targetH%2 != 0) {
		beforeW, beforeH := targetW, targetH
		newW, newH, mod2Bucket := adjustMod2(targetW, targetH, p.MinWidth, inputH, heightBias, targetAR, p.MinAspectRatio, p.MaxAspectRatio)
		if mod2Bucket == bucketBad && !p.AllowDeviation {
			return Result{}, &Error{
				Achieved:       float64(newW) / float64(newH),
				MinAspectRatio: p.MinAspectRatio,
				MaxAspectRatio: p.MaxAspectRatio,
				Width:          newW,
				MinWidth:       p.MinWidth,
				MaxWidth:       p.MaxWidth,
				Reason:         "no legal Mod2 canvas exists within the declared aspect band",
			}
		}
		targetW, targetH = newW, newH
		mod2WidthDiff = targetW - beforeW
		mod2HeightDiff = targetH - beforeH
		tracer.TraceStep("stageD", targetW, targetH, float64(targetW)/float64(targetH))
	}

	if err := validate(p, targetW, targetH); err != nil {
		return Result{}, err
	}

	return Result{
		Canvas:         geometry.NewDimensions(targetW, targetH),
		Mod2WidthDiff:  mod2WidthDiff,
		Mod2HeightDiff: mod2HeightDiff,
	}, nil
}

// stageA implements aspect conformance: bringing the input's aspect
// ratio into the legal band before any width clamping.
func stageA(p Params, ar float64) (targetW, targetH int, targetAR float64, heightBias geometry.Rounding) {
	inputW, inputH := p.Input.Width, p.Input.Height

	switch {
	case p.MinAspectRatio != nil && ar < *p.MinAspectRatio:
		if p.Feed == Story {
			targetAR = StoryIdealRatio
		} else {
			targetAR = *p.MinAspectRatio
		}
		heightBias = geometry.Floor
		if p.Operation == Crop {
			targetW = inputW
			targetH = geometry.Floor.Apply(float64(inputW) / targetAR)
		} else {
			targetH = inputH
			targetW = geometry.Ceil.Apply(float64(inputH) * targetAR)
		}

	case p.MaxAspectRatio != nil && ar > *p.MaxAspectRatio:
		if p.Feed == Story {
			targetAR = StoryIdealRatio
		} else {
			targetAR = *p.MaxAspectRatio
		}
		heightBias = geometry.Ceil
		if p.Operation == Crop {
			targetW = geometry.Floor.Apply(float64(inputH) * targetAR)
			targetH = inputH
		} else {
			targetW = inputW
			targetH = geometry.Ceil.Apply(float64(inputW) / targetAR)
		}

	default:
		targetW, targetH = inputW, inputH
		targetAR = ar
		// A null bound contributes a 0 fallback distance, biasing the
		// rounding-bias choice toward whichever side is unset. Preserved
		// to match observed behavior.
		var minDist, maxDist float64
		if p.MinAspectRatio != nil {
			minDist = math.Abs(ar - *p.MinAspectRatio)
		}
		if p.MaxAspectRatio != nil {
			maxDist = math.Abs(ar - *p.MaxAspectRatio)
		}
		if minDist < maxDist {
			heightBias = geometry.Floor
		} else {
			heightBias = geometry.Ceil
		}
	}
	return
}

// stageB implements square sanity: when the target ratio is exactly 1 but
// the sides differ, it makes the canvas square, using the shorter side for
// Crop and the longer side for Expand.
func stageB(op Operation, targetAR float64, w, h int) (int, int) {
	if targetAR == 1 && w != h {
		if op == Crop {
			m := minInt(w, h)
			return m, m
		}
		m := maxInt(w, h)
		return m, m
	}
	return w, h
}

// stageC implements the width clamp: rescaling the canvas so its width
// falls within [minWidth, maxWidth] without changing its aspect ratio.
func stageC(minW, maxW int, targetAR float64, heightBias geometry.Rounding, w, h int) (int, int) {
	if w > maxW {
		w = maxW
		h = heightBias.Apply(float64(w) / targetAR)
	}
	if w < minW {
		w = minW
		h = heightBias.Apply(float64(w) / targetAR)
	}
	return w, h
}

type bucket int

const (
	bucketPerfect bucket = iota
	bucketStretch
	bucketBad
)

// adjustMod2 turns (W, H) into an even-even pair as
// close as possible to the ideal aspect, without exceeding width limits.
func adjustMod2(w, h, minW, inputH int, heightBias geometry.Rounding, targetAR float64, minAR, maxAR *float64) (int, int, bucket) {
	canCutWidth := w > minW

	if w%2 != 0 {
		if canCutWidth {
			w--
		} else {
			w++
		}
		h = heightBias.Apply(float64(w) / targetAR)
	}
	if h%2 != 0 {
		if canCutWidth {
			h--
		} else {
			h++
		}
	}

	type candidate struct {
		h      int
		bucket bucket
		dev    float64
	}
	var best *candidate

	for _, off := range mod2Offsets {
		hc := h + off
		if hc < 1 {
			continue
		}
		aspect := float64(w) / float64(hc)
		legal := true
		if minAR != nil && aspect < *minAR {
			legal = false
		}
		if maxAR != nil && aspect > *maxAR {
			legal = false
		}
		stretch := hc - inputH
		if stretch < 0 {
			stretch = 0
		}
		b := bucketBad
		if legal && stretch == 0 {
			b = bucketPerfect
		} else if legal && stretch > 0 {
			b = bucketStretch
		}
		dev := math.Abs(aspect - targetAR)

		if best == nil || b < best.bucket || (b == best.bucket && dev < best.dev) {
			best = &candidate{h: hc, bucket: b, dev: dev}
		}
	}

	if best == nil {
		// Every offset produced a non-positive height; fall back to the
		// pre-offset candidate so the caller still gets a concrete value
		// to validate and reject.
		return w, h, bucketBad
	}
	return w, best.h, best.bucket
}

// validate applies the overall validation checks, independent
// of whether Stage D ran.
func validate(p Params, w, h int) error {
	if w < 1 || h < 1 {
		return &Error{
			Achieved: float64(w) / float64(maxInt(h, 1)),
			Width:    w, MinWidth: p.MinWidth, MaxWidth: p.MaxWidth,
			MinAspectRatio: p.MinAspectRatio, MaxAspectRatio: p.MaxAspectRatio,
			Reason: "canvas dimension is not positive",
		}
	}
	if w < p.MinWidth || w > p.MaxWidth {
		return &Error{
			Achieved: float64(w) / float64(h),
			Width:    w, MinWidth: p.MinWidth, MaxWidth: p.MaxWidth,
			MinAspectRatio: p.MinAspectRatio, MaxAspectRatio: p.MaxAspectRatio,
			Reason: "canvas width outside the declared band",
		}
	}

	aspect := float64(w) / float64(h)
	outOfBand := (p.MinAspectRatio != nil && aspect < *p.MinAspectRatio) ||
		(p.MaxAspectRatio != nil && aspect > *p.MaxAspectRatio)
	if outOfBand && !p.AllowDeviation {
		return &Error{
			Achieved: aspect,
			Width:    w, MinWidth: p.MinWidth, MaxWidth: p.MaxWidth,
			MinAspectRatio: p.MinAspectRatio, MaxAspectRatio: p.MaxAspectRatio,
			Reason: "canvas aspect outside the declared band",
		}
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

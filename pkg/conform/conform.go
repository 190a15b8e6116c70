package conform

import (
	"context"

	"github.com/sko/frameconform/pkg/canvas"
	"github.com/sko/frameconform/pkg/geometry"
	"github.com/sko/frameconform/pkg/placement"
	"github.com/sko/frameconform/pkg/resizer"
)

// Result is Conform's successful output.
type Result struct {
	// OutputPath is the path the Resizer rendered to, or the input path
	// unchanged when the ShouldProcess guard returned false.
	OutputPath string

	// Processed is false when the input was already acceptable and no
	// rendering took place.
	Processed bool

	Canvas         geometry.Dimensions
	Mod2WidthDiff  int
	Mod2HeightDiff int
}

// ShouldProcess returns false iff the input
// is already acceptable and the resizer reports no independent need, in
// which case the caller should return the input path unchanged.
func ShouldProcess(cfg Configuration, rz resizer.Resizer, inputPath string) bool {
	in := rz.InputDimensions()
	minW, maxW := rz.MinWidth(), rz.MaxWidth()
	minAR, maxAR := cfg.resolvedBand()

	widthOK := in.Width >= minW && in.Width <= maxW
	ar := in.Aspect()
	aspectOK := ar >= minAR && ar <= maxAR

	if widthOK && aspectOK && !rz.ProcessingRequired() {
		return false
	}
	return true
}

// Conform is the complete module's orchestrator: it runs the processing guard,
// then (when processing is required) the canvas calculator, the
// placement planner, and finally the Resizer's Resize call.
func Conform(ctx context.Context, cfg Configuration, rz resizer.Resizer, inputPath string) (Result, error) {
	if !ShouldProcess(cfg, rz, inputPath) {
		return Result{OutputPath: inputPath, Processed: false, Canvas: rz.InputDimensions()}, nil
	}

	minAR, maxAR := cfg.resolvedBand()
	in := rz.InputDimensions()

	calcRes, err := canvas.Calculate(canvas.Params{
		Feed:           cfg.TargetFeed,
		Operation:      cfg.Operation,
		Input:          in,
		Mod2Required:   rz.Mod2Required(),
		MinWidth:       rz.MinWidth(),
		MaxWidth:       rz.MaxWidth(),
		MinAspectRatio: &minAR,
		MaxAspectRatio: &maxAR,
		AllowDeviation: cfg.AllowNewAspectDeviation,
		Tracer:         cfg.Tracer,
	})
	if err != nil {
		return Result{}, err
	}

	plan := placement.Plan(placement.Params{
		Operation:      cfg.Operation,
		Input:          in,
		Canvas:         calcRes.Canvas,
		Mod2WidthDiff:  calcRes.Mod2WidthDiff,
		Mod2HeightDiff: calcRes.Mod2HeightDiff,
		Focus:          placement.Focus{Horizontal: cfg.HorFocus(), Vertical: cfg.VerFocus()},
		Flip:           placement.Flip{Horizontal: rz.HorFlipped(), Vertical: rz.VerFlipped()},
		AxesSwapped:    rz.AxesSwapped(),
	})

	path, err := rz.Resize(ctx, plan.Src, plan.Dst, plan.Canvas)
	if err != nil {
		return Result{}, &RenderError{Err: err}
	}

	return Result{
		OutputPath:     path,
		Processed:      true,
		Canvas:         calcRes.Canvas,
		Mod2WidthDiff:  calcRes.Mod2WidthDiff,
		Mod2HeightDiff: calcRes.Mod2HeightDiff,
	}, nil
}

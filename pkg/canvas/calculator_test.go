package canvas

import (
	"testing"

	"github.com/sko/frameconform/pkg/geometry"
)

func ptr(f float64) *float64 { return &f }

// photoBand mirrors the photo resizer's default width band: minW=320, maxW=1080.
const (
	photoMinW = 320
	photoMaxW = 1080
)

func TestCalculateScenario1SquareNoOp(t *testing.T) {
	res, err := Calculate(Params{
		Feed: General, Operation: Crop,
		Input:          geometry.NewDimensions(1080, 1080),
		MinWidth:       photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(1.0), MaxAspectRatio: ptr(1.0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas != (geometry.Dimensions{Width: 1080, Height: 1080}) {
		t.Errorf("canvas = %v, want 1080x1080", res.Canvas)
	}
}

func TestCalculateScenario2MaxAspectCrop(t *testing.T) {
	res, err := Calculate(Params{
		Feed: General, Operation: Crop,
		Input:          geometry.NewDimensions(1080, 608),
		MinWidth:       photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(1.2), MaxAspectRatio: ptr(1.22),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas != (geometry.Dimensions{Width: 741, Height: 608}) {
		t.Errorf("canvas = %v, want 741x608", res.Canvas)
	}
	aspect := res.Canvas.Aspect()
	if aspect < 1.2 || aspect > 1.22 {
		t.Errorf("aspect %v outside band", aspect)
	}
}

func TestCalculateScenario3WidthClampFromBelow(t *testing.T) {
	res, err := Calculate(Params{
		Feed: General, Operation: Crop,
		Input:          geometry.NewDimensions(100, 125),
		MinWidth:       photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(0.8), MaxAspectRatio: ptr(1.91),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas != (geometry.Dimensions{Width: 320, Height: 400}) {
		t.Errorf("canvas = %v, want 320x400", res.Canvas)
	}
}

func TestCalculateScenario4WidthClampFromAbove(t *testing.T) {
	res, err := Calculate(Params{
		Feed: General, Operation: Crop,
		Input:          geometry.NewDimensions(1100, 1100),
		MinWidth:       photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(1.0), MaxAspectRatio: ptr(1.0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas != (geometry.Dimensions{Width: 1080, Height: 1080}) {
		t.Errorf("canvas = %v, want 1080x1080", res.Canvas)
	}
}

func TestCalculateScenario5StoryAlreadyLegalNoMod2(t *testing.T) {
	min, max := StoryTightMinAspectRatio, StoryTightMaxAspectRatio
	res, err := Calculate(Params{
		Feed: Story, Operation: Crop,
		Input:          geometry.NewDimensions(720, 1280),
		Mod2Required:   true,
		MinWidth:       480, MaxWidth: 720,
		MinAspectRatio: ptr(min), MaxAspectRatio: ptr(max),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas != (geometry.Dimensions{Width: 720, Height: 1280}) {
		t.Errorf("canvas = %v, want 720x1280", res.Canvas)
	}
	if res.Mod2WidthDiff != 0 || res.Mod2HeightDiff != 0 {
		t.Errorf("expected no Mod2 adjustment, got diffs %d,%d", res.Mod2WidthDiff, res.Mod2HeightDiff)
	}
}

func TestCalculateScenario6StoryMod2ClampAndEven(t *testing.T) {
	min, max := StoryTightMinAspectRatio, StoryTightMaxAspectRatio
	res, err := Calculate(Params{
		Feed: Story, Operation: Crop,
		Input:          geometry.NewDimensions(1081, 1921),
		Mod2Required:   true,
		MinWidth:       photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(min), MaxAspectRatio: ptr(max),
		AllowDeviation: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas.Width != 1080 {
		t.Errorf("canvas width = %d, want 1080", res.Canvas.Width)
	}
	if res.Canvas.Height%2 != 0 {
		t.Errorf("canvas height %d not even", res.Canvas.Height)
	}
	if res.Canvas != (geometry.Dimensions{Width: 1080, Height: 1920}) {
		t.Errorf("canvas = %v, want 1080x1920", res.Canvas)
	}
}

func TestValidateRejectsAspectOutsideBandWithoutDeviation(t *testing.T) {
	p := Params{
		MinWidth: photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(0.8), MaxAspectRatio: ptr(1.91),
	}
	err := validate(p, 1000, 50) // aspect 20, far outside [0.8, 1.91]
	if err == nil {
		t.Fatal("expected error for aspect outside band without AllowDeviation")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *canvas.Error, got %T", err)
	}
}

func TestValidateAcceptsAspectOutsideBandWithDeviation(t *testing.T) {
	p := Params{
		MinWidth: photoMinW, MaxWidth: photoMaxW,
		MinAspectRatio: ptr(0.8), MaxAspectRatio: ptr(1.91),
		AllowDeviation: true,
	}
	if err := validate(p, 1000, 50); err != nil {
		t.Fatalf("unexpected error with AllowDeviation: %v", err)
	}
}

func TestValidateRejectsWidthOutsideBand(t *testing.T) {
	p := Params{MinWidth: photoMinW, MaxWidth: photoMaxW}
	if err := validate(p, 2000, 2000); err == nil {
		t.Fatal("expected error for width outside band")
	}
}

func TestCalculateMod2RequiredProducesEvenDimensions(t *testing.T) {
	for w := 1079; w <= 1081; w++ {
		res, err := Calculate(Params{
			Feed: General, Operation: Crop,
			Input:          geometry.NewDimensions(w, 607),
			Mod2Required:   true,
			MinWidth:       480, MaxWidth: 1200,
			MinAspectRatio: ptr(0.8), MaxAspectRatio: ptr(1.91),
			AllowDeviation: true,
		})
		if err != nil {
			t.Fatalf("w=%d: unexpected error: %v", w, err)
		}
		if res.Canvas.Width%2 != 0 || res.Canvas.Height%2 != 0 {
			t.Errorf("w=%d: canvas %v not even-even", w, res.Canvas)
		}
	}
}

func TestCalculateSquareTargetAlwaysProducesSquareCanvas(t *testing.T) {
	inputs := []geometry.Dimensions{
		geometry.NewDimensions(1080, 1080),
		geometry.NewDimensions(2000, 500),
		geometry.NewDimensions(200, 900),
	}
	for _, in := range inputs {
		for _, op := range []Operation{Crop, Expand} {
			res, err := Calculate(Params{
				Feed: General, Operation: op,
				Input:          in,
				MinWidth:       100, MaxWidth: 5000,
				MinAspectRatio: ptr(1.0), MaxAspectRatio: ptr(1.0),
			})
			if err != nil {
				t.Fatalf("in=%v op=%v: unexpected error: %v", in, op, err)
			}
			if res.Canvas.Width != res.Canvas.Height {
				t.Errorf("in=%v op=%v: canvas %v is not square", in, op, res.Canvas)
			}
		}
	}
}

func TestCalculateNoOpWhenInputAlreadyLegal(t *testing.T) {
	in := geometry.NewDimensions(500, 500)
	res, err := Calculate(Params{
		Feed: General, Operation: Crop,
		Input:          in,
		MinWidth:       320, MaxWidth: 1080,
		MinAspectRatio: ptr(0.8), MaxAspectRatio: ptr(1.91),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canvas != in {
		t.Errorf("canvas = %v, want no-op %v", res.Canvas, in)
	}
	if res.Mod2WidthDiff != 0 || res.Mod2HeightDiff != 0 {
		t.Error("expected zero Mod2 diffs for an unrequired Mod2 pass")
	}
}

func TestTracerReceivesStages(t *testing.T) {
	var steps []string
	tracer := traceFunc(func(step string, w, h int, aspect float64) {
		steps = append(steps, step)
	})
	_, err := Calculate(Params{
		Feed: General, Operation: Crop,
		Input:          geometry.NewDimensions(1080, 1080),
		MinWidth:       320, MaxWidth: 1080,
		MinAspectRatio: ptr(1.0), MaxAspectRatio: ptr(1.0),
		Tracer:         tracer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) == 0 {
		t.Error("expected at least one traced step")
	}
}

type traceFunc func(step string, w, h int, aspect float64)

func (f traceFunc) TraceStep(step string, w, h int, aspect float64) { f(step, w, h, aspect) }

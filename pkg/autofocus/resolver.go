// Package autofocus resolves a crop-focus bias from a detected subject:
// a prompt contract and box-normalization step that turns a vision
// model's subject box into the conform package's integer focus bias.
package autofocus

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"

	"github.com/sko/frameconform/pkg/autofocus/client"
	"github.com/sko/frameconform/pkg/autofocus/saliency"
	"github.com/sko/frameconform/pkg/autofocus/types"
	"github.com/sko/frameconform/pkg/resizer"
)

// detectionMaxSide caps the longest edge of the thumbnail sent to a
// vision model, mirroring processing.Processor.PrepareImageForModel's
// sendsize downsampling.
const detectionMaxSide = 512

// DefaultPrompt asks a vision model for a single bounded subject box,
// instructing the model to locate the photo's primary subject.
const DefaultPrompt = `You are an image subject locator.

Return JSON only:
{
  "primary": {
    "label": "string",
    "confidence": 0.0,
    "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0},
    "cx": 0.0,
    "cy": 0.0
  },
  "description": "short neutral sentence (<= 20 words)",
  "tags": ["tag1", "tag2", "tag3"]
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- The box should tightly include the visually dominant subject (prefer people/vehicles/animals; else the most central salient object).
- If no clear subject exists, return label "none" with a centered box.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Resolver converts a vision model's subject detection into a crop-focus
// bias. It is strictly additive: callers only invoke
// it when they left a focus axis unset, and a Resolver failure should
// never block conformance, only leave that axis at its configured
// default.
type Resolver struct {
	vision client.VisionClient
	prompt string
}

// NewResolver builds a Resolver around a vision backend. A nil vision
// client is valid: ResolveFocus then falls back to the local saliency
// detector instead of calling out to a model.
func NewResolver(vision client.VisionClient) *Resolver {
	return &Resolver{vision: vision, prompt: DefaultPrompt}
}

// WithPrompt overrides the detection prompt sent to the vision model.
func (r *Resolver) WithPrompt(prompt string) *Resolver {
	r.prompt = prompt
	return r
}

// ResolveFocus detects the primary subject in img and converts its box
// center to a crop-focus bias in [-50, 50] on each axis, per
// focus = round((center - 0.5) * 100). With no vision client configured
// it falls back to the local saliency detector instead of calling out to
// a model.
func (r *Resolver) ResolveFocus(ctx context.Context, model string, img image.Image) (horFocus, verFocus int, err error) {
	var cx, cy float64

	if r.vision != nil {
		imgB64, err := encodeForDetection(img)
		if err != nil {
			return 0, 0, fmt.Errorf("autofocus: failed to prepare image: %w", err)
		}
		result, visionErr := r.vision.AnalyzeImage(ctx, model, r.prompt, imgB64)
		if visionErr != nil {
			return 0, 0, fmt.Errorf("autofocus: vision detection failed: %w", visionErr)
		}
		result = validateAndAdjust(result)
		cx, cy = result.Subject.Cx, result.Subject.Cy
	} else {
		region := saliency.BestRegion(img, saliency.DefaultConfig())
		b := img.Bounds()
		cx, cy = region.Center(b.Dx(), b.Dy())
	}

	return focusFromCenter(cx), focusFromCenter(cy), nil
}

// encodeForDetection downsamples img to a cheap thumbnail and returns it
// as a base64-encoded JPEG, the payload shape a VisionClient expects.
func encodeForDetection(img image.Image) (string, error) {
	thumb := resizer.DownsampleForDetection(img, detectionMaxSide)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// focusFromCenter converts a normalized center coordinate to a
// crop-focus bias, clamped to the legal [-50, 50] range.
func focusFromCenter(center float64) int {
	bias := int(math.Round((center - 0.5) * 100))
	if bias < -50 {
		return -50
	}
	if bias > 50 {
		return 50
	}
	return bias
}

// validateAndAdjust normalizes a detection result:
// a "none" label passes through unchanged, and fallback markers force the
// result back to a centered "none" so a garbled response can't smuggle an
// extreme bias into the focus calculation.
func validateAndAdjust(result *types.DetectionResult) *types.DetectionResult {
	if strings.EqualFold(result.Subject.Label, "none") {
		return result
	}

	result.Subject.Cx = clamp01(result.Subject.Cx)
	result.Subject.Cy = clamp01(result.Subject.Cy)

	for _, marker := range []string{"unclear", "parse", "error", "fallback", "non-json"} {
		if strings.Contains(strings.ToLower(result.Subject.Label), marker) ||
			strings.Contains(strings.ToLower(result.Description), marker) {
			result.Subject.Label = "none"
			result.Subject.Confidence = 0
			result.Subject.Cx, result.Subject.Cy = 0.5, 0.5
			break
		}
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

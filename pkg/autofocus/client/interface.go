// Package client defines the vision-model collaborator pkg/autofocus
// resolves crop focus through, mirroring the Resizer capability interface
// one level up: a single interface, satisfied by whichever backend the
// caller wires in.
package client

import (
	"context"

	"github.com/sko/frameconform/pkg/autofocus/types"
)

// VisionClient is satisfied by any backend capable of locating the
// primary subject in an image.
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	AnalyzeImage(ctx context.Context, model, prompt, imgB64 string) (*types.DetectionResult, error)
}

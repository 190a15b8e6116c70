package frameconform

import (
	"fmt"

	"github.com/sko/frameconform/pkg/autofocus/client"
	"github.com/sko/frameconform/pkg/autofocus/llamacpp"
	"github.com/sko/frameconform/pkg/autofocus/ollama"
)

// newVisionClient constructs the client.VisionClient backend names,
// defaulting each backend's URL the way the CLI's flags do.
func newVisionClient(backend, url string) (client.VisionClient, error) {
	switch backend {
	case "ollama":
		if url == "" {
			url = "http://localhost:11434"
		}
		c, err := ollama.NewClient(url)
		if err != nil {
			return nil, fmt.Errorf("frameconform: failed to create ollama client: %w", err)
		}
		return c, nil

	case "llamacpp":
		if url == "" {
			url = "http://localhost:8080"
		}
		return llamacpp.NewClient(url), nil

	default:
		return nil, fmt.Errorf("frameconform: unknown autofocus backend %q (use \"ollama\" or \"llamacpp\")", backend)
	}
}

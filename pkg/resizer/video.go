package resizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/sko/frameconform/pkg/geometry"
)

// VideoConfig holds the ffmpeg invocation settings a VideoResizer needs.
type VideoConfig struct {
	InputPath          string
	OutputPath         string
	MinWidth, MaxWidth int
	HFlipped, VFlipped bool
	AxesSwapped        bool
}

// VideoResizer implements Resizer by shelling out to ffmpeg/ffprobe, the
// same os/exec approach other Go video-processing tools use (see
// five82-reel's internal/processing package) rather than a cgo binding.
// Video output is always Mod2-constrained, since H.264 requires even
// width and height.
type VideoResizer struct {
	cfg VideoConfig
	dim geometry.Dimensions
}

// ffprobeStream is the subset of `ffprobe -show_streams -of json` output
// this package reads.
type ffprobeStream struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tags   struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

// NewVideoResizer probes path with ffprobe to recover its logical
// dimensions (accounting for a 90/270 degree rotate tag) and returns a
// Resizer for it.
func NewVideoResizer(ctx context.Context, cfg VideoConfig) (*VideoResizer, error) {
	if cfg.MinWidth == 0 {
		cfg.MinWidth = 480
	}
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = 720
	}

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:stream_tags=rotate",
		"-of", "json",
		cfg.InputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("resizer: ffprobe failed for %s: %w", cfg.InputPath, err)
	}

	dim, err := parseProbeDimensions(out, cfg.AxesSwapped)
	if err != nil {
		return nil, fmt.Errorf("resizer: failed to parse ffprobe output for %s: %w", cfg.InputPath, err)
	}

	return &VideoResizer{cfg: cfg, dim: dim}, nil
}

// parseProbeDimensions extracts the logical (post-rotation) frame
// dimensions from raw `ffprobe ... -of json` output. Kept separate from
// NewVideoResizer so the parsing logic can be tested without invoking
// ffprobe itself.
func parseProbeDimensions(data []byte, axesSwapped bool) (geometry.Dimensions, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return geometry.Dimensions{}, err
	}
	if len(probe.Streams) == 0 {
		return geometry.Dimensions{}, fmt.Errorf("no video stream in probe output")
	}

	s := probe.Streams[0]
	w, h := s.Width, s.Height
	rotated := axesSwapped
	if deg, err := strconv.Atoi(s.Tags.Rotate); err == nil && (deg == 90 || deg == 270) {
		rotated = true
	}
	if rotated {
		w, h = h, w
	}

	return geometry.NewDimensions(w, h), nil
}

func (v *VideoResizer) InputDimensions() geometry.Dimensions { return v.dim }
func (v *VideoResizer) MinWidth() int                        { return v.cfg.MinWidth }
func (v *VideoResizer) MaxWidth() int                        { return v.cfg.MaxWidth }
func (v *VideoResizer) Mod2Required() bool                   { return true }
func (v *VideoResizer) ProcessingRequired() bool              { return false }
func (v *VideoResizer) HorFlipped() bool                     { return v.cfg.HFlipped }
func (v *VideoResizer) VerFlipped() bool                     { return v.cfg.VFlipped }
func (v *VideoResizer) AxesSwapped() bool                    { return v.cfg.AxesSwapped }

// Resize drives ffmpeg's crop and scale video filters from the planned
// src/dst/canvas rectangles. For EXPAND placements the scaled video is
// padded with ffmpeg's pad filter rather than composited in Go, since
// ffmpeg already owns the full encode pipeline.
func (v *VideoResizer) Resize(ctx context.Context, src, dst geometry.Rectangle, cv geometry.Dimensions) (string, error) {
	filter := buildFFmpegFilter(src, dst, cv)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", "-hide_banner",
		"-i", v.cfg.InputPath,
		"-vf", filter,
		"-c:a", "copy",
		v.cfg.OutputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("resizer: ffmpeg failed: %w (%s)", err, out)
	}
	return v.cfg.OutputPath, nil
}

// buildFFmpegFilter builds the crop,scale[,pad] filter graph for a
// placement. A pad stage is only added when dst doesn't already span the
// whole canvas (the EXPAND case); CROP placements always have dst == cv.
func buildFFmpegFilter(src, dst geometry.Rectangle, cv geometry.Dimensions) string {
	filter := fmt.Sprintf("crop=%d:%d:%d:%d,scale=%d:%d", src.Width, src.Height, src.X, src.Y, dst.Width, dst.Height)
	if dst.Width != cv.Width || dst.Height != cv.Height {
		filter += fmt.Sprintf(",pad=%d:%d:%d:%d:black", cv.Width, cv.Height, dst.X, dst.Y)
	}
	return filter
}

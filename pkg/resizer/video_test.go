package resizer

import (
	"testing"

	"github.com/sko/frameconform/pkg/geometry"
)

func TestParseProbeDimensionsNoRotation(t *testing.T) {
	data := []byte(`{"streams":[{"width":1920,"height":1080,"tags":{}}]}`)
	dim, err := parseProbeDimensions(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geometry.NewDimensions(1920, 1080)
	if dim != want {
		t.Errorf("dim = %v, want %v", dim, want)
	}
}

func TestParseProbeDimensionsRotateTagSwapsAxes(t *testing.T) {
	data := []byte(`{"streams":[{"width":1920,"height":1080,"tags":{"rotate":"90"}}]}`)
	dim, err := parseProbeDimensions(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geometry.NewDimensions(1080, 1920)
	if dim != want {
		t.Errorf("dim = %v, want %v (rotate tag should swap axes)", dim, want)
	}
}

func TestParseProbeDimensionsAxesSwappedOverrideWithoutTag(t *testing.T) {
	data := []byte(`{"streams":[{"width":1920,"height":1080,"tags":{}}]}`)
	dim, err := parseProbeDimensions(data, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geometry.NewDimensions(1080, 1920)
	if dim != want {
		t.Errorf("dim = %v, want %v (explicit axesSwapped should swap even without a rotate tag)", dim, want)
	}
}

func TestParseProbeDimensionsNoStreamsErrors(t *testing.T) {
	data := []byte(`{"streams":[]}`)
	if _, err := parseProbeDimensions(data, false); err == nil {
		t.Error("expected an error for empty stream list")
	}
}

func TestParseProbeDimensionsMalformedJSON(t *testing.T) {
	if _, err := parseProbeDimensions([]byte("not json"), false); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestBuildFFmpegFilterCropOnlyWhenDstSpansCanvas(t *testing.T) {
	src := geometry.NewRectangle(10, 0, 1000, 1000)
	dst := geometry.FromDimensions(geometry.NewDimensions(480, 480))
	cv := geometry.NewDimensions(480, 480)

	filter := buildFFmpegFilter(src, dst, cv)
	want := "crop=1000:1000:10:0,scale=480:480"
	if filter != want {
		t.Errorf("filter = %q, want %q", filter, want)
	}
}

func TestBuildFFmpegFilterAddsPadForExpand(t *testing.T) {
	src := geometry.FromDimensions(geometry.NewDimensions(1000, 500))
	dst := geometry.NewRectangle(0, 125, 1000, 750)
	cv := geometry.NewDimensions(1000, 1000)

	filter := buildFFmpegFilter(src, dst, cv)
	want := "crop=1000:500:0:0,scale=1000:750,pad=1000:1000:0:125:black"
	if filter != want {
		t.Errorf("filter = %q, want %q", filter, want)
	}
}

func TestVideoResizerReportsMod2RequiredTrue(t *testing.T) {
	v := &VideoResizer{cfg: VideoConfig{MinWidth: 480, MaxWidth: 720}, dim: geometry.NewDimensions(1280, 720)}
	if !v.Mod2Required() {
		t.Error("VideoResizer must always require Mod2 canvases")
	}
}

func TestVideoResizerReportsConfiguredBand(t *testing.T) {
	v := &VideoResizer{cfg: VideoConfig{MinWidth: 480, MaxWidth: 720}}
	if v.MinWidth() != 480 || v.MaxWidth() != 720 {
		t.Errorf("band = [%d, %d], want [480, 720]", v.MinWidth(), v.MaxWidth())
	}
}

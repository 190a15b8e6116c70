// Command frameconform conforms a single image or video to a feed's
// legal aspect-ratio and width band: a flag-driven entry point over the
// library's facade.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/sko/frameconform"
	"github.com/sko/frameconform/internal/utils"
	"github.com/sko/frameconform/pkg/canvas"
	"github.com/sko/frameconform/pkg/conform"
)

func main() {
	var in, outDir, kind, op, feed, format string
	var minW, maxW int
	var minAR, maxAR float64
	var hasMinAR, hasMaxAR bool
	var horFocus, verFocus int
	var hasHorFocus, hasVerFocus bool
	var quality int
	var lossless bool
	var bg string
	var useBestStoryRatio bool

	var autofocusOn bool
	var backend, model, url string

	flag.StringVar(&in, "in", "", "input image or video path")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&kind, "feed-kind", "photo", "media kind: photo|thumb|video")
	flag.StringVar(&op, "op", "crop", "operation: crop|expand")
	flag.StringVar(&feed, "feed", "general", "target feed: general|story")
	flag.BoolVar(&useBestStoryRatio, "tight-story", false, "narrow the story band to the tight 9:16 neighborhood")

	flag.IntVar(&minW, "minw", 0, "minimum output width (0 = resizer default)")
	flag.IntVar(&maxW, "maxw", 0, "maximum output width (0 = resizer default)")

	flag.Func("minar", "minimum aspect ratio (default: feed band)", func(s string) error {
		_, err := fmt.Sscanf(s, "%f", &minAR)
		hasMinAR = true
		return err
	})
	flag.Func("maxar", "maximum aspect ratio (default: feed band)", func(s string) error {
		_, err := fmt.Sscanf(s, "%f", &maxAR)
		hasMaxAR = true
		return err
	})

	flag.Func("focus-hor", "horizontal crop focus in [-50,50] (default: 0)", func(s string) error {
		_, err := fmt.Sscanf(s, "%d", &horFocus)
		hasHorFocus = true
		return err
	})
	flag.Func("focus-ver", "vertical crop focus in [-50,50] (default: -50, top)", func(s string) error {
		_, err := fmt.Sscanf(s, "%d", &verFocus)
		hasVerFocus = true
		return err
	})

	flag.StringVar(&format, "format", "", "output format: jpg|png|webp (default: match input)")
	flag.IntVar(&quality, "quality", 85, "output quality, 1-100")
	flag.BoolVar(&lossless, "lossless", false, "webp lossless mode")
	flag.StringVar(&bg, "bg", "000000", "background color for EXPAND letterbox fill, as hex RRGGBB")

	flag.BoolVar(&autofocusOn, "autofocus", false, "resolve unset crop-focus axes with a vision model")
	flag.StringVar(&backend, "backend", "llamacpp", "autofocus backend: ollama|llamacpp")
	flag.StringVar(&model, "model", "openbmb/minicpm-v4.5", "autofocus model name")
	flag.StringVar(&url, "url", "", "autofocus server URL (defaults per backend)")

	flag.Parse()

	if in == "" {
		log.Fatalf("usage: %s -in input.jpg [-feed-kind photo|thumb|video] [-op crop|expand] [-feed general|story]", filepath.Base(os.Args[0]))
	}
	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	mediaKind, err := parseMediaKind(kind)
	if err != nil {
		log.Fatal(err)
	}
	operation, err := parseOperation(op)
	if err != nil {
		log.Fatal(err)
	}
	targetFeed, err := parseFeed(feed)
	if err != nil {
		log.Fatal(err)
	}

	opts := conform.Configuration{
		TargetFeed:        targetFeed,
		Operation:         operation,
		UseBestStoryRatio: useBestStoryRatio,
	}
	if hasMinAR {
		opts.MinAspectRatio = &minAR
	}
	if hasMaxAR {
		opts.MaxAspectRatio = &maxAR
	}
	if hasHorFocus {
		opts.HorCropFocus = &horFocus
	}
	if hasVerFocus {
		opts.VerCropFocus = &verFocus
	}

	bgColor, err := parseHexColor(bg)
	if err != nil {
		log.Fatal(err)
	}

	req := frameconform.Request{
		InputPath:  in,
		Kind:       mediaKind,
		OutputPath: utils.OutputPath(in, outDir, "_conformed", format),
		Format:     format,
		Quality:    quality,
		Lossless:   lossless,
		BgColor:    bgColor,
		MinWidth:   minW,
		MaxWidth:   maxW,
		Options:    opts,
	}

	if autofocusOn {
		resolver, err := frameconform.NewResolver(backend, url)
		if err != nil {
			log.Fatal(err)
		}
		req.Resolver = resolver
		req.AutofocusModel = model
	}

	result, err := frameconform.ConformFile(context.Background(), req)
	if err != nil {
		log.Fatal(err)
	}

	if !result.Processed {
		log.Printf("%s already conforms, left unchanged", in)
		return
	}
	log.Printf("wrote %s (canvas %s, mod2 diff %+d/%+d)", result.OutputPath, result.Canvas, result.Mod2WidthDiff, result.Mod2HeightDiff)
}

func parseMediaKind(s string) (frameconform.MediaKind, error) {
	switch s {
	case "photo":
		return frameconform.Photo, nil
	case "thumb":
		return frameconform.Thumbnail, nil
	case "video":
		return frameconform.Video, nil
	default:
		return 0, fmt.Errorf("unknown -feed-kind %q (use photo|thumb|video)", s)
	}
}

func parseOperation(s string) (canvas.Operation, error) {
	switch s {
	case "crop":
		return canvas.Crop, nil
	case "expand":
		return canvas.Expand, nil
	default:
		return 0, fmt.Errorf("unknown -op %q (use crop|expand)", s)
	}
}

func parseHexColor(s string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid -bg %q, want hex RRGGBB: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func parseFeed(s string) (canvas.Feed, error) {
	switch s {
	case "general":
		return canvas.General, nil
	case "story":
		return canvas.Story, nil
	default:
		return 0, fmt.Errorf("unknown -feed %q (use general|story)", s)
	}
}

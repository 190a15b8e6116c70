// Package saliency provides a local, model-free fallback for locating a
// photo's primary subject when no client.VisionClient is configured: an
// edge/contrast saliency map reduced to a single best-region finder
// instead of a full region list.
package saliency

import (
	"image"
	"math"
)

// Region is a rectangular area of interest with a relative saliency
// score, cheap enough to recompute from a downsampled thumbnail.
type Region struct {
	X, Y, Width, Height int
	Score               float64
}

// Center returns the region's normalized center, in [0,1] on both axes.
func (r Region) Center(imgWidth, imgHeight int) (cx, cy float64) {
	cx = (float64(r.X) + float64(r.Width)/2) / float64(imgWidth)
	cy = (float64(r.Y) + float64(r.Height)/2) / float64(imgHeight)
	return cx, cy
}

// Config tunes the saliency map's edge/brightness blend, mirroring the
// the detector's contrast/color/edge weights.
type Config struct {
	ContrastWeight float64
	ColorWeight    float64
	EdgeThreshold  float64
}

// DefaultConfig returns reasonable starting weights for BestRegion.
func DefaultConfig() Config {
	return Config{ContrastWeight: 0.3, ColorWeight: 0.2, EdgeThreshold: 0.01}
}

// BestRegion finds the single most salient square-ish region in img, or
// a region spanning the whole image when that region's edge strength does
// not clear cfg.EdgeThreshold.
func BestRegion(img image.Image, cfg Config) Region {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return Region{X: 0, Y: 0, Width: width, Height: height, Score: 0}
	}

	saliency := saliencyMap(img, cfg)

	windowSize := min(width, height) / 3
	if windowSize < 10 {
		return Region{X: 0, Y: 0, Width: width, Height: height, Score: 0}
	}

	step := max(windowSize/8, 1)
	var best Region
	bestScore := -1.0
	for y := 0; y <= height-windowSize; y += step {
		for x := 0; x <= width-windowSize; x += step {
			score := regionScore(saliency, x, y, windowSize, windowSize)
			if score > bestScore {
				bestScore = score
				best = Region{X: x, Y: y, Width: windowSize, Height: windowSize, Score: score}
			}
		}
	}

	// The threshold applies to edge strength alone, so a flat image falls
	// back to the full frame however bright it is.
	edges := saliencyMap(img, Config{ContrastWeight: 1})
	if regionScore(edges, best.X, best.Y, best.Width, best.Height) < cfg.EdgeThreshold {
		return Region{X: 0, Y: 0, Width: width, Height: height, Score: bestScore}
	}
	return best
}

func regionScore(m [][]float64, x, y, w, h int) float64 {
	var total float64
	count := 0
	for ry := y; ry < y+h && ry < len(m); ry++ {
		row := m[ry]
		for rx := x; rx < x+w && rx < len(row); rx++ {
			total += row[rx]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func saliencyMap(img image.Image, cfg Config) [][]float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	m := make([][]float64, height)
	for i := range m {
		m[i] = make([]float64, width)
	}

	neighbors := [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			r1, g1, b1, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			var edge float64
			for _, off := range neighbors {
				r2, g2, b2, _ := img.At(x+off[0]+bounds.Min.X, y+off[1]+bounds.Min.Y).RGBA()
				dr, dg, db := float64(r1)-float64(r2), float64(g1)-float64(g2), float64(b1)-float64(b2)
				edge += math.Sqrt(dr*dr + dg*dg + db*db)
			}
			edge /= 8 * 65535.0

			brightness := (float64(r1) + float64(g1) + float64(b1)) / (3 * 65535.0)
			m[y][x] = cfg.ContrastWeight*edge + cfg.ColorWeight*brightness
		}
	}
	return m
}

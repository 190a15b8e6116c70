package canvas

import "fmt"

// Error is raised when the calculator cannot satisfy its constraints: the
// achieved width falls outside [minWidth, maxWidth], or the achieved
// aspect falls outside [minAspectRatio, maxAspectRatio] and the caller has
// not set AllowDeviation. It carries the achieved values and the band so a
// caller can report something more useful than a formatted string.
type Error struct {
	Achieved       float64
	MinAspectRatio *float64
	MaxAspectRatio *float64
	Width          int
	MinWidth       int
	MaxWidth       int
	Reason         string
}

func (e *Error) Error() string {
	return fmt.Sprintf("canvas: %s (width=%d band=[%d,%d] aspect=%.4f band=[%s,%s])",
		e.Reason, e.Width, e.MinWidth, e.MaxWidth, e.Achieved, boundStr(e.MinAspectRatio), boundStr(e.MaxAspectRatio))
}

func boundStr(b *float64) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *b)
}

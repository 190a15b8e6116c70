package geometry

import "fmt"

// Rectangle is an immutable axis-aligned rectangle with integer origin and
// extent. Unlike Dimensions, a Rectangle's width/height may legally be used
// to describe a degenerate (zero-area) region during intermediate
// computation, so construction does not validate positivity.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// NewRectangle constructs a Rectangle from origin and extent.
func NewRectangle(x, y, width, height int) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// FromDimensions builds the rectangle (0, 0, d.Width, d.Height).
func FromDimensions(d Dimensions) Rectangle {
	return Rectangle{Width: d.Width, Height: d.Height}
}

// X2 returns x + width.
func (r Rectangle) X2() int { return r.X + r.Width }

// Y2 returns y + height.
func (r Rectangle) Y2() int { return r.Y + r.Height }

// Aspect returns width/height as a floating value.
func (r Rectangle) Aspect() float64 {
	return float64(r.Width) / float64(r.Height)
}

// Dimensions returns the rectangle's extent as a Dimensions, panicking if
// either side is not positive (see NewDimensions).
func (r Rectangle) Dimensions() Dimensions {
	return NewDimensions(r.Width, r.Height)
}

// WithRescaling scales width and height by factor, rounded per mode. The
// origin is left untouched; callers that need a rescaled origin compute it
// themselves, since the calculator only ever rescales width/height and
// leaves placement of the origin to the call site (see the planner's Stage
// 4-6 handling of the ideal canvas).
func (r Rectangle) WithRescaling(factor float64, mode Rounding) Rectangle {
	return Rectangle{
		X:      r.X,
		Y:      r.Y,
		Width:  mode.Apply(factor * float64(r.Width)),
		Height: mode.Apply(factor * float64(r.Height)),
	}
}

// SwapAxes exchanges x/width with y/height, for the axis-swap adapter used
// when the resizer reports rotated input pixels.
func (r Rectangle) SwapAxes() Rectangle {
	return Rectangle{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
}

// Within reports whether r lies entirely inside the rectangle described by
// the given dimensions, with origin (0,0).
func (r Rectangle) Within(d Dimensions) bool {
	return r.X >= 0 && r.Y >= 0 && r.X2() <= d.Width && r.Y2() <= d.Height
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

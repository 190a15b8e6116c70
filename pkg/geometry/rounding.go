// Package geometry provides the immutable value types the canvas calculator
// and placement planner are built on: Dimensions and Rectangle.
package geometry

import "math"

// Rounding selects how a fractional pixel dimension is resolved to an
// integer. The choice is part of the contract: Floor biases toward a
// smaller, wider-ratio result, Ceil biases toward a larger, taller-ratio
// result, and Round is ordinary nearest-integer rounding.
type Rounding int

const (
	Floor Rounding = iota
	Ceil
	Round
)

// Apply resolves v to an integer per the selected rounding mode.
func (r Rounding) Apply(v float64) int {
	switch r {
	case Floor:
		return int(math.Floor(v))
	case Ceil:
		return int(math.Ceil(v))
	default:
		return int(math.Round(v))
	}
}

func (r Rounding) String() string {
	switch r {
	case Floor:
		return "floor"
	case Ceil:
		return "ceil"
	case Round:
		return "round"
	default:
		return "unknown"
	}
}

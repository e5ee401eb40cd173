// Package geometry holds the small vector helpers shared by skin and body analysis.
package geometry

import (
	"errors"
	"math"
)

// ErrZeroDenominator is returned by Ratio when the divisor is zero or not finite.
var ErrZeroDenominator = errors.New("geometry: zero denominator")

// Point is a 2D point in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scale denormalizes a point expressed in [0,1] to pixel space.
func (p Point) Scale(width, height float64) Point {
	return Point{X: p.X * width, Y: p.Y * height}
}

// Offset shifts the point by dx, dy.
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Ratio divides num by den, refusing zero or non-finite denominators so that
// callers never see NaN or Inf.
func Ratio(num, den float64) (float64, error) {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0, ErrZeroDenominator
	}
	return num / den, nil
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

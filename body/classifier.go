package body

import (
	"fmt"
	"math"
)

// Shape is a body-shape category.
type Shape int

const (
	ShapeAverage Shape = iota
	ShapeHourglass
	ShapePear
	ShapeInvertedTriangle
	ShapeRectangle
)

var shapeNames = map[Shape]string{
	ShapeAverage:          "Average",
	ShapeHourglass:        "Hourglass",
	ShapePear:             "Pear",
	ShapeInvertedTriangle: "Inverted Triangle",
	ShapeRectangle:        "Rectangle",
}

// Shapes lists every shape, Average first.
func Shapes() []Shape {
	return []Shape{ShapeAverage, ShapeHourglass, ShapePear, ShapeInvertedTriangle, ShapeRectangle}
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func (s Shape) MarshalText() ([]byte, error) {
	if _, ok := shapeNames[s]; !ok {
		return nil, fmt.Errorf("body: unknown shape %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	for k, v := range shapeNames {
		if v == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("body: unknown shape %q", text)
}

// Classification is the chosen shape and the confidence of the rule that chose it.
type Classification struct {
	Shape      Shape   `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Ratios are the inputs of the shape rules.
type Ratios struct {
	ShoulderHip float64
	WaistHip    float64
}

// Rule is one body-shape candidate. Confidence is only meaningful when Matches holds.
type Rule struct {
	Shape      Shape
	Matches    func(Ratios) bool
	Confidence func(Ratios) float64
}

// Rules are evaluated in order; on equal confidence the earlier rule is kept.
var Rules = []Rule{
	{
		Shape: ShapeHourglass,
		Matches: func(r Ratios) bool {
			return r.WaistHip < 0.75 && r.ShoulderHip >= 0.9 && r.ShoulderHip <= 1.1
		},
		Confidence: func(r Ratios) float64 {
			return math.Min(0.75-r.WaistHip, math.Abs(1-r.ShoulderHip))
		},
	},
	{
		Shape: ShapePear,
		Matches: func(r Ratios) bool {
			return r.ShoulderHip < 0.9 && r.WaistHip < 0.8
		},
		Confidence: func(r Ratios) float64 {
			return (0.9 - r.ShoulderHip) + (0.8 - r.WaistHip)
		},
	},
	{
		Shape: ShapeInvertedTriangle,
		Matches: func(r Ratios) bool {
			return r.ShoulderHip > 1.1
		},
		Confidence: func(r Ratios) float64 {
			return r.ShoulderHip - 1.1
		},
	},
	{
		Shape: ShapeRectangle,
		Matches: func(r Ratios) bool {
			return r.WaistHip > 0.85 && r.ShoulderHip >= 0.95 && r.ShoulderHip <= 1.05
		},
		Confidence: func(r Ratios) float64 {
			return (r.WaistHip - 0.85) + math.Min(math.Abs(1-r.ShoulderHip), 0.05)
		},
	},
}

// Classify picks the highest-confidence matching rule, starting from Average at 0.
// Nil measurements classify as Average without error.
func Classify(m *Measurements) (Classification, error) {
	best := Classification{Shape: ShapeAverage}
	if m == nil {
		return best, nil
	}
	if m.Hips == 0 || math.IsNaN(m.Hips) || math.IsInf(m.Hips, 0) {
		return best, ErrDegenerateHips
	}

	r := Ratios{ShoulderHip: m.Shoulder / m.Hips, WaistHip: m.Waist / m.Hips}
	for _, rule := range Rules {
		if !rule.Matches(r) {
			continue
		}
		if c := rule.Confidence(r); c > best.Confidence {
			best = Classification{Shape: rule.Shape, Confidence: c}
		}
	}
	return best, nil
}

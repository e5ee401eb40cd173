package body

import (
	"errors"
	"fmt"

	"github.com/Devayan28/Outfitron/geometry"
)

// headTopOffset approximates the distance in pixels from the nose to the top of the head.
const headTopOffset = 50.0

var (
	// ErrNoBodySignal means the pose detector found no person.
	ErrNoBodySignal = errors.New("no body landmarks detected")
	// ErrMissingLandmark means a detection lacked a keypoint Measure needs.
	ErrMissingLandmark = errors.New("required landmark missing")
	// ErrDegenerateHips means the hip width is zero, so ratios are undefined.
	ErrDegenerateHips = errors.New("hip width is zero")
)

// Measurements are pixel-space body widths and the ratios derived from them.
// Waist is measured across the hip landmarks; it approximates the waist.
type Measurements struct {
	Shoulder            float64 `json:"shoulder"`
	Waist               float64 `json:"waist"`
	Hips                float64 `json:"hips"`
	Height              float64 `json:"height"`
	ShoulderHipRatio    float64 `json:"shoulder_hip_ratio"`
	WaistHipRatio       float64 `json:"waist_hip_ratio"`
	ShoulderHeightRatio float64 `json:"shoulder_height_ratio"`
}

// NewMeasurements builds Measurements and derives the ratios. It fails with
// ErrDegenerateHips when hips is zero.
func NewMeasurements(shoulder, waist, hips, height float64) (*Measurements, error) {
	m := &Measurements{Shoulder: shoulder, Waist: waist, Hips: hips, Height: height}
	if err := m.deriveRatios(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Measurements) deriveRatios() error {
	var err error
	if m.ShoulderHipRatio, err = geometry.Ratio(m.Shoulder, m.Hips); err != nil {
		return ErrDegenerateHips
	}
	if m.WaistHipRatio, err = geometry.Ratio(m.Waist, m.Hips); err != nil {
		return ErrDegenerateHips
	}
	// unused by the rules; zero when height is degenerate
	m.ShoulderHeightRatio, _ = geometry.Ratio(m.Shoulder, m.Height)
	return nil
}

// Rounded returns a copy for display: lengths to 0.1px, ratios to 0.01.
func (m Measurements) Rounded() Measurements {
	return Measurements{
		Shoulder:            geometry.Round(m.Shoulder, 1),
		Waist:               geometry.Round(m.Waist, 1),
		Hips:                geometry.Round(m.Hips, 1),
		Height:              geometry.Round(m.Height, 1),
		ShoulderHipRatio:    geometry.Round(m.ShoulderHipRatio, 2),
		WaistHipRatio:       geometry.Round(m.WaistHipRatio, 2),
		ShoulderHeightRatio: geometry.Round(m.ShoulderHeightRatio, 2),
	}
}

// Measure converts normalized landmarks of a width×height image into measurements.
//
// Shoulder is the distance between the shoulders, waist the distance between the
// hips, hips the distance between the hip/knee midpoints and height the distance
// from a point 50px above the nose to the left heel.
func Measure(landmarks LandmarkSet, width, height int) (*Measurements, error) {
	if len(landmarks) == 0 {
		return nil, ErrNoBodySignal
	}
	if missing := landmarks.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingLandmark, missing)
	}

	w, h := float64(width), float64(height)
	px := func(l Landmark) geometry.Point {
		return landmarks[l].Scale(w, h)
	}

	leftHip, rightHip := px(LeftHip), px(RightHip)
	headTop := px(Nose).Offset(0, -headTopOffset)

	return NewMeasurements(
		geometry.Distance(px(LeftShoulder), px(RightShoulder)),
		geometry.Distance(leftHip, rightHip),
		geometry.Distance(
			geometry.Midpoint(leftHip, px(LeftKnee)),
			geometry.Midpoint(rightHip, px(RightKnee)),
		),
		geometry.Distance(headTop, px(LeftHeel)),
	)
}

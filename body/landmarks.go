// Package body turns pose landmarks into body measurements and a body-shape label.
package body

import (
	"fmt"

	"github.com/Devayan28/Outfitron/geometry"
)

// Landmark names an anatomical keypoint produced by a pose detector.
type Landmark int

const (
	Nose Landmark = iota
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
)

var landmarkNames = [...]string{
	Nose:          "NOSE",
	LeftShoulder:  "LEFT_SHOULDER",
	RightShoulder: "RIGHT_SHOULDER",
	LeftElbow:     "LEFT_ELBOW",
	RightElbow:    "RIGHT_ELBOW",
	LeftWrist:     "LEFT_WRIST",
	RightWrist:    "RIGHT_WRIST",
	LeftHip:       "LEFT_HIP",
	RightHip:      "RIGHT_HIP",
	LeftKnee:      "LEFT_KNEE",
	RightKnee:     "RIGHT_KNEE",
	LeftAnkle:     "LEFT_ANKLE",
	RightAnkle:    "RIGHT_ANKLE",
	LeftHeel:      "LEFT_HEEL",
	RightHeel:     "RIGHT_HEEL",
}

func (l Landmark) String() string {
	if l >= 0 && int(l) < len(landmarkNames) {
		return landmarkNames[l]
	}
	return fmt.Sprintf("Landmark(%d)", int(l))
}

// RequiredLandmarks are the keypoints Measure reads.
var RequiredLandmarks = []Landmark{
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	Nose, LeftHeel,
}

// LandmarkSet maps keypoints to positions normalized to [0,1] of the image size.
type LandmarkSet map[Landmark]geometry.Point

// Missing returns the required landmarks absent from the set.
func (s LandmarkSet) Missing() []Landmark {
	var missing []Landmark
	for _, l := range RequiredLandmarks {
		if _, ok := s[l]; !ok {
			missing = append(missing, l)
		}
	}
	return missing
}

package service

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/Devayan28/Outfitron/body"
	"github.com/Devayan28/Outfitron/geometry"
)

// PoseDetector finds the body keypoints of one person. An empty set means no person.
type PoseDetector interface {
	Detect(img gocv.Mat) (body.LandmarkSet, error)
	Close() error
}

// body25Parts maps OpenPose BODY_25 heat-map channels to landmarks.
var body25Parts = map[body.Landmark]int{
	body.Nose:          0,
	body.RightShoulder: 2,
	body.RightElbow:    3,
	body.RightWrist:    4,
	body.LeftShoulder:  5,
	body.LeftElbow:     6,
	body.LeftWrist:     7,
	body.RightHip:      9,
	body.RightKnee:     10,
	body.RightAnkle:    11,
	body.LeftHip:       12,
	body.LeftKnee:      13,
	body.LeftAnkle:     14,
	body.LeftHeel:      21,
	body.RightHeel:     24,
}

// OpenPoseDetector runs the OpenPose BODY_25 Caffe model through OpenCV DNN and
// takes the arg-max of every part heat map. Keypoints under the threshold are
// dropped; if any required landmark is dropped the whole detection is discarded.
type OpenPoseDetector struct {
	mu        sync.Mutex
	net       gocv.Net
	inputSize image.Point
	threshold float32
}

func NewOpenPoseDetector(protoPath, modelPath string, inputSize int, threshold float32) (*OpenPoseDetector, error) {
	for _, p := range []string{protoPath, modelPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("pose model: %w", err)
		}
	}
	net := gocv.ReadNet(modelPath, protoPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load pose model %s", modelPath)
	}
	return &OpenPoseDetector{
		net:       net,
		inputSize: image.Point{X: inputSize, Y: inputSize},
		threshold: threshold,
	}, nil
}

func (d *OpenPoseDetector) Detect(img gocv.Mat) (body.LandmarkSet, error) {
	blob := gocv.BlobFromImage(img, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	prob := d.net.Forward("")
	d.mu.Unlock()
	defer prob.Close()

	dims := prob.Size()
	if len(dims) != 4 {
		return nil, fmt.Errorf("unexpected pose output shape %v", dims)
	}
	mapH, mapW := float64(dims[2]), float64(dims[3])

	landmarks := body.LandmarkSet{}
	for landmark, channel := range body25Parts {
		if channel >= dims[1] {
			continue
		}
		heatmap := gocv.GetBlobChannel(prob, 0, channel)
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(heatmap)
		heatmap.Close()
		if maxVal < d.threshold {
			continue
		}
		landmarks[landmark] = geometry.Pt(float64(maxLoc.X)/mapW, float64(maxLoc.Y)/mapH)
	}

	if len(landmarks.Missing()) > 0 {
		return body.LandmarkSet{}, nil
	}
	return landmarks, nil
}

func (d *OpenPoseDetector) Close() error {
	return d.net.Close()
}

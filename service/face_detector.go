package service

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Face is one detected face in pixel coordinates.
type Face struct {
	Box   image.Rectangle
	Score float64
}

// Area returns the box area in pixels.
func (f Face) Area() int {
	return f.Box.Dx() * f.Box.Dy()
}

// FaceDetector finds faces in a BGR image. An empty slice means no face.
type FaceDetector interface {
	Detect(img gocv.Mat) ([]Face, error)
	Close() error
}

// cascadePaths are tried in order when no explicit cascade file is configured.
var cascadePaths = []string{
	"haarcascade_frontalface_default.xml",
	"/usr/local/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
	"/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
	"/opt/homebrew/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
}

// CascadeFaceDetector detects faces with a Haar cascade. Cascade detections carry
// no score, so every face is reported with score 1.
type CascadeFaceDetector struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
}

func NewCascadeFaceDetector(path string) (*CascadeFaceDetector, error) {
	candidates := cascadePaths
	if path != "" {
		candidates = []string{path}
	}

	classifier := gocv.NewCascadeClassifier()
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if classifier.Load(p) {
			return &CascadeFaceDetector{classifier: classifier}, nil
		}
	}
	classifier.Close()
	return nil, fmt.Errorf("failed to load face cascade from %v", candidates)
}

func (d *CascadeFaceDetector) Detect(img gocv.Mat) ([]Face, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	d.mu.Lock()
	rects := d.classifier.DetectMultiScale(gray)
	d.mu.Unlock()

	faces := make([]Face, 0, len(rects))
	for _, r := range rects {
		faces = append(faces, Face{Box: r, Score: 1})
	}
	return faces, nil
}

func (d *CascadeFaceDetector) Close() error {
	return d.classifier.Close()
}

// YuNetFaceDetector detects faces with the OpenCV YuNet model, which reports a
// score per face.
type YuNetFaceDetector struct {
	mu       sync.Mutex
	detector gocv.FaceDetectorYN
}

func NewYuNetFaceDetector(modelPath string, scoreThreshold float32) (*YuNetFaceDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("yunet model: %w", err)
	}
	detector := gocv.NewFaceDetectorYN(modelPath, "", image.Point{X: 320, Y: 320})
	detector.SetScoreThreshold(scoreThreshold)
	return &YuNetFaceDetector{detector: detector}, nil
}

func (d *YuNetFaceDetector) Detect(img gocv.Mat) ([]Face, error) {
	out := gocv.NewMat()
	defer out.Close()

	d.mu.Lock()
	d.detector.SetInputSize(image.Point{X: img.Cols(), Y: img.Rows()})
	d.detector.Detect(img, &out)
	d.mu.Unlock()

	faces := make([]Face, 0, out.Rows())
	for i := 0; i < out.Rows(); i++ {
		x := int(out.GetFloatAt(i, 0))
		y := int(out.GetFloatAt(i, 1))
		w := int(out.GetFloatAt(i, 2))
		h := int(out.GetFloatAt(i, 3))
		faces = append(faces, Face{
			Box:   image.Rect(x, y, x+w, y+h),
			Score: float64(out.GetFloatAt(i, 14)),
		})
	}
	return faces, nil
}

func (d *YuNetFaceDetector) Close() error {
	d.detector.Close()
	return nil
}

// LargestFace returns the face with the biggest box; ties keep the first.
func LargestFace(faces []Face) (Face, bool) {
	if len(faces) == 0 {
		return Face{}, false
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Area() > best.Area() {
			best = f
		}
	}
	return best, true
}

// PadFace grows box by frac of its width on every side and clamps the result to
// bounds. The right and bottom edges are clamped after the left and top moved.
func PadFace(box image.Rectangle, frac float64, bounds image.Rectangle) image.Rectangle {
	pad := int(float64(box.Dx()) * frac)
	x := max(bounds.Min.X, box.Min.X-pad)
	y := max(bounds.Min.Y, box.Min.Y-pad)
	w := min(bounds.Max.X-x, box.Dx()+2*pad)
	h := min(bounds.Max.Y-y, box.Dy()+2*pad)
	return image.Rect(x, y, x+w, y+h)
}

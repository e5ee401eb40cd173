package service

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/Devayan28/Outfitron/body"
	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/geometry"
	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/recommend"
	"github.com/Devayan28/Outfitron/skin"
)

type stubFaces struct {
	faces []Face
	err   error
}

func (s stubFaces) Detect(gocv.Mat) ([]Face, error) { return s.faces, s.err }
func (s stubFaces) Close() error                    { return nil }

type stubPoses struct {
	mu        sync.Mutex
	landmarks body.LandmarkSet
	err       error
	calls     int
}

func (s *stubPoses) Detect(gocv.Mat) (body.LandmarkSet, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.landmarks, s.err
}
func (s *stubPoses) Close() error { return nil }

// wideShoulders measures 80/60/64 on a 200×1000 image: an inverted triangle.
var wideShoulders = body.LandmarkSet{
	body.LeftShoulder:  geometry.Pt(0.30, 0.25),
	body.RightShoulder: geometry.Pt(0.70, 0.25),
	body.LeftHip:       geometry.Pt(0.35, 0.50),
	body.RightHip:      geometry.Pt(0.65, 0.50),
	body.LeftKnee:      geometry.Pt(0.33, 0.70),
	body.RightKnee:     geometry.Pt(0.67, 0.70),
	body.Nose:          geometry.Pt(0.50, 0.10),
	body.LeftHeel:      geometry.Pt(0.50, 0.95),
}

func encodePNG(t *testing.T, img gocv.Mat) []byte {
	t.Helper()
	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	require.NoError(t, err)
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...)
}

func testImages(t *testing.T) (selfie, fullBody []byte) {
	t.Helper()
	s := solidMat(200, 200, skinBGR)
	defer s.Close()
	b := solidMat(1000, 200, [3]float64{90, 90, 90})
	defer b.Close()
	return encodePNG(t, s), encodePNG(t, b)
}

func newTestAnalyzer(faces FaceDetector, poses PoseDetector, opts ...AnalyzerOption) *Analyzer {
	opts = append([]AnalyzerOption{WithLogger(zap.NewNop())}, opts...)
	return NewAnalyzer(faces, poses,
		&config.AnalysisConfig{MaxConcurrent: 2, QueueTimeout: 5},
		&config.VisionConfig{FacePadding: 0.3, KMeansAttempts: 1},
		opts...)
}

var centredFace = stubFaces{faces: []Face{
	{Box: image.Rect(0, 0, 20, 20), Score: 1},
	{Box: image.Rect(50, 50, 150, 150), Score: 1},
}}

func TestAnalyze(t *testing.T) {
	selfie, fullBody := testImages(t)
	a := newTestAnalyzer(centredFace, &stubPoses{landmarks: wideShoulders})

	result, err := a.Analyze(context.Background(), selfie, fullBody)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, model.BBox{X: 20, Y: 20, Width: 160, Height: 160}, result.Face)

	s := result.Skin
	assert.Equal(t, skin.ToneVeryFair, s.Tone)
	assert.Equal(t, skin.UndertoneWarm, s.Undertone)
	assert.Equal(t, skin.TextureSmooth, s.Texture)
	assert.Equal(t, "Fine texture", s.TextureDescription)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, s.DominantColor)

	assert.True(t, result.BodyDetected)
	assert.Equal(t, body.ShapeInvertedTriangle, result.BodyShape.Shape)
	assert.InDelta(t, 0.15, result.BodyShape.Confidence, 1e-9)
	require.NotNil(t, result.Measurements)
	assert.Equal(t, 80.0, result.Measurements.Shoulder)
	assert.Equal(t, 1.25, result.Measurements.ShoulderHipRatio)

	assert.Equal(t, recommend.Palette(skin.ToneVeryFair, skin.UndertoneWarm), result.Colors)
	assert.Equal(t, recommend.Clothing(body.ShapeInvertedTriangle), result.Clothing)
	assert.Equal(t, recommend.Skincare(skin.ToneVeryFair, skin.TextureSmooth, skin.UndertoneWarm), result.Skincare)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	selfie, fullBody := testImages(t)
	a := newTestAnalyzer(centredFace, &stubPoses{landmarks: wideShoulders})

	first, err := a.Analyze(context.Background(), selfie, fullBody)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), selfie, fullBody)
	require.NoError(t, err)

	assert.Equal(t, first.Skin, second.Skin)
	assert.Equal(t, first.BodyShape, second.BodyShape)
	assert.Equal(t, first.Measurements, second.Measurements)
	assert.Equal(t, first.Colors, second.Colors)
	assert.Equal(t, first.Clothing, second.Clothing)
	assert.Equal(t, first.Skincare, second.Skincare)
}

func TestAnalyzeNoFaceIsFatal(t *testing.T) {
	selfie, fullBody := testImages(t)
	a := newTestAnalyzer(stubFaces{}, &stubPoses{landmarks: wideShoulders})

	result, err := a.Analyze(context.Background(), selfie, fullBody)
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrNoFaceDetected)

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, StageFaceDetect, ae.Stage)
}

func TestAnalyzeFaceDetectorError(t *testing.T) {
	selfie, fullBody := testImages(t)
	boom := errors.New("detector crashed")
	a := newTestAnalyzer(stubFaces{err: boom}, &stubPoses{landmarks: wideShoulders})

	_, err := a.Analyze(context.Background(), selfie, fullBody)
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeWithoutBodyDegrades(t *testing.T) {
	selfie, fullBody := testImages(t)

	degenerate := body.LandmarkSet{}
	for _, l := range body.RequiredLandmarks {
		degenerate[l] = geometry.Pt(0.5, 0.5)
	}
	partial := body.LandmarkSet{body.Nose: geometry.Pt(0.5, 0.1)}

	tests := []struct {
		name  string
		poses PoseDetector
	}{
		{"no person", &stubPoses{landmarks: body.LandmarkSet{}}},
		{"missing landmark", &stubPoses{landmarks: partial}},
		{"zero hips", &stubPoses{landmarks: degenerate}},
		{"no pose model", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(centredFace, tt.poses)
			result, err := a.Analyze(context.Background(), selfie, fullBody)
			require.NoError(t, err)

			assert.False(t, result.BodyDetected)
			assert.Nil(t, result.Measurements)
			assert.Equal(t, body.Classification{Shape: body.ShapeAverage}, result.BodyShape)
			assert.Equal(t, recommend.Clothing(body.ShapeAverage), result.Clothing)
		})
	}
}

func TestAnalyzeUnreadableImages(t *testing.T) {
	selfie, fullBody := testImages(t)
	a := newTestAnalyzer(centredFace, &stubPoses{landmarks: wideShoulders})

	_, err := a.Analyze(context.Background(), []byte("not an image"), fullBody)
	require.ErrorIs(t, err, ErrUnreadableImage)
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, StageDecodeSelfie, ae.Stage)

	_, err = a.Analyze(context.Background(), selfie, nil)
	require.ErrorIs(t, err, ErrUnreadableImage)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, StageDecodeBody, ae.Stage)
}

func TestAnalyzeQueueFull(t *testing.T) {
	selfie, fullBody := testImages(t)
	metrics := NewMetrics()
	a := newTestAnalyzer(centredFace, nil, WithMetrics(metrics))
	for i := 0; i < cap(a.semaphore); i++ {
		a.semaphore <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, selfie, fullBody)
	require.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, int64(1), metrics.Snapshot()["analyses{outcome=failure,stage=queue}"])
}

func TestAnalyzeRecordsMetrics(t *testing.T) {
	selfie, fullBody := testImages(t)
	metrics := NewMetrics()

	a := newTestAnalyzer(centredFace, &stubPoses{landmarks: wideShoulders}, WithMetrics(metrics))
	_, err := a.Analyze(context.Background(), selfie, fullBody)
	require.NoError(t, err)

	a = newTestAnalyzer(stubFaces{}, nil, WithMetrics(metrics))
	_, err = a.Analyze(context.Background(), selfie, fullBody)
	require.Error(t, err)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap["analyses{outcome=success}"])
	assert.Equal(t, int64(1), snap["analyses{outcome=failure,stage=face_detect}"])
	assert.Equal(t, int64(1), snap["body_shapes{shape=Inverted Triangle}"])
}

func TestAnalyzeFiles(t *testing.T) {
	selfie, fullBody := testImages(t)
	dir := t.TempDir()
	selfiePath := filepath.Join(dir, "selfie.png")
	bodyPath := filepath.Join(dir, "body.png")
	require.NoError(t, os.WriteFile(selfiePath, selfie, 0o644))
	require.NoError(t, os.WriteFile(bodyPath, fullBody, 0o644))

	a := newTestAnalyzer(centredFace, &stubPoses{landmarks: wideShoulders})
	result, err := a.AnalyzeFiles(context.Background(), selfiePath, bodyPath)
	require.NoError(t, err)
	assert.Equal(t, body.ShapeInvertedTriangle, result.BodyShape.Shape)

	_, err = a.AnalyzeFiles(context.Background(), filepath.Join(dir, "missing.png"), bodyPath)
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestAnalyzeWritesDebugFace(t *testing.T) {
	selfie, fullBody := testImages(t)
	path := filepath.Join(t.TempDir(), "face.png")
	a := NewAnalyzer(centredFace, nil,
		&config.AnalysisConfig{MaxConcurrent: 1, QueueTimeout: 1},
		&config.VisionConfig{FacePadding: 0.3, DebugFacePath: path},
		WithLogger(zap.NewNop()))

	_, err := a.Analyze(context.Background(), selfie, fullBody)
	require.NoError(t, err)

	crop := gocv.IMRead(path, gocv.IMReadColor)
	defer crop.Close()
	assert.Equal(t, 160, crop.Cols())
	assert.Equal(t, 160, crop.Rows())
}

func TestAnalysisError(t *testing.T) {
	err := stageError(StageSkinSignal, ErrNoSkinSignal)
	assert.Equal(t, "skin_signal: no skin pixels to sample", err.Error())
	assert.ErrorIs(t, err, ErrNoSkinSignal)
	assert.NoError(t, stageError(StageQueue, nil))
	assert.ErrorIs(t, ErrNoBodySignal, body.ErrNoBodySignal)
}

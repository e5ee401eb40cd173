package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"github.com/Devayan28/Outfitron/body"
	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/recommend"
	"github.com/Devayan28/Outfitron/skin"
	"github.com/Devayan28/Outfitron/utils"
)

const (
	// dominantClusters is k for the dominant skin colour.
	dominantClusters = 3
	// faceScoreThreshold is the minimum YuNet detection confidence.
	faceScoreThreshold = 0.5
)

// Analyzer turns a selfie and a full-body photo into an AnalysisResult.
// At most max_concurrent analyses run at once; callers wait up to the queue
// timeout for a slot.
type Analyzer struct {
	faces         FaceDetector
	poses         PoseDetector
	extractor     *SkinExtractor
	clusterer     Clusterer
	metrics       *Metrics
	logger        *zap.Logger
	facePadding   float64
	debugFacePath string
	semaphore     chan struct{}
	queueTimeout  time.Duration
}

type AnalyzerOption func(*Analyzer)

func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.logger = logger }
}

func WithMetrics(m *Metrics) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = m }
}

func WithClusterer(c Clusterer) AnalyzerOption {
	return func(a *Analyzer) { a.clusterer = c }
}

// NewAnalyzer wires the detectors into an analyzer. A nil pose detector makes
// every body branch degrade to the Average shape.
func NewAnalyzer(faces FaceDetector, poses PoseDetector, analysisCfg *config.AnalysisConfig, visionCfg *config.VisionConfig, opts ...AnalyzerOption) *Analyzer {
	clusterer := NewKMeansClusterer()
	if visionCfg.KMeansAttempts > 0 {
		clusterer.Attempts = visionCfg.KMeansAttempts
	}

	a := &Analyzer{
		faces:         faces,
		poses:         poses,
		extractor:     NewSkinExtractor(),
		clusterer:     clusterer,
		logger:        utils.Logger,
		facePadding:   visionCfg.FacePadding,
		debugFacePath: visionCfg.DebugFacePath,
		semaphore:     make(chan struct{}, max(1, analysisCfg.MaxConcurrent)),
		queueTimeout:  time.Duration(analysisCfg.QueueTimeout) * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDetectors builds the configured face and pose detectors. YuNet is used when
// a model is configured, the Haar cascade otherwise. A missing pose model is not
// an error: the returned PoseDetector is nil and body analysis degrades.
func NewDetectors(cfg *config.VisionConfig) (FaceDetector, PoseDetector, error) {
	var faces FaceDetector
	var err error
	if cfg.YuNetModel != "" {
		faces, err = NewYuNetFaceDetector(cfg.YuNetModel, faceScoreThreshold)
	} else {
		faces, err = NewCascadeFaceDetector(cfg.CascadePath)
	}
	if err != nil {
		return nil, nil, err
	}

	poses, err := NewOpenPoseDetector(cfg.PoseProto, cfg.PoseModel, cfg.PoseInputSize, float32(cfg.PoseThreshold))
	if err != nil {
		utils.Logger.Warn("pose model unavailable, body analysis disabled", zap.Error(err))
		return faces, nil, nil
	}
	return faces, poses, nil
}

// Close releases both detectors.
func (a *Analyzer) Close() error {
	var errs []error
	if a.faces != nil {
		errs = append(errs, a.faces.Close())
	}
	if a.poses != nil {
		errs = append(errs, a.poses.Close())
	}
	return errors.Join(errs...)
}

// AnalyzeFiles reads both images from disk and analyzes them.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, selfiePath, bodyPath string) (*model.AnalysisResult, error) {
	selfie, err := os.ReadFile(selfiePath)
	if err != nil {
		return nil, stageError(StageDecodeSelfie, fmt.Errorf("%w: %v", ErrUnreadableImage, err))
	}
	fullBody, err := os.ReadFile(bodyPath)
	if err != nil {
		return nil, stageError(StageDecodeBody, fmt.Errorf("%w: %v", ErrUnreadableImage, err))
	}
	return a.Analyze(ctx, selfie, fullBody)
}

// Analyze runs the selfie and body branches concurrently and assembles the
// recommendations. A missing face or skin signal fails the analysis; a missing
// body signal yields the Average shape with no measurements.
func (a *Analyzer) Analyze(ctx context.Context, selfie, fullBody []byte) (*model.AnalysisResult, error) {
	if err := a.acquire(ctx); err != nil {
		a.record(ctx, err, 0)
		return nil, err
	}
	defer func() { <-a.semaphore }()

	startTime := time.Now()

	var (
		selfieOut selfieAnalysis
		bodyOut   bodyAnalysis
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		selfieOut, err = a.analyzeSelfie(selfie)
		return err
	})
	g.Go(func() error {
		var err error
		bodyOut, err = a.analyzeBody(fullBody)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Warn("analysis failed", zap.Error(err))
		a.record(ctx, err, time.Since(startTime))
		return nil, err
	}

	profile := selfieOut.profile
	result := &model.AnalysisResult{
		ID: utils.GenerateID(),
		Skin: model.SkinSection{
			Profile:            profile,
			TextureDescription: profile.TextureDescription(),
			DominantColor:      hexColor(profile.Sample),
		},
		BodyShape:    bodyOut.shape,
		BodyDetected: bodyOut.measurements != nil,
		Face:         model.NewBBox(selfieOut.face),
		Colors:       recommend.Palette(profile.Tone, profile.Undertone),
		Clothing:     recommend.Clothing(bodyOut.shape.Shape),
		Skincare:     recommend.Skincare(profile.Tone, profile.Texture, profile.Undertone),
		Timestamp:    time.Now().Unix(),
	}
	if bodyOut.measurements != nil {
		rounded := bodyOut.measurements.Rounded()
		result.Measurements = &rounded
	}

	duration := time.Since(startTime)
	result.DurationMS = duration.Milliseconds()
	a.record(ctx, nil, duration)
	if a.metrics != nil {
		a.metrics.RecordShape(ctx, result.BodyShape.Shape.String())
	}

	a.logger.Info("analysis completed",
		zap.String("id", result.ID),
		zap.Stringer("tone", profile.Tone),
		zap.Stringer("undertone", profile.Undertone),
		zap.Stringer("texture", profile.Texture),
		zap.Stringer("body_shape", result.BodyShape.Shape),
		zap.Bool("body_detected", result.BodyDetected),
		zap.Duration("duration", duration))

	return result, nil
}

func (a *Analyzer) acquire(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.queueTimeout)
	defer cancel()

	select {
	case a.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return stageError(StageQueue, ErrQueueFull)
	}
}

func (a *Analyzer) record(ctx context.Context, err error, d time.Duration) {
	if a.metrics == nil {
		return
	}
	if err == nil {
		a.metrics.RecordAnalysis(ctx, OutcomeSuccess, "", d)
		return
	}
	stage := "unknown"
	var ae *AnalysisError
	if errors.As(err, &ae) {
		stage = ae.Stage
	}
	a.metrics.RecordAnalysis(ctx, OutcomeFailure, stage, d)
}

type selfieAnalysis struct {
	profile skin.Profile
	face    image.Rectangle
}

func (a *Analyzer) analyzeSelfie(data []byte) (selfieAnalysis, error) {
	img, err := decodeImage(data)
	if err != nil {
		return selfieAnalysis{}, stageError(StageDecodeSelfie, err)
	}
	defer img.Close()

	faces, err := a.faces.Detect(img)
	if err != nil {
		return selfieAnalysis{}, stageError(StageFaceDetect, err)
	}
	face, ok := LargestFace(faces)
	if !ok {
		return selfieAnalysis{}, stageError(StageFaceDetect, ErrNoFaceDetected)
	}

	box := PadFace(face.Box, a.facePadding, image.Rect(0, 0, img.Cols(), img.Rows()))
	if box.Empty() {
		return selfieAnalysis{}, stageError(StageFaceDetect, ErrNoFaceDetected)
	}
	region := img.Region(box)
	crop := region.Clone()
	region.Close()
	defer crop.Close()

	a.logger.Debug("face detected",
		zap.Int("faces", len(faces)),
		zap.Int("x", box.Min.X),
		zap.Int("y", box.Min.Y),
		zap.Int("width", box.Dx()),
		zap.Int("height", box.Dy()))

	if a.debugFacePath != "" {
		if !gocv.IMWrite(a.debugFacePath, crop) {
			a.logger.Warn("failed to write face crop", zap.String("path", a.debugFacePath))
		}
	}

	skinImg, mask := a.extractor.Extract(crop)
	defer skinImg.Close()
	defer mask.Close()

	sample, err := DominantColor(skinImg, mask, a.clusterer, dominantClusters)
	if err != nil {
		return selfieAnalysis{}, stageError(StageSkinSignal, err)
	}
	value, lightness, err := ColorViews(sample)
	if err != nil {
		return selfieAnalysis{}, stageError(StageSkinSignal, err)
	}

	profile := skin.NewProfile(sample, value, lightness, TextureScore(crop))
	return selfieAnalysis{profile: profile, face: box}, nil
}

type bodyAnalysis struct {
	measurements *body.Measurements
	shape        body.Classification
}

func (a *Analyzer) analyzeBody(data []byte) (bodyAnalysis, error) {
	img, err := decodeImage(data)
	if err != nil {
		return bodyAnalysis{}, stageError(StageDecodeBody, err)
	}
	defer img.Close()

	var landmarks body.LandmarkSet
	if a.poses != nil {
		landmarks, err = a.poses.Detect(img)
		if err != nil {
			return bodyAnalysis{}, stageError(StagePoseDetect, err)
		}
	}

	m, err := body.Measure(landmarks, img.Cols(), img.Rows())
	if err != nil {
		// body signal problems degrade to Average
		a.logger.Warn("body measurements unavailable", zap.Error(err))
		m = nil
	}

	shape, err := body.Classify(m)
	if err != nil {
		a.logger.Warn("body classification degraded", zap.Error(err))
		m = nil
	}
	return bodyAnalysis{measurements: m, shape: shape}, nil
}

func decodeImage(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.Mat{}, ErrUnreadableImage
	}
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, ErrUnreadableImage
	}
	return img, nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

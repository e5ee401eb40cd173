package service

import (
	"errors"
	"fmt"

	"github.com/Devayan28/Outfitron/body"
)

var (
	// ErrUnreadableImage means an input could not be decoded.
	ErrUnreadableImage = errors.New("image could not be decoded")
	// ErrNoFaceDetected means the selfie contains no face. Fatal for an analysis.
	ErrNoFaceDetected = errors.New("no face detected in selfie")
	// ErrNoSkinSignal means no usable skin pixels were left. Fatal for an analysis.
	ErrNoSkinSignal = errors.New("no skin pixels to sample")
	// ErrNoBodySignal means the pose detector found no person. The body branch
	// degrades to the Average shape.
	ErrNoBodySignal = body.ErrNoBodySignal
	// ErrQueueFull means no analysis slot became free before the queue timeout.
	ErrQueueFull = errors.New("analysis queue is full")
)

// Analysis stages reported by AnalysisError.
const (
	StageDecodeSelfie = "decode_selfie"
	StageDecodeBody   = "decode_body"
	StageFaceDetect   = "face_detect"
	StageSkinSignal   = "skin_signal"
	StageTexture      = "texture"
	StagePoseDetect   = "pose_detect"
	StageQueue        = "queue"
)

// AnalysisError annotates an analysis failure with the stage that produced it.
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &AnalysisError{Stage: stage, Err: err}
}

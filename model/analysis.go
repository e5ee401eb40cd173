package model

import (
	"image"

	"github.com/Devayan28/Outfitron/body"
	"github.com/Devayan28/Outfitron/recommend"
	"github.com/Devayan28/Outfitron/skin"
)

// AnalysisResult is the full styling report for one selfie/full-body pair.
type AnalysisResult struct {
	ID           string              `json:"id"`
	Key          string              `json:"key,omitempty"`
	Skin         SkinSection         `json:"skin"`
	BodyShape    body.Classification `json:"body_shape"`
	BodyDetected bool                `json:"body_detected"`
	Measurements *body.Measurements  `json:"measurements,omitempty"`
	Face         BBox                `json:"face"`
	Colors       []string            `json:"colors"`
	Clothing     recommend.Guidance  `json:"clothing"`
	Skincare     recommend.Routine   `json:"skincare"`
	Timestamp    int64               `json:"timestamp"`
	DurationMS   int64               `json:"duration_ms"`
}

// SkinSection is the serialised skin profile with the texture qualifier.
type SkinSection struct {
	skin.Profile
	TextureDescription string `json:"texture_description"`
	DominantColor      string `json:"dominant_color"`
}

// BBox is a pixel rectangle in the source image.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewBBox(r image.Rectangle) BBox {
	return BBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Cached  bool            `json:"cached"`
	Data    *AnalysisResult `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

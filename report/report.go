// Package report renders an analysis as a single raster image and as a text summary.
package report

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/recommend"
)

// Canvas layout in pixels.
const (
	canvasWidth  = 1200
	canvasHeight = 1000

	swatchCount = 5
	swatchSize  = 30
	topItems    = 3
)

var (
	background  = gocv.NewScalar(240, 240, 240, 0)
	ink         = color.RGBA{A: 255}
	faceOutline = color.RGBA{G: 200, A: 255}

	selfieRect = image.Rect(50, 50, 450, 550)
	bodyRect   = image.Rect(650, 50, 1050, 850)
)

// ErrNoImage means one of the source photos could not be decoded.
var ErrNoImage = errors.New("report: source image could not be decoded")

// Render draws the report canvas: both photos, the skin section with palette
// swatches, the body section with measurements, clothing highlights and the
// skincare routine. The caller owns the returned Mat.
func Render(selfie, fullBody gocv.Mat, result *model.AnalysisResult) (gocv.Mat, error) {
	if selfie.Empty() || fullBody.Empty() {
		return gocv.Mat{}, ErrNoImage
	}

	canvas := gocv.NewMatWithSizeFromScalar(background, canvasHeight, canvasWidth, gocv.MatTypeCV8UC3)
	paste(&canvas, selfie, selfieRect)
	paste(&canvas, fullBody, bodyRect)
	drawFaceBox(&canvas, selfie, result.Face)

	drawSkin(&canvas, result)
	drawBody(&canvas, result)
	drawRecommendations(&canvas, result)
	drawSkincare(&canvas, result)

	return canvas, nil
}

// WriteFile decodes both photos, renders the report and writes it to path.
func WriteFile(path string, selfie, fullBody []byte, result *model.AnalysisResult) error {
	selfieImg, err := gocv.IMDecode(selfie, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoImage, err)
	}
	defer selfieImg.Close()
	bodyImg, err := gocv.IMDecode(fullBody, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoImage, err)
	}
	defer bodyImg.Close()

	canvas, err := Render(selfieImg, bodyImg, result)
	if err != nil {
		return err
	}
	defer canvas.Close()

	if !gocv.IMWrite(path, canvas) {
		return fmt.Errorf("failed to write report to %s", path)
	}
	return nil
}

func paste(canvas *gocv.Mat, img gocv.Mat, at image.Rectangle) {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, at.Size(), 0, 0, gocv.InterpolationArea)

	region := canvas.Region(at)
	defer region.Close()
	resized.CopyTo(&region)
}

// drawFaceBox outlines the analysed face crop inside the resized selfie.
func drawFaceBox(canvas *gocv.Mat, selfie gocv.Mat, face model.BBox) {
	if face.Width <= 0 || face.Height <= 0 {
		return
	}
	sx := float64(selfieRect.Dx()) / float64(selfie.Cols())
	sy := float64(selfieRect.Dy()) / float64(selfie.Rows())
	r := face.Rect()
	box := image.Rect(
		selfieRect.Min.X+int(float64(r.Min.X)*sx),
		selfieRect.Min.Y+int(float64(r.Min.Y)*sy),
		selfieRect.Min.X+int(float64(r.Max.X)*sx),
		selfieRect.Min.Y+int(float64(r.Max.Y)*sy),
	)
	gocv.Rectangle(canvas, box, faceOutline, 2)
}

func text(canvas *gocv.Mat, s string, x, y int, scale float64, thickness int) {
	gocv.PutText(canvas, s, image.Pt(x, y), gocv.FontHersheySimplex, scale, ink, thickness)
}

func drawSkin(canvas *gocv.Mat, result *model.AnalysisResult) {
	s := result.Skin
	text(canvas, "SKIN ANALYSIS", 500, 50, 1, 2)
	text(canvas, "Tone: "+s.Tone.String(), 500, 100, 0.7, 2)
	text(canvas, "Undertone: "+s.Undertone.String(), 500, 140, 0.7, 2)
	text(canvas, fmt.Sprintf("Texture: %s (%s)", s.Texture, s.TextureDescription), 500, 180, 0.7, 2)

	for i, name := range firstN(result.Colors, swatchCount) {
		top := 220 + i*40
		swatch := image.Rect(500, top, 500+swatchSize, top+swatchSize)
		gocv.Rectangle(canvas, swatch, recommend.Swatch(name), -1)
		text(canvas, name, 540, top+20, 0.6, 1)
	}
}

func drawBody(canvas *gocv.Mat, result *model.AnalysisResult) {
	text(canvas, "BODY ANALYSIS", 50, 600, 1, 2)
	text(canvas, "Type: "+result.BodyShape.Shape.String(), 70, 650, 0.7, 2)

	m := result.Measurements
	if m == nil {
		text(canvas, "No body landmarks detected", 70, 700, 0.6, 1)
		return
	}
	text(canvas, "Measurements:", 70, 700, 0.6, 1)
	lines := []string{
		fmt.Sprintf("Shoulder: %.1fpx", m.Shoulder),
		fmt.Sprintf("Waist (from hip landmarks): %.1fpx", m.Waist),
		fmt.Sprintf("Hips: %.1fpx", m.Hips),
		fmt.Sprintf("Shoulder/Hip Ratio: %.2f", m.ShoulderHipRatio),
		fmt.Sprintf("Waist/Hip Ratio: %.2f", m.WaistHipRatio),
	}
	for i, line := range lines {
		text(canvas, line, 90, 730+i*30, 0.5, 1)
	}
}

func drawRecommendations(canvas *gocv.Mat, result *model.AnalysisResult) {
	text(canvas, "TOP RECOMMENDATIONS:", 500, 600, 0.8, 2)
	y := 650
	for _, c := range result.Clothing.Highlights(topItems) {
		text(canvas, c.Name+":", 520, y, 0.6, 1)
		y += 30
		for _, item := range c.Items {
			text(canvas, "- "+item, 540, y, 0.5, 1)
			y += 25
		}
	}
}

func drawSkincare(canvas *gocv.Mat, result *model.AnalysisResult) {
	text(canvas, "SKINCARE ROUTINE", 500, 800, 0.8, 2)
	y := 850
	for _, step := range result.Skincare {
		text(canvas, step.Name+": "+step.Text, 520, y, 0.5, 1)
		y += 30
	}
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

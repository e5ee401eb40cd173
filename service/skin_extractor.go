package service

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// SkinExtractor isolates skin coloured pixels inside a face crop.
type SkinExtractor struct {
	hsvLower, hsvUpper     gocv.Scalar
	ycrcbLower, ycrcbUpper gocv.Scalar
	kernelSize             int
	openIterations         int
}

func NewSkinExtractor() *SkinExtractor {
	return &SkinExtractor{
		hsvLower:       gocv.NewScalar(0, 20, 70, 0),
		hsvUpper:       gocv.NewScalar(30, 255, 255, 0),
		ycrcbLower:     gocv.NewScalar(0, 130, 70, 0),
		ycrcbUpper:     gocv.NewScalar(255, 180, 135, 0),
		kernelSize:     5,
		openIterations: 2,
	}
}

// Extract returns the face crop with non-skin pixels zeroed and the binary mask
// used for it. The mask is never empty: when thresholding finds nothing, a filled
// ellipse over the central third of the crop is used instead.
// Both returned Mats must be closed by the caller.
func (se *SkinExtractor) Extract(face gocv.Mat) (skin gocv.Mat, mask gocv.Mat) {
	mask = se.DetectSkin(face)
	if gocv.CountNonZero(mask) == 0 {
		mask.Close()
		mask = centralEllipseMask(face.Rows(), face.Cols())
	}

	skin = gocv.NewMat()
	gocv.BitwiseAndWithMask(face, face, &skin, mask)
	return skin, mask
}

// DetectSkin intersects an HSV and a YCrCb skin threshold and removes speckles
// with a morphological opening.
func (se *SkinExtractor) DetectSkin(img gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	gocv.CvtColor(img, &ycrcb, gocv.ColorBGRToYCrCb)

	hsvMask := gocv.NewMat()
	defer hsvMask.Close()
	gocv.InRangeWithScalar(hsv, se.hsvLower, se.hsvUpper, &hsvMask)

	ycrcbMask := gocv.NewMat()
	defer ycrcbMask.Close()
	gocv.InRangeWithScalar(ycrcb, se.ycrcbLower, se.ycrcbUpper, &ycrcbMask)

	combined := gocv.NewMat()
	defer combined.Close()
	gocv.BitwiseAnd(hsvMask, ycrcbMask, &combined)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: se.kernelSize, Y: se.kernelSize})
	defer kernel.Close()

	opened := gocv.NewMat()
	gocv.MorphologyExWithParams(combined, &opened, gocv.MorphOpen, kernel, se.openIterations, gocv.BorderConstant)

	return opened
}

// centralEllipseMask draws a filled ellipse centred in a rows×cols mask with
// semi-axes of a third of each dimension.
func centralEllipseMask(rows, cols int) gocv.Mat {
	mask := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)
	center := image.Point{X: cols / 2, Y: rows / 2}
	axes := image.Point{X: cols / 3, Y: rows / 3}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.Ellipse(&mask, center, axes, 0, 0, 360, white, -1)
	return mask
}

package service

import (
	"image/color"

	"gocv.io/x/gocv"
)

// TextureScore returns the variance of the Laplacian of the greyscale image.
// Higher values mean a coarser surface.
func TextureScore(img gocv.Mat) float64 {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	stddev := gocv.NewMat()
	defer mean.Close()
	defer stddev.Close()
	gocv.MeanStdDev(laplacian, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	return sd * sd
}

// ColorViews returns the HSV value channel and the 8-bit Lab lightness channel
// of one colour, both on a 0-255 scale.
func ColorViews(c color.RGBA) (value, lightness float64, err error) {
	bgr := []byte{c.B, c.G, c.R}

	hsv, err := convertPixels(bgr, gocv.ColorBGRToHSV)
	if err != nil {
		return 0, 0, err
	}
	lab, err := convertPixels(bgr, gocv.ColorBGRToLab)
	if err != nil {
		return 0, 0, err
	}
	return float64(hsv[2]), float64(lab[0]), nil
}

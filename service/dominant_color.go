package service

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gocv.io/x/gocv"
)

// Cluster is one colour cluster: its centre and how many samples it holds.
type Cluster struct {
	Center [3]float32
	Count  int
}

// Clusterer groups colour samples into k clusters.
type Clusterer interface {
	Cluster(samples [][3]float32, k int) ([]Cluster, error)
}

// KMeansClusterer clusters with OpenCV k-means. Initial labels are assigned by
// sorting samples on their first channel and cutting them into k equal runs, so
// the result is reproducible for identical input.
type KMeansClusterer struct {
	MaxIterations int
	Epsilon       float64
	Attempts      int
}

func NewKMeansClusterer() *KMeansClusterer {
	return &KMeansClusterer{MaxIterations: 100, Epsilon: 0.2, Attempts: 1}
}

func (kc *KMeansClusterer) Cluster(samples [][3]float32, k int) ([]Cluster, error) {
	if len(samples) == 0 {
		return nil, ErrNoSkinSignal
	}
	if k > len(samples) {
		k = len(samples)
	}

	data := gocv.NewMatWithSize(len(samples), 3, gocv.MatTypeCV32F)
	defer data.Close()
	for i, s := range samples {
		for c := 0; c < 3; c++ {
			data.SetFloatAt(i, c, s[c])
		}
	}

	labels := gocv.NewMatWithSize(len(samples), 1, gocv.MatTypeCV32S)
	defer labels.Close()
	for i, l := range initialLabels(samples, k) {
		labels.SetIntAt(i, 0, int32(l))
	}

	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, kc.MaxIterations, kc.Epsilon)
	gocv.KMeans(data, k, &labels, criteria, kc.Attempts, gocv.KMeansUseInitialLabels, &centers)

	if centers.Rows() != k {
		return nil, fmt.Errorf("kmeans returned %d centers, want %d", centers.Rows(), k)
	}

	clusters := make([]Cluster, k)
	for i := range clusters {
		for c := 0; c < 3; c++ {
			clusters[i].Center[c] = centers.GetFloatAt(i, c)
		}
	}
	for i := 0; i < labels.Rows(); i++ {
		l := int(labels.GetIntAt(i, 0))
		if l >= 0 && l < k {
			clusters[l].Count++
		}
	}
	return clusters, nil
}

// initialLabels splits the samples, ordered by first channel, into k runs.
func initialLabels(samples [][3]float32, k int) []int {
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return samples[order[a]][0] < samples[order[b]][0]
	})

	labels := make([]int, len(samples))
	for rank, idx := range order {
		labels[idx] = rank * k / len(samples)
	}
	return labels
}

// largestCluster returns the cluster with the most members; ties keep the first.
func largestCluster(clusters []Cluster) (Cluster, bool) {
	if len(clusters) == 0 {
		return Cluster{}, false
	}
	best := clusters[0]
	for _, c := range clusters[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return best, true
}

// DominantColor finds the most common skin colour under mask. Pure black pixels
// are the masking sentinel and are skipped. Samples are clustered in 8-bit Lab
// space and the centre of the largest cluster is converted back to RGB.
func DominantColor(skin, mask gocv.Mat, clusterer Clusterer, k int) (color.RGBA, error) {
	bgr := maskedPixels(skin, mask)
	if len(bgr) == 0 {
		return color.RGBA{}, ErrNoSkinSignal
	}

	lab, err := convertPixels(bgr, gocv.ColorBGRToLab)
	if err != nil {
		return color.RGBA{}, err
	}

	samples := make([][3]float32, len(lab)/3)
	for i := range samples {
		samples[i] = [3]float32{float32(lab[i*3]), float32(lab[i*3+1]), float32(lab[i*3+2])}
	}

	clusters, err := clusterer.Cluster(samples, k)
	if err != nil {
		return color.RGBA{}, err
	}
	best, ok := largestCluster(clusters)
	if !ok {
		return color.RGBA{}, ErrNoSkinSignal
	}

	center := []byte{clampByte(best.Center[0]), clampByte(best.Center[1]), clampByte(best.Center[2])}
	out, err := convertPixels(center, gocv.ColorLabToBGR)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: out[2], G: out[1], B: out[0], A: 255}, nil
}

// maskedPixels returns the BGR bytes of every non-black pixel where mask is set.
func maskedPixels(img, mask gocv.Mat) []byte {
	var out []byte
	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < img.Cols(); x++ {
			if mask.GetUCharAt(y, x) == 0 {
				continue
			}
			px := img.GetVecbAt(y, x)
			if px[0] == 0 && px[1] == 0 && px[2] == 0 {
				continue
			}
			out = append(out, px[0], px[1], px[2])
		}
	}
	return out
}

// convertPixels runs an OpenCV colour conversion over packed 3-channel bytes.
func convertPixels(pixels []byte, code gocv.ColorConversionCode) ([]byte, error) {
	src, err := gocv.NewMatFromBytes(len(pixels)/3, 1, gocv.MatTypeCV8UC3, pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap pixels: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, code)
	return dst.ToBytes(), nil
}

func clampByte(v float32) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(float64(v)))))
}

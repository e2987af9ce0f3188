// Package ssim scores the structural similarity of two encoded images.
//
// Both images are converted to grayscale and resized to a common square canvas.
// The mean SSIM uses a 7x7 uniform window with sample covariance, K1=0.01,
// K2=0.03 and an 8-bit data range, averaged over pixels whose window lies
// fully inside the canvas.
package ssim

import (
	"context"
	"fmt"
	"image"

	"github.com/davidbz/skill4green/internal/observability"
)

const (
	windowSize = 7
	k1         = 0.01
	k2         = 0.03
	dataRange  = 255.0

	defaultImageSize = 512
	defaultMaxPixels = 1 << 26
)

// Oracle implements domain.SimilarityOracle.
type Oracle struct {
	size      int
	maxPixels int64
}

// NewOracle creates a new SSIM oracle.
func NewOracle(cfg *Config) *Oracle {
	size := defaultImageSize
	maxPixels := int64(defaultMaxPixels)
	if cfg != nil {
		if cfg.ImageSize >= windowSize {
			size = cfg.ImageSize
		}
		if cfg.MaxPixels > 0 {
			maxPixels = cfg.MaxPixels
		}
	}
	return &Oracle{size: size, maxPixels: maxPixels}
}

// Score returns the mean structural similarity of two encoded images in [0,1].
func (o *Oracle) Score(ctx context.Context, before, after []byte) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b, err := normalize(before, o.size, o.maxPixels)
	if err != nil {
		return 0, fmt.Errorf("before image: %w", err)
	}

	a, err := normalize(after, o.size, o.maxPixels)
	if err != nil {
		return 0, fmt.Errorf("after image: %w", err)
	}

	score := Mean(b, a)

	observability.FromContext(ctx).Debug("ssim computed",
		observability.Float64("score", score),
		observability.Int("size", o.size))

	return score, nil
}

// Mean computes the clamped mean SSIM of two equally sized grayscale images.
func Mean(x, y *image.Gray) float64 {
	w, h := x.Bounds().Dx(), x.Bounds().Dy()
	if w != y.Bounds().Dx() || h != y.Bounds().Dy() || w < windowSize || h < windowSize {
		return 0
	}

	sx, sy, sxx, syy, sxy := newIntegral(w, h), newIntegral(w, h), newIntegral(w, h), newIntegral(w, h), newIntegral(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			px := float64(x.Pix[row*x.Stride+col])
			py := float64(y.Pix[row*y.Stride+col])
			sx.add(col, row, px)
			sy.add(col, row, py)
			sxx.add(col, row, px*px)
			syy.add(col, row, py*py)
			sxy.add(col, row, px*py)
		}
	}

	const (
		n       = windowSize * windowSize
		covNorm = n / (n - 1.0)
		pad     = (windowSize - 1) / 2
		c1      = (k1 * dataRange) * (k1 * dataRange)
		c2      = (k2 * dataRange) * (k2 * dataRange)
	)

	var total float64
	var count int
	for row := pad; row < h-pad; row++ {
		for col := pad; col < w-pad; col++ {
			x0, y0, x1, y1 := col-pad, row-pad, col+pad+1, row+pad+1

			ux := sx.sum(x0, y0, x1, y1) / n
			uy := sy.sum(x0, y0, x1, y1) / n
			uxx := sxx.sum(x0, y0, x1, y1) / n
			uyy := syy.sum(x0, y0, x1, y1) / n
			uxy := sxy.sum(x0, y0, x1, y1) / n

			vx := covNorm * (uxx - ux*ux)
			vy := covNorm * (uyy - uy*uy)
			vxy := covNorm * (uxy - ux*uy)

			num := (2*ux*uy + c1) * (2*vxy + c2)
			den := (ux*ux + uy*uy + c1) * (vx + vy + c2)

			total += num / den
			count++
		}
	}

	return min(max(total/float64(count), 0), 1)
}

// integral is a summed-area table with a zero first row and column.
type integral struct {
	stride int
	data   []float64
}

func newIntegral(w, h int) *integral {
	return &integral{
		stride: w + 1,
		data:   make([]float64, (w+1)*(h+1)),
	}
}

// add must be called in row-major order.
func (t *integral) add(col, row int, v float64) {
	i := (row+1)*t.stride + col + 1
	t.data[i] = v + t.data[i-1] + t.data[i-t.stride] - t.data[i-t.stride-1]
}

// sum returns the total over [x0,x1) x [y0,y1).
func (t *integral) sum(x0, y0, x1, y1 int) float64 {
	return t.data[y1*t.stride+x1] - t.data[y0*t.stride+x1] - t.data[y1*t.stride+x0] + t.data[y0*t.stride+x0]
}

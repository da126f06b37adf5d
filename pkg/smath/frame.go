package smath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"github.com/lucasb-eyer/go-colorful"
)

// A Frame is a grid of float64 pixel values, e.g. a detector image or
// a synthetic star background model. The caller owns it; rendering
// and refinement routines only touch it via these operations.
type Frame struct {
	stride int
	values []float64
}

func NewFrame(w, h int) *Frame {
	return &Frame{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (f *Frame)NewFromThis() *Frame        { return NewFrame(f.Dx(), f.Dy()) }
func (f *Frame)Set(x, y int, v float64)    { f.values[f.stride*y + x] = v }
func (f *Frame)Get(x, y int) float64       { return f.values[f.stride*y + x] }
func (f *Frame)AddTo(x, y int, v float64)  { f.values[f.stride*y + x] += v }
func (f *Frame)Dx() int                    { return f.stride }
func (f *Frame)Dy() int                    { return len(f.values) / f.stride }

func (f *Frame)Copy() *Frame {
	g := Frame{stride: f.stride, values: make([]float64, len(f.values))}
	copy(g.values, f.values)
	return &g
}

func (f *Frame)Fill(v float64) *Frame {
	for i := range f.values {
		f.values[i] = v
	}
	return f
}

// Add accumulates g into f, elementwise. Shapes must match.
func (f *Frame)Add(g *Frame) {
	for i := range f.values {
		f.values[i] += g.values[i]
	}
}

// Sub removes g from f, elementwise. Shapes must match.
func (f *Frame)Sub(g *Frame) {
	for i := range f.values {
		f.values[i] -= g.values[i]
	}
}

// AddScaled accumulates scale*g into f, elementwise.
func (f *Frame)AddScaled(g *Frame, scale float64) {
	for i := range f.values {
		f.values[i] += scale * g.values[i]
	}
}

// AddWindow accumulates scale*src into f over a clipped window:
// f[xi0+i, yi0+j] += scale * src[xj0+i, yj0+j] for i<w, j<h.
// The indices come from FindInds, so no further bounds checking.
func (f *Frame)AddWindow(src *Frame, scale float64, xi0, yi0, xj0, yj0, w, h int) {
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			f.values[f.stride*(yi0+j) + xi0+i] += scale * src.values[src.stride*(yj0+j) + xj0+i]
		}
	}
}

func (f *Frame)Sum() float64 {
	sum := 0.0
	for i := range f.values {
		sum += f.values[i]
	}
	return sum
}

func (f *Frame)Max() float64 {
	max := math.Inf(-1)
	for i := range f.values {
		if f.values[i] > max { max = f.values[i] }
	}
	return max
}

// ColSums collapses the frame along y, giving one sum per column.
// This is the shape a smearing trail comes in.
func (f *Frame)ColSums() []float64 {
	sums := make([]float64, f.Dx())
	for y := 0; y < f.Dy(); y++ {
		for x := 0; x < f.Dx(); x++ {
			sums[x] += f.Get(x, y)
		}
	}
	return sums
}

// EqZero returns the mask of pixels left untouched, true where the
// frame is exactly zero.
func (f *Frame)EqZero() *BoolGrid {
	bg := NewBoolGrid(f.Dx(), f.Dy())
	for i := range f.values {
		bg.values[i] = f.values[i] == 0
	}
	return bg
}

func (f *Frame)Stats() string {
	min := math.MaxFloat64
	max := -1.0 * min

	for i := range f.values {
		if f.values[i] > max { max = f.values[i] }
		if f.values[i] < min { min = f.values[i] }
	}
	return fmt.Sprintf("frame[%dx%d, vals{%g,%g}, sum %g]", f.Dx(), f.Dy(), min, max, f.Sum())
}

// ToImg saves a false-color heatmap, log-scaled over the range of
// values in the frame so faint star wings stay visible.
func (f *Frame)ToImg(title, filename string) error {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for i := range f.values {
		if f.values[i] > max { max = f.values[i] }
		if f.values[i] < min { min = f.values[i] }
	}
	span := math.Log1p(max - min)
	if span == 0 { span = 1 }

	img := image.NewRGBA(image.Rectangle{Max: image.Point{f.Dx(), f.Dy()}})
	for y := 0; y < f.Dy(); y++ {
		for x := 0; x < f.Dx(); x++ {
			frac := math.Log1p(f.Get(x, y) - min) / span
			// Blue (cold) through to yellow (hot)
			c := colorful.Hsv(240.0 - 180.0*frac, 1.0, 0.15 + 0.85*frac)
			r, g, b := c.RGB255()
			img.Set(x, y, color.RGBA{r, g, b, 0xFF})
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 10, 14)
	return dc.SavePNG(filename)
}

// A BoolGrid is a frame-shaped mask. Polarity is up to the producer;
// the ones made here are true where a pixel is clear/usable.
type BoolGrid struct {
	stride int
	values []bool
}

func NewBoolGrid(w, h int) *BoolGrid {
	return &BoolGrid{
		stride: w,
		values: make([]bool, w*h),
	}
}

func (bg *BoolGrid)Set(x, y int, v bool) { bg.values[bg.stride*y + x] = v }
func (bg *BoolGrid)Get(x, y int) bool    { return bg.values[bg.stride*y + x] }
func (bg *BoolGrid)Dx() int              { return bg.stride }
func (bg *BoolGrid)Dy() int              { return len(bg.values) / bg.stride }

func (bg *BoolGrid)Fill(v bool) *BoolGrid {
	for i := range bg.values {
		bg.values[i] = v
	}
	return bg
}

func (bg *BoolGrid)CountTrue() int {
	n := 0
	for i := range bg.values {
		if bg.values[i] { n++ }
	}
	return n
}

// Package psf has evaluable point-spread-function models: a concrete
// grid-sampled model, the blur-averaging MultiPSF composite, an
// in-memory reference library, and PCA reduction of library entries
// down to one representative model.
package psf

import(
	"fmt"
	"math"
)

// An Evaluator is anything that can be drawn as a PSF. Eval returns
// intensity over pixel offsets from the PSF center: with grid=true
// the outer product of xs and ys (len(ys) rows by len(xs) cols), with
// grid=false the pointwise pairing as a single row. circular requests
// a circular cutoff at the model's own footprint radius. Norm is the
// model's flux normalization, the sum over the integer pixel grid.
//
// Evaluators are deterministic and read-only, so one instance can be
// shared across all the stars in a temperature bin.
type Evaluator interface {
	Eval(xs, ys []float64, grid, circular bool) [][]float64
	Norm() float64
}

// A GridPSF is a PSF sampled on a regular, oversampled square grid,
// evaluated anywhere by Catmull-Rom bicubic interpolation. Outside
// the sampled square it is zero.
type GridPSF struct {
	grid   [][]float64
	half   int     // samples from center to edge; side = 2*half+1
	osamp  float64 // samples per detector pixel
	radius float64 // footprint radius, pixels
	norm   float64
}

func NewGridPSF(grid [][]float64, osamp float64) (*GridPSF, error) {
	n := len(grid)
	if n == 0 || n%2 == 0 {
		return nil, fmt.Errorf("psf grid side must be odd and non-zero, got %d", n)
	}
	for _, row := range grid {
		if len(row) != n {
			return nil, fmt.Errorf("psf grid is %dx%d, want square", n, len(row))
		}
	}
	if osamp <= 0 {
		return nil, fmt.Errorf("psf oversampling must be positive, got %v", osamp)
	}

	p := &GridPSF{
		grid:   grid,
		half:   (n - 1) / 2,
		osamp:  osamp,
		radius: float64((n-1)/2) / osamp,
	}

	// Normalization: the flux a fscale=1 star contributes, summed over
	// whole detector pixels inside the footprint.
	ir := int(p.radius)
	for y := -ir; y <= ir; y++ {
		for x := -ir; x <= ir; x++ {
			p.norm += p.at(float64(x), float64(y), true)
		}
	}
	return p, nil
}

func (p *GridPSF)Norm() float64   { return p.norm }
func (p *GridPSF)Radius() float64 { return p.radius }

func (p *GridPSF)Eval(xs, ys []float64, grid, circular bool) [][]float64 {
	if grid {
		out := make([][]float64, len(ys))
		for j, y := range ys {
			row := make([]float64, len(xs))
			for i, x := range xs {
				row[i] = p.at(x, y, circular)
			}
			out[j] = row
		}
		return out
	}

	row := make([]float64, len(xs))
	for i := range xs {
		row[i] = p.at(xs[i], ys[i], circular)
	}
	return [][]float64{row}
}

// at interpolates the sampled grid at pixel offset (x,y).
func (p *GridPSF)at(x, y float64, circular bool) float64 {
	if circular && x*x+y*y > p.radius*p.radius {
		return 0
	}

	u := x*p.osamp + float64(p.half)
	v := y*p.osamp + float64(p.half)
	n := 2*p.half + 1
	if u < 0 || u > float64(n-1) || v < 0 || v > float64(n-1) {
		return 0
	}

	ui, vi := int(math.Floor(u)), int(math.Floor(v))
	uf, vf := u-float64(ui), v-float64(vi)

	clamp := func(i int) int {
		if i < 0 { return 0 }
		if i >= n { return n - 1 }
		return i
	}

	// Catmull-Rom in y along each of the four x-neighbor columns, then in x
	var cols [4]float64
	for di := -1; di <= 2; di++ {
		ci := clamp(ui + di)
		var rows [4]float64
		for dj := -1; dj <= 2; dj++ {
			rows[dj+1] = p.grid[clamp(vi+dj)][ci]
		}
		cols[di+1] = catmullRom(rows, vf)
	}
	val := catmullRom(cols, uf)
	if val < 0 {
		val = 0 // interpolation overshoot below zero is unphysical
	}
	return val
}

func catmullRom(p [4]float64, t float64) float64 {
	return 0.5 * (2*p[1] +
		t*(p[2]-p[0]+
			t*(2*p[0]-5*p[1]+4*p[2]-p[3]+
				t*(3*p[1]-3*p[2]+p[3]-p[0]))))
}

// GaussianGrid samples a circular Gaussian PSF of width sigma pixels
// onto a grid covering +-halfPx pixels at osamp samples per pixel.
// Handy for tests and demo fields; flight PSFs come from a Library.
func GaussianGrid(halfPx int, osamp, sigma float64) [][]float64 {
	half := int(float64(halfPx) * osamp)
	n := 2*half + 1
	grid := make([][]float64, n)
	for j := 0; j < n; j++ {
		grid[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			dx := float64(i-half) / osamp
			dy := float64(j-half) / osamp
			grid[j][i] = math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
		}
	}
	return grid
}

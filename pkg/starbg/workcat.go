package starbg

import(
	"math"

	"github.com/abworrall/starbg/pkg/smath"
)

// A WorkCat is the per-frame working view of the catalog: positions
// rolled to this frame's angle and offset to the target's detector
// center, per-star blur sample offsets, and per-star fitted kernel
// state left behind by refinement. Created fresh per frame; the
// shared kernel offset grid KX/KY is filled in by the refiner.
type WorkCat struct {
	Catsize int
	X, Y    []float64   // detector coordinates, pixels
	Fscale  []float64   // relative flux; refinement may rescale
	Dxs     [][]float64 // blur sample offsets, one slice per star
	Dys     [][]float64

	Fitted []bool      // star has been refined; use Coeffs when rendering
	Coeffs [][]float64 // fitted kernel coefficients, normalized to sum 1
	KX, KY []float64   // kernel offset grid shared by all fitted stars
}

// MakeWorkCat builds the working catalog for a frame taken at
// rollDeg, with the spacecraft rolling through blurDeg during the
// exposure. (x0,y0) is the target's detector position. Stars beyond
// maxrad pixels are dropped.
//
// The blur arc each star traces is discretized into an odd number of
// evenly spaced sub-angles, enough to sample it about every
// cfg.BlurResolution pixels; a star near the rotation center gets a
// single zero offset, i.e. no blur.
func (c *Catalog)MakeWorkCat(x0, y0, rollDeg, blurDeg, maxrad float64) *WorkCat {
	x, y := c.RotateCat(rollDeg, maxrad)
	nstars := len(x)

	wc := &WorkCat{
		Catsize: nstars,
		X:       make([]float64, nstars),
		Y:       make([]float64, nstars),
		Fscale:  make([]float64, nstars),
		Dxs:     make([][]float64, nstars),
		Dys:     make([][]float64, nstars),
		Fitted:  make([]bool, nstars),
		Coeffs:  make([][]float64, nstars),
	}

	for n := 0; n < nstars; n++ {
		wc.X[n] = x[n] + x0
		wc.Y[n] = y[n] + y0
		wc.Fscale[n] = c.Fscale[n]

		// Arc length traced during the exposure, in pixels, sets the
		// number of blur samples. Always odd so the unblurred position
		// is one of them.
		r := math.Hypot(x[n], y[n])
		numRes := 0.5 * blurDeg * math.Pi / 180.0 * r / c.cfg.BlurResolution
		nSamp := 2*int(numRes) + 1
		if nSamp <= 2 {
			wc.Dxs[n] = []float64{0}
			wc.Dys[n] = []float64{0}
			continue
		}

		dxs := make([]float64, nSamp)
		dys := make([]float64, nSamp)
		for i := 0; i < nSamp; i++ {
			frac := -1.0 + 2.0*float64(i)/float64(nSamp-1)
			rx, ry := smath.RotatePoint(x[n], y[n], 0.5*blurDeg*frac)
			dxs[i] = rx - x[n]
			dys[i] = ry - y[n]
		}
		wc.Dxs[n] = dxs
		wc.Dys[n] = dys
	}

	return wc
}

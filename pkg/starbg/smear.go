package starbg

import(
	"github.com/abworrall/starbg/pkg/smath"
)

// Image renders the background field directly from the static
// catalog at a roll angle, without building a working catalog (so no
// rotational blur and no fitted kernels). (x0,y0) is the target's
// detector position. singleID >= 0 selects one star only; skip and
// limFlux work as in RenderFrame.
func (c *Catalog)Image(x0, y0, rollDeg float64, w, h int, skip map[int]bool,
	limFlux float64, singleID int) *smath.Frame {

	dx, dy := c.RotateCat(rollDeg, 0)
	frame := smath.NewFrame(w, h)

	first, last := 0, c.Size()
	if singleID >= 0 {
		first, last = singleID, singleID+1
	}

	for n := first; n < last; n++ {
		if skip[n] || c.Fscale[n] < limFlux {
			continue
		}

		rad := Radius(c.Fscale[n])
		i0, i1, j0, j1, ok := smath.FindAreaInds(x0+dx[n], y0+dy[n], w, h, rad)
		if !ok {
			continue
		}

		ddx := make([]float64, i1-i0)
		ddy := make([]float64, j1-j0)
		for i := range ddx {
			ddx[i] = float64(i0+i) - x0 - dx[n]
		}
		for j := range ddy {
			ddy[j] = float64(j0+j) - y0 - dy[n]
		}

		vals := c.PSFs[c.PSFIDs[n]].Eval(ddx, ddy, true, false)
		rad2 := float64(rad * rad)
		for j := range ddy {
			for i := range ddx {
				if ddx[i]*ddx[i]+ddy[j]*ddy[j] > rad2 {
					continue
				}
				frame.AddTo(i0+i, j0+j, c.Fscale[n]*vals[j][i])
			}
		}
	}
	return frame
}

// Smear computes the smearing trail for the whole field, target
// included: the column-collapsed star image, one value per detector
// column, which the caller can expand into a 1D streak correction.
func (c *Catalog)Smear(x0, y0, rollDeg float64, w, h int, limFlux float64) []float64 {
	return c.Image(x0, y0, rollDeg, w, h, nil, limFlux, -1).ColSums()
}

// Package psffit fits PSF-shaped models to a residual frame by
// weighted linear least squares. The fit basis is each supplied PSF
// evaluated on a small grid of sub-pixel kernel offsets, so the
// solution can absorb centroid error and mild shape mismatch as well
// as amplitude.
package psffit

import(
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/starbg/pkg/psf"
	"github.com/abworrall/starbg/pkg/smath"
)

// KernelOffsets returns the kernel offset grid for a given scale and
// radius: the points of the (2*rad+1)^2 integer grid inside a circle
// of radius rad, scaled by scl pixels, flattened row-major. rad=0
// gives the single zero offset (a pure amplitude fit).
func KernelOffsets(scl float64, rad int) (kx, ky []float64) {
	for j := -rad; j <= rad; j++ {
		for i := -rad; i <= rad; i++ {
			if i*i+j*j <= rad*rad {
				kx = append(kx, scl*float64(i))
				ky = append(ky, scl*float64(j))
			}
		}
	}
	return kx, ky
}

// Fit solves for kernel coefficients that best reproduce data around
// (xc,yc), weighting each pixel by its inverse noise. Pixels outside
// fitRad of the center, masked out, or with non-positive noise are
// excluded. bgFit >= 0 adds a constant background term to the fit;
// -1 disables it.
//
// Returns the reconstructed star image as a full-shape frame windowed
// at defRad (ready to add straight into a model buffer), the fitted
// background, the per-basis kernel coefficient vectors, and the
// per-basis coefficient sums. A rank-deficient system or a window
// with too few usable pixels is an error.
func Fit(basis []psf.Evaluator, data, noise *smath.Frame, mask *smath.BoolGrid,
	xc, yc float64, fitRad, defRad int, krnScl float64, krnRad int,
	bgFit int) (*smath.Frame, float64, [][]float64, []float64, error) {

	w, h := data.Dx(), data.Dy()
	kx, ky := KernelOffsets(krnScl, krnRad)
	nk := len(kx)
	ncols := len(basis) * nk
	if bgFit >= 0 {
		ncols++
	}

	i0, i1, j0, j1, ok := smath.FindAreaInds(xc, yc, w, h, fitRad)
	if !ok {
		return nil, 0, nil, nil, fmt.Errorf("fit window at (%.1f,%.1f) is entirely off frame", xc, yc)
	}

	// Gather the usable pixels
	var dxs, dys, vals, wts []float64
	rad2 := float64(fitRad * fitRad)
	for y := j0; y < j1; y++ {
		for x := i0; x < i1; x++ {
			dx := float64(x) - xc
			dy := float64(y) - yc
			if dx*dx+dy*dy > rad2 {
				continue
			}
			if mask != nil && !mask.Get(x, y) {
				continue
			}
			sigma := noise.Get(x, y)
			if sigma <= 0 {
				continue
			}
			dxs = append(dxs, dx)
			dys = append(dys, dy)
			vals = append(vals, data.Get(x, y))
			wts = append(wts, 1.0/sigma)
		}
	}
	if len(vals) < ncols {
		return nil, 0, nil, nil, fmt.Errorf("only %d usable pixels for %d fit terms at (%.1f,%.1f)",
			len(vals), ncols, xc, yc)
	}

	a := mat.NewDense(len(vals), ncols, nil)
	b := mat.NewDense(len(vals), 1, nil)
	for r := range vals {
		b.Set(r, 0, vals[r]*wts[r])
	}

	sx := make([]float64, len(dxs))
	sy := make([]float64, len(dys))
	for bi, bas := range basis {
		for k := 0; k < nk; k++ {
			for r := range dxs {
				sx[r] = dxs[r] - kx[k]
				sy[r] = dys[r] - ky[k]
			}
			row := bas.Eval(sx, sy, false, false)[0]
			for r := range row {
				a.Set(r, bi*nk+k, row[r]*wts[r])
			}
		}
	}
	if bgFit >= 0 {
		for r := range wts {
			a.Set(r, ncols-1, wts[r])
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, 0, nil, nil, fmt.Errorf("singular psf fit at (%.1f,%.1f): %v", xc, yc, err)
	}

	kmat := make([][]float64, len(basis))
	scales := make([]float64, len(basis))
	for bi := range basis {
		kmat[bi] = make([]float64, nk)
		for k := 0; k < nk; k++ {
			kmat[bi][k] = sol.At(bi*nk+k, 0)
			scales[bi] += kmat[bi][k]
		}
	}
	bg := 0.0
	if bgFit >= 0 {
		bg = sol.At(ncols-1, 0)
	}

	return reconstruct(w, h, basis, kmat, kx, ky, xc, yc, defRad), bg, kmat, scales, nil
}

// reconstruct renders the fitted star into a full-shape frame,
// windowed at defRad around the star center.
func reconstruct(w, h int, basis []psf.Evaluator, kmat [][]float64, kx, ky []float64,
	xc, yc float64, defRad int) *smath.Frame {

	frame := smath.NewFrame(w, h)
	x0i, y0i := int(xc), int(yc)
	x0f, y0f := xc-float64(x0i), yc-float64(y0i)
	xi0, xi1, xj0, _ := smath.FindInds(w, x0i, defRad)
	yi0, yi1, yj0, _ := smath.FindInds(h, y0i, defRad)
	if xi1 <= xi0 || yi1 <= yi0 {
		return frame
	}

	side := 2*defRad + 1
	win := smath.NewFrame(side, side)
	vx := make([]float64, side)
	vy := make([]float64, side)

	for bi, bas := range basis {
		for k := range kmat[bi] {
			if kmat[bi][k] == 0 {
				continue
			}
			for i := 0; i < side; i++ {
				vx[i] = float64(i-defRad) - x0f - kx[k]
				vy[i] = float64(i-defRad) - y0f - ky[k]
			}
			vals := bas.Eval(vx, vy, true, false)
			for j := 0; j < side; j++ {
				for i := 0; i < side; i++ {
					win.AddTo(i, j, kmat[bi][k]*vals[j][i])
				}
			}
		}
	}

	// Trim the window to a disc
	rad2 := defRad * defRad
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			dx, dy := i-defRad, j-defRad
			if dx*dx+dy*dy > rad2 {
				win.Set(i, j, 0)
			}
		}
	}

	frame.AddWindow(win, 1.0, xi0, yi0, xj0, yj0, xi1-xi0, yi1-yi0)
	return frame
}

package starbg

import(
	"math"

	"github.com/abworrall/starbg/pkg/psf"
	"github.com/abworrall/starbg/pkg/smath"
)

// Radius picks a rendering footprint radius for a star from its
// relative flux: bright contaminants have extended wings that need a
// big footprint, dim ones are cheap. Clamped to [25,100] pixels and
// monotonic in flux.
func Radius(fscale float64) int {
	r := 25 + 75*(fscale-1e-4)/(1e-1-1e-4)
	if r < 25 { r = 25 }
	if r > 100 { r = 100 }
	return int(math.Ceil(r))
}

// RenderFrame renders every star in the working catalog into a fresh
// w-by-h frame: refined stars via their fitted kernel, the rest via
// their blurred PSF. Stars in skip, fainter than limFlux, or with no
// frame overlap contribute nothing.
func RenderFrame(w, h int, wc *WorkCat, psfIDs []int, psfs []psf.Evaluator,
	skip map[int]bool, limFlux float64) *smath.Frame {

	frame := smath.NewFrame(w, h)
	for n := 0; n < wc.Catsize; n++ {
		if skip[n] || wc.Fscale[n] < limFlux {
			continue
		}
		var coeffs []float64
		if wc.Fitted[n] {
			coeffs = wc.Coeffs[n]
		}
		addStar(frame, wc.Fscale[n], wc.X[n], wc.Y[n], wc.Dxs[n], wc.Dys[n],
			psfs[psfIDs[n]], coeffs, wc.KX, wc.KY, Radius(wc.Fscale[n]))
	}
	return frame
}

// RenderSingleStar renders one star alone, using the given model.
// This is how the refiner pulls a star's current contribution back
// out of the shared model buffer.
func RenderSingleStar(w, h int, wc *WorkCat, model psf.Evaluator, starID int) *smath.Frame {
	frame := smath.NewFrame(w, h)
	var coeffs []float64
	if wc.Fitted[starID] {
		coeffs = wc.Coeffs[starID]
	}
	addStar(frame, wc.Fscale[starID], wc.X[starID], wc.Y[starID],
		wc.Dxs[starID], wc.Dys[starID], model, coeffs, wc.KX, wc.KY,
		Radius(wc.Fscale[starID]))
	return frame
}

// RenderPSFMask builds the significant-contamination mask: a pixel is
// flagged when any star's footprint there exceeds level times that
// footprint's own peak. Returns true where the frame is clear.
func RenderPSFMask(w, h int, wc *WorkCat, psfIDs []int, psfs []psf.Evaluator,
	skip map[int]bool, radius int, level float64) *smath.BoolGrid {

	frame := smath.NewFrame(w, h)
	for n := 0; n < wc.Catsize; n++ {
		if skip[n] {
			continue
		}
		var coeffs []float64
		if wc.Fitted[n] {
			coeffs = wc.Coeffs[n]
		}
		addPSFMask(frame, wc.X[n], wc.Y[n], wc.Dxs[n], wc.Dys[n],
			psfs[psfIDs[n]], coeffs, wc.KX, wc.KY, radius, level)
	}
	return frame.EqZero()
}

// RenderCircMask is the cheap variant: flag every pixel within a
// fixed radius of any star center, PSF shape be damned. Returns true
// where the frame is clear.
func RenderCircMask(w, h int, wc *WorkCat, skip map[int]bool, radius float64) *smath.BoolGrid {
	frame := smath.NewFrame(w, h)
	for n := 0; n < wc.Catsize; n++ {
		if skip[n] {
			continue
		}
		addCircle(frame, wc.X[n], wc.Y[n], radius)
	}
	return frame.EqZero()
}

// addStar accumulates flux * footprint into the frame's clipped
// window. A footprint entirely off-frame is a silent no-op; that is
// normal for distant background stars.
func addStar(frame *smath.Frame, flux, x0, y0 float64, dxs, dys []float64,
	model psf.Evaluator, coeffs, kx, ky []float64, radius int) {

	x0i, y0i := int(x0), int(y0)
	x0f, y0f := x0-float64(x0i), y0-float64(y0i)
	xi0, xi1, xj0, _ := smath.FindInds(frame.Dx(), x0i, radius)
	yi0, yi1, yj0, _ := smath.FindInds(frame.Dy(), y0i, radius)
	if xi1 <= xi0 || yi1 <= yi0 {
		return
	}

	var star *smath.Frame
	if coeffs == nil {
		star = psfImage(x0f, y0f, dxs, dys, model, radius)
	} else {
		star = psfFitImage(coeffs, kx, ky, x0f, y0f, dxs, dys, model, radius)
	}
	frame.AddWindow(star, flux, xi0, yi0, xj0, yj0, xi1-xi0, yi1-yi0)
}

func addPSFMask(frame *smath.Frame, x0, y0 float64, dxs, dys []float64,
	model psf.Evaluator, coeffs, kx, ky []float64, radius int, level float64) {

	x0i, y0i := int(x0), int(y0)
	x0f, y0f := x0-float64(x0i), y0-float64(y0i)
	xi0, xi1, xj0, _ := smath.FindInds(frame.Dx(), x0i, radius)
	yi0, yi1, yj0, _ := smath.FindInds(frame.Dy(), y0i, radius)
	if xi1 <= xi0 || yi1 <= yi0 {
		return
	}

	var star *smath.Frame
	if coeffs == nil {
		star = psfImage(x0f, y0f, dxs, dys, model, radius)
	} else {
		star = psfFitImage(coeffs, kx, ky, x0f, y0f, dxs, dys, model, radius)
	}

	thresh := level * star.Max()
	for j := yj0; j < yj0+(yi1-yi0); j++ {
		for i := xj0; i < xj0+(xi1-xi0); i++ {
			if star.Get(i, j) > thresh {
				frame.AddTo(xi0+i-xj0, yi0+j-yj0, 1)
			}
		}
	}
}

func addCircle(frame *smath.Frame, x0, y0, radius float64) {
	imRad := int(radius + 1)
	x0i, y0i := int(x0), int(y0)
	x0f, y0f := x0-float64(x0i), y0-float64(y0i)
	xi0, xi1, xj0, _ := smath.FindInds(frame.Dx(), x0i, imRad)
	yi0, yi1, yj0, _ := smath.FindInds(frame.Dy(), y0i, imRad)
	if xi1 <= xi0 || yi1 <= yi0 {
		return
	}

	rad2 := radius * radius
	for j := yj0; j < yj0+(yi1-yi0); j++ {
		for i := xj0; i < xj0+(xi1-xi0); i++ {
			dx := float64(i-imRad) - x0f
			dy := float64(j-imRad) - y0f
			if dx*dx+dy*dy <= rad2 {
				frame.AddTo(xi0+i-xj0, yi0+j-yj0, 1)
			}
		}
	}
}

// psfImage renders a blurred PSF over a 2*radius+1 square window.
// (x0f,y0f) is the star's fractional pixel offset from the window
// center.
func psfImage(x0f, y0f float64, dxs, dys []float64, model psf.Evaluator, radius int) *smath.Frame {
	side := 2*radius + 1
	vx := make([]float64, side)
	vy := make([]float64, side)
	for i := 0; i < side; i++ {
		vx[i] = float64(i-radius) - x0f
		vy[i] = float64(i-radius) - y0f
	}

	smear := psf.NewMultiPSF(model, dxs, dys)
	vals := smear.Eval(vx, vy, true, true)

	win := smath.NewFrame(side, side)
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			win.Set(i, j, vals[j][i])
		}
	}
	return win
}

// psfFitImage renders a refined star from its fitted kernel: the
// coefficient-weighted sum of the blurred PSF shifted to each kernel
// offset, cut to a disc at the window radius.
func psfFitImage(coeffs, kx, ky []float64, x0f, y0f float64, dxs, dys []float64,
	model psf.Evaluator, radius int) *smath.Frame {

	side := 2*radius + 1
	smear := psf.NewMultiPSF(model, dxs, dys)
	win := smath.NewFrame(side, side)
	vx := make([]float64, side)
	vy := make([]float64, side)

	for k := range coeffs {
		if coeffs[k] == 0 {
			continue
		}
		for i := 0; i < side; i++ {
			vx[i] = float64(i-radius) - x0f - kx[k]
			vy[i] = float64(i-radius) - y0f - ky[k]
		}
		vals := smear.Eval(vx, vy, true, false)
		for j := 0; j < side; j++ {
			for i := 0; i < side; i++ {
				win.AddTo(i, j, coeffs[k]*vals[j][i])
			}
		}
	}

	rad2 := radius * radius
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			dx, dy := i-radius, j-radius
			if dx*dx+dy*dy > rad2 {
				win.Set(i, j, 0)
			}
		}
	}
	return win
}

package starbg

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/abworrall/starbg/pkg/psf"
	"github.com/abworrall/starbg/pkg/psffit"
	"github.com/abworrall/starbg/pkg/smath"
)

// Refine improves the background model for the listed stars, one at a
// time and in the order given: pull the star's current contribution
// out of the model, fit its blurred PSF against what's left of the
// data, and put the fitted version back. The model buffer and the
// working catalog's flux scales and kernel coefficients are mutated
// in place.
//
// The order matters when footprints overlap - each star is fit
// against the residual left by the ones before it - so the caller's
// list fixes the result. Same order in, same model out.
//
// If a star's fit fails the error is returned with the model left in
// the subtracted state: that star's contribution is removed, not yet
// replaced. This loop is sequential by contract; run independent
// frames in parallel instead.
func Refine(starIDs []int, data, noise *smath.Frame, mask *smath.BoolGrid,
	model *smath.Frame, psfNorm float64, wc *WorkCat,
	psfIDs []int, psfs []psf.Evaluator, cfg Config) error {

	w, h := data.Dx(), data.Dy()
	kx, ky := psffit.KernelOffsets(cfg.KernelScale, cfg.KernelRadius)
	wc.KX, wc.KY = kx, ky

	for _, id := range starIDs {
		if id < 0 || id >= wc.Catsize {
			return fmt.Errorf("refine star %d: no such working catalog entry", id)
		}
		psfMod := psfs[psfIDs[id]]

		// 1. remove the star's current, possibly approximate, contribution
		starImg := RenderSingleStar(w, h, wc, psfMod, id)
		model.AddScaled(starImg, -psfNorm)

		// 2. what's left unexplained by the model
		fitFrame := data.Copy()
		fitFrame.Sub(model)

		// 3. stars near the frame edge have their core partly off-frame,
		// so they get their whole footprint; inner stars fit tightly
		psfRad := Radius(wc.Fscale[id])
		dist := math.Hypot(wc.X[id]-0.5*float64(w), wc.Y[id]-0.5*float64(h))
		fitRad := cfg.FitRadius
		if dist > 0.5*math.Min(float64(w), float64(h)) {
			fitRad = psfRad
		}

		// 4. fit this one star's blurred PSF against the residual
		smear := psf.NewMultiPSF(psfMod, wc.Dxs[id], wc.Dys[id])
		recon, _, kmat, _, err := psffit.Fit([]psf.Evaluator{smear}, fitFrame, noise, mask,
			wc.X[id], wc.Y[id], fitRad, psfRad, cfg.KernelScale, cfg.KernelRadius, -1)
		if err != nil {
			return fmt.Errorf("refine star %d: %w", id, err)
		}

		// 5. the fitted reconstruction becomes the star's contribution
		model.Add(recon)

		// 6. keep the fit as the star's permanent representation
		ksum := floats.Sum(kmat[0])
		if ksum == 0 {
			return fmt.Errorf("refine star %d: degenerate fit, kernel sums to zero", id)
		}
		wc.Fscale[id] = ksum / psfNorm
		coeffs := make([]float64, len(kmat[0]))
		for k := range coeffs {
			coeffs[k] = kmat[0][k] / ksum
		}
		wc.Coeffs[id] = coeffs
		wc.Fitted[id] = true
	}
	return nil
}

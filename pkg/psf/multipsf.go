package psf

// A MultiPSF wraps one PSF model with a set of sub-exposure offset
// samples, giving the effective PSF of a star smeared by spacecraft
// roll during the exposure: the mean of the model evaluated at each
// offset. The offset slices are borrowed from the working catalog
// entry that produced them, not copied.
type MultiPSF struct {
	Model    Evaluator
	Dxs, Dys []float64
}

func NewMultiPSF(model Evaluator, dxs, dys []float64) MultiPSF {
	return MultiPSF{Model: model, Dxs: dxs, Dys: dys}
}

func (m MultiPSF)Norm() float64 { return m.Model.Norm() }

func (m MultiPSF)Eval(xs, ys []float64, grid, circular bool) [][]float64 {
	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))

	shift := func(dst, src []float64, d float64) {
		for i := range src {
			dst[i] = src[i] - d
		}
	}

	shift(sx, xs, m.Dxs[0])
	shift(sy, ys, m.Dys[0])
	acc := m.Model.Eval(sx, sy, grid, circular)

	for n := 1; n < len(m.Dxs); n++ {
		shift(sx, xs, m.Dxs[n])
		shift(sy, ys, m.Dys[n])
		next := m.Model.Eval(sx, sy, grid, circular)
		for j := range acc {
			for i := range acc[j] {
				acc[j][i] += next[j][i]
			}
		}
	}

	invN := 1.0 / float64(len(m.Dxs))
	for j := range acc {
		for i := range acc[j] {
			acc[j][i] *= invN
		}
	}
	return acc
}

package psf

import(
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ReduceMedianEigen boils a set of library references down to one
// representative PSF model. The raw grids are flattened into a
// samples-by-pixels matrix, decomposed by SVD, and each sample's
// projection onto the leading numEigen components is taken; the
// median projection, reconstructed back to a grid, is the
// representative. With numEigen=1 this is essentially "the median
// PSF along the dominant mode", robust to a few oddball references.
func ReduceMedianEigen(refs []Ref, numEigen int) (*GridPSF, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("cannot reduce an empty set of psf references")
	}
	if numEigen < 1 {
		numEigen = 1
	}

	side := len(refs[0].Grid)
	osamp := refs[0].Osamp
	npix := side * side
	for i, r := range refs {
		if len(r.Grid) != side || r.Osamp != osamp {
			return nil, fmt.Errorf("psf ref %d has mismatched geometry (side %d vs %d)", i, len(r.Grid), side)
		}
	}

	x := mat.NewDense(len(refs), npix, nil)
	for s, r := range refs {
		for j := 0; j < side; j++ {
			for i := 0; i < side; i++ {
				x.Set(s, j*side+i, r.Grid[j][i])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd of psf reference matrix failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sv := svd.Values(nil)

	k := numEigen
	if k > len(sv) {
		k = len(sv)
	}

	// Per-sample weights on the leading components, then the median
	// weight per component.
	medw := make([]float64, k)
	for c := 0; c < k; c++ {
		ws := make([]float64, len(refs))
		for s := 0; s < len(refs); s++ {
			ws[s] = u.At(s, c) * sv[c]
		}
		sort.Float64s(ws)
		n := len(ws)
		if n%2 == 1 {
			medw[c] = ws[n/2]
		} else {
			medw[c] = 0.5 * (ws[n/2-1] + ws[n/2])
		}
	}

	grid := make([][]float64, side)
	for j := 0; j < side; j++ {
		grid[j] = make([]float64, side)
		for i := 0; i < side; i++ {
			val := 0.0
			for c := 0; c < k; c++ {
				val += medw[c] * v.At(j*side+i, c)
			}
			if val < 0 {
				val = 0
			}
			grid[j][i] = val
		}
	}

	return NewGridPSF(grid, osamp)
}

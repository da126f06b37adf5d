package psf

import(
	"math"
	"testing"
)

func TestReduceIdenticalRefsReproducesGrid(t *testing.T) {
	grid := GaussianGrid(5, 2, 1.5)
	refs := []Ref{}
	for i := 0; i < 5; i++ {
		refs = append(refs, Ref{Teff: 5500, Osamp: 2, Grid: grid})
	}

	p, err := ReduceMedianEigen(refs, 1)
	if err != nil {
		t.Fatalf("ReduceMedianEigen: %v", err)
	}

	for _, pt := range [][2]float64{{0, 0}, {1.5, 0}, {0, -2}} {
		got := p.Eval([]float64{pt[0]}, []float64{pt[1]}, false, false)[0][0]
		want := math.Exp(-(pt[0]*pt[0] + pt[1]*pt[1]) / (2 * 1.5 * 1.5))
		if math.Abs(got-want) > 1e-3 {
			t.Fatalf("reduced psf at %v = %v, want %v", pt, got, want)
		}
	}
}

func TestReduceRobustToOneOutlier(t *testing.T) {
	clean := GaussianGrid(5, 2, 1.5)
	wonky := GaussianGrid(5, 2, 3.0)
	refs := []Ref{
		{Osamp: 2, Grid: clean},
		{Osamp: 2, Grid: clean},
		{Osamp: 2, Grid: clean},
		{Osamp: 2, Grid: clean},
		{Osamp: 2, Grid: wonky},
	}

	p, err := ReduceMedianEigen(refs, 1)
	if err != nil {
		t.Fatalf("ReduceMedianEigen: %v", err)
	}
	// At r=3 the clean psf is ~0.135 and the wonky one ~0.607; the
	// reduction should stay close to the majority.
	got := p.Eval([]float64{3}, []float64{0}, false, false)[0][0]
	if got > 0.3 {
		t.Fatalf("reduced psf wing = %v, outlier dominated the reduction", got)
	}
}

func TestReduceRejectsBadInput(t *testing.T) {
	if _, err := ReduceMedianEigen(nil, 1); err == nil {
		t.Fatalf("empty ref set accepted")
	}
	refs := []Ref{
		{Osamp: 2, Grid: GaussianGrid(5, 2, 1.5)},
		{Osamp: 2, Grid: GaussianGrid(4, 2, 1.5)},
	}
	if _, err := ReduceMedianEigen(refs, 1); err == nil {
		t.Fatalf("mismatched grid sizes accepted")
	}
}

package psf

import(
	"math"
	"testing"
)

func testGauss(t *testing.T, sigma float64) *GridPSF {
	t.Helper()
	p, err := NewGridPSF(GaussianGrid(10, 4, sigma), 4)
	if err != nil {
		t.Fatalf("NewGridPSF: %v", err)
	}
	return p
}

func TestGridPSFEvalMatchesAnalytic(t *testing.T) {
	sigma := 2.0
	p := testGauss(t, sigma)

	for _, pt := range [][2]float64{{0, 0}, {1, 0}, {0.3, -0.7}, {-2.25, 1.5}} {
		got := p.Eval([]float64{pt[0]}, []float64{pt[1]}, false, false)[0][0]
		want := math.Exp(-(pt[0]*pt[0] + pt[1]*pt[1]) / (2 * sigma * sigma))
		if math.Abs(got-want) > 1e-3 {
			t.Fatalf("Eval(%v,%v) = %v, want %v", pt[0], pt[1], got, want)
		}
	}
}

func TestGridPSFNorm(t *testing.T) {
	sigma := 1.5
	p := testGauss(t, sigma)
	// Discrete gaussian sum over pixels is close to 2*pi*sigma^2
	want := 2 * math.Pi * sigma * sigma
	if math.Abs(p.Norm()-want)/want > 0.02 {
		t.Fatalf("Norm = %v, want ~%v", p.Norm(), want)
	}
}

func TestGridPSFCutoffs(t *testing.T) {
	p := testGauss(t, 2.0)

	// Outside sampled square: zero regardless
	if got := p.Eval([]float64{50}, []float64{0}, false, false)[0][0]; got != 0 {
		t.Fatalf("outside square = %v, want 0", got)
	}

	// Circular cutoff: corner of the square is inside the square but
	// outside the circle
	got := p.Eval([]float64{9.5}, []float64{9.5}, false, true)[0][0]
	if got != 0 {
		t.Fatalf("corner with circular cutoff = %v, want 0", got)
	}
	if got := p.Eval([]float64{9.5}, []float64{0}, false, true)[0][0]; got == 0 {
		t.Fatalf("on-axis point inside radius got cut to zero")
	}
}

func TestGridPSFGridShape(t *testing.T) {
	p := testGauss(t, 2.0)
	out := p.Eval([]float64{-1, 0, 1, 2}, []float64{0, 1, 2}, true, false)
	if len(out) != 3 || len(out[0]) != 4 {
		t.Fatalf("grid eval shape = %dx%d, want 3x4", len(out), len(out[0]))
	}
	// Symmetric PSF: f(1,0) == f(0,1)
	if math.Abs(out[0][2]-out[1][1]) > 1e-9 {
		t.Fatalf("grid eval asymmetric: %v vs %v", out[0][2], out[1][1])
	}
}

func TestGridPSFRejectsBadGrids(t *testing.T) {
	if _, err := NewGridPSF([][]float64{{1, 2}, {3, 4}}, 1); err == nil {
		t.Fatalf("even-sided grid accepted")
	}
	if _, err := NewGridPSF([][]float64{{1, 2, 3}}, 1); err == nil {
		t.Fatalf("non-square grid accepted")
	}
	if _, err := NewGridPSF(GaussianGrid(3, 2, 1), 0); err == nil {
		t.Fatalf("zero oversampling accepted")
	}
}

func TestMultiPSFZeroOffsetReducesToModel(t *testing.T) {
	p := testGauss(t, 2.0)
	m := NewMultiPSF(p, []float64{0}, []float64{0})

	xs := []float64{-3, -1.5, 0, 0.25, 2}
	ys := []float64{-2, 0, 1, 1.75, 3}
	direct := p.Eval(xs, ys, true, true)
	multi := m.Eval(xs, ys, true, true)
	for j := range direct {
		for i := range direct[j] {
			if direct[j][i] != multi[j][i] {
				t.Fatalf("multi[%d][%d] = %v, want %v", j, i, multi[j][i], direct[j][i])
			}
		}
	}
	if m.Norm() != p.Norm() {
		t.Fatalf("MultiPSF norm %v != model norm %v", m.Norm(), p.Norm())
	}
}

func TestMultiPSFAverages(t *testing.T) {
	p := testGauss(t, 2.0)
	m := NewMultiPSF(p, []float64{-0.5, 0.5}, []float64{0, 0})

	got := m.Eval([]float64{0}, []float64{0}, false, false)[0][0]
	a := p.Eval([]float64{0.5}, []float64{0}, false, false)[0][0]
	b := p.Eval([]float64{-0.5}, []float64{0}, false, false)[0][0]
	want := 0.5 * (a + b)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("two-offset mean = %v, want %v", got, want)
	}
}

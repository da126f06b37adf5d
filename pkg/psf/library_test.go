package psf

import(
	"math"
	"testing"
)

func testRefs() []Ref {
	grid := GaussianGrid(5, 2, 1.5)
	refs := []Ref{}
	for _, teff := range []float64{3100, 4200, 5400, 5900, 8100, 9800} {
		refs = append(refs, Ref{
			Teff: teff, TF2: -18, MJD: 59300, ExpTime: 4.4,
			Osamp: 2, Grid: grid,
		})
	}
	return refs
}

func TestBestTeffMatchesOrdering(t *testing.T) {
	lib := NewLibrary(testRefs())
	got, err := lib.BestTeffMatches(6000, 3)
	if err != nil {
		t.Fatalf("BestTeffMatches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	if got[0].Teff != 5900 {
		t.Fatalf("best match Teff = %v, want 5900", got[0].Teff)
	}
	for i := 1; i < len(got); i++ {
		if math.Abs(got[i].Teff-6000) < math.Abs(got[i-1].Teff-6000) {
			t.Fatalf("matches not sorted by Teff distance: %v before %v", got[i-1].Teff, got[i].Teff)
		}
	}
}

func TestBestMatchesScoreOrder(t *testing.T) {
	lib := NewLibrary(testRefs())
	tp := TargetParams{Teff: 5500, TF2: -18, MJD: 59300}
	got, err := lib.BestMatches(tp, 4, 0)
	if err != nil {
		t.Fatalf("BestMatches: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d matches, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if lib.Score(tp, got[i]) < lib.Score(tp, got[i-1]) {
			t.Fatalf("matches not sorted by score at %d", i)
		}
	}
}

func TestBestMatchesScoreLimExtends(t *testing.T) {
	lib := NewLibrary(testRefs())
	tp := TargetParams{Teff: 5500, TF2: -18, MJD: 59300}
	// A huge score limit pulls in the whole library
	got, err := lib.BestMatches(tp, 1, 1e9)
	if err != nil {
		t.Fatalf("BestMatches: %v", err)
	}
	if len(got) != lib.Size() {
		t.Fatalf("got %d matches, want %d", len(got), lib.Size())
	}
}

func TestEmptyLibraryIsFatal(t *testing.T) {
	lib := NewLibrary(nil)
	if _, err := lib.BestTeffMatches(5500, 10); err == nil {
		t.Fatalf("empty library gave matches")
	}
	if _, err := lib.BestMatches(TargetParams{Teff: 5500}, 1, 0); err == nil {
		t.Fatalf("empty library gave matches")
	}
}

func TestMinNumClampedToLibrarySize(t *testing.T) {
	lib := NewLibrary(testRefs())
	got, err := lib.BestTeffMatches(5500, 100)
	if err != nil {
		t.Fatalf("BestTeffMatches: %v", err)
	}
	if len(got) != lib.Size() {
		t.Fatalf("got %d matches, want %d", len(got), lib.Size())
	}
}

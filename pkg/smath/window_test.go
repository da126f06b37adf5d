package smath

import(
	"testing"
)

func TestFindIndsNoOverlap(t *testing.T) {
	for _, x := range []int{-11, -50, 211, 1000} {
		i0, i1, j0, j1 := FindInds(200, x, 10)
		if i0 != 0 || i1 != 0 || j0 != 0 || j1 != 0 {
			t.Fatalf("FindInds(200,%d,10) = %d,%d,%d,%d, want all zero", x, i0, i1, j0, j1)
		}
	}
}

func TestFindIndsFullyInside(t *testing.T) {
	i0, i1, j0, j1 := FindInds(200, 100, 10)
	if i1-i0 != 21 || j1-j0 != 21 {
		t.Fatalf("inside window widths %d,%d, want 21,21", i1-i0, j1-j0)
	}
	if i0 != 90 || i1 != 111 || j0 != 0 || j1 != 21 {
		t.Fatalf("inside window = %d,%d,%d,%d", i0, i1, j0, j1)
	}
}

func TestFindIndsClipped(t *testing.T) {
	// Clipped on the low side
	i0, i1, j0, j1 := FindInds(200, 3, 10)
	if i0 != 0 || j0 != 7 {
		t.Fatalf("low clip = %d,%d,%d,%d", i0, i1, j0, j1)
	}
	if i1-i0 != j1-j0 {
		t.Fatalf("low clip source/dest widths differ: %d vs %d", i1-i0, j1-j0)
	}

	// Clipped on the high side
	i0, i1, j0, j1 = FindInds(200, 195, 10)
	if i1 != 200 {
		t.Fatalf("high clip i1 = %d, want 200", i1)
	}
	if i1-i0 != j1-j0 {
		t.Fatalf("high clip source/dest widths differ: %d vs %d", i1-i0, j1-j0)
	}
}

func TestFindIndsWidthsAlwaysAgree(t *testing.T) {
	for x := -30; x < 130; x++ {
		i0, i1, j0, j1 := FindInds(100, x, 12)
		if i1-i0 != j1-j0 {
			t.Fatalf("x=%d: dest width %d != source width %d", x, i1-i0, j1-j0)
		}
		if i0 < 0 || i1 > 100 || j0 < 0 || j1 > 25 {
			t.Fatalf("x=%d: indices out of range: %d,%d,%d,%d", x, i0, i1, j0, j1)
		}
	}
}

func TestFindAreaInds(t *testing.T) {
	if _, _, _, _, ok := FindAreaInds(500.0, 30.0, 200, 200, 25); ok {
		t.Fatalf("area off frame in x reported overlap")
	}
	if _, _, _, _, ok := FindAreaInds(30.0, -500.0, 200, 200, 25); ok {
		t.Fatalf("area off frame in y reported overlap")
	}

	i0, i1, j0, j1, ok := FindAreaInds(100.4, 50.7, 200, 200, 25)
	if !ok {
		t.Fatalf("interior area reported no overlap")
	}
	if i0 != 75 || i1 != 125 || j0 != 25 || j1 != 75 {
		t.Fatalf("interior area = %d,%d,%d,%d", i0, i1, j0, j1)
	}

	// Partially off the frame edge gets clamped
	i0, i1, _, _, ok = FindAreaInds(5.0, 100.0, 200, 200, 25)
	if !ok || i0 != 0 || i1 != 30 {
		t.Fatalf("edge area = %d,%d ok=%v", i0, i1, ok)
	}
}

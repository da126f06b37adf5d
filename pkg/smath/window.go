package smath

// Index clipping for placing a small star footprint into a larger
// frame (or reading one back out). A footprint is a square window of
// side 2*radius+1, conceptually centered on some pixel; near the
// frame edge only part of it lands inside.

// FindInds computes indices i0, i1, j0, j1 such that a window b of
// side 2*radius+1 centered on x overlaps an axis A of length axisLen
// as A[i0:i1] = b[j0:j1]. All indices are zero when there is no
// overlap at all.
func FindInds(axisLen, x, radius int) (i0, i1, j0, j1 int) {
	if x < -radius || x > axisLen + radius {
		return 0, 0, 0, 0
	}
	if x > radius {
		i0 = x - radius
		j0 = 0
	} else {
		i0 = 0
		j0 = radius - x
	}
	if x + radius < axisLen {
		i1 = x + radius + 1
		j1 = 2*radius + 1
	} else {
		i1 = axisLen
		j1 = radius - x + axisLen
	}
	return i0, i1, j0, j1
}

// FindAreaInds computes the clipped bounds of a circle of radius at
// floating point pixel coordinates (x,y) in a w-by-h frame. ok is
// false when the area misses the frame entirely, in which case the
// star can be skipped without rendering anything.
func FindAreaInds(x, y float64, w, h, radius int) (i0, i1, j0, j1 int, ok bool) {
	i := int(x)
	i0 = i - radius
	if i0 >= w {
		return 0, 0, 0, 0, false
	}
	i1 = i + radius
	if i1 <= 0 {
		return 0, 0, 0, 0, false
	}
	if i0 < 0 { i0 = 0 }
	if i1 > w { i1 = w }

	j := int(y)
	j0 = j - radius
	if j0 >= h {
		return 0, 0, 0, 0, false
	}
	j1 = j + radius
	if j1 <= 0 {
		return 0, 0, 0, 0, false
	}
	if j0 < 0 { j0 = 0 }
	if j1 > h { j1 = h }

	return i0, i1, j0, j1, true
}

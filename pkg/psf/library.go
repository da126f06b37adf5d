package psf

import(
	"fmt"
	"math"
	"sort"
)

// A Ref is one entry in the PSF reference library: a raw PSF grid
// plus the observing parameters it was derived under. The distance
// metric below decides which refs best match a given star.
type Ref struct {
	Teff    float64 // stellar effective temperature, K
	TF2     float64 // front-thermal sensor temperature, K (negative)
	MJD     float64
	ExpTime float64 // seconds per coadded frame
	Osamp   float64 // samples per pixel in Grid
	Grid    [][]float64
}

// TargetParams is what we know about the star we want a PSF for.
type TargetParams struct {
	Teff float64
	TF2  float64
	MJD  float64
}

// A Library holds PSF references in memory and ranks them against
// target parameters. Read-only after construction.
type Library struct {
	refs    []Ref
	weights [4]float64
}

func NewLibrary(refs []Ref) *Library {
	return &Library{
		refs:    refs,
		weights: [4]float64{1, 1, 1, 1},
	}
}

// Score computes the weighted relative distance between target and
// reference parameters. Lower is better.
func (l *Library)Score(tp TargetParams, ref Ref) float64 {
	w := l.weights
	wnorm := 0.5 * (w[0]*w[0] + w[1]*w[1] + w[2]*w[2] + w[3]*w[3])
	wnorm = 1.0 / math.Sqrt(wnorm)

	dTeff := (tp.Teff/ref.Teff - 1) * w[0] * wnorm
	dTF2 := (tp.TF2/ref.TF2 - 1) * w[1] * wnorm
	dMJD := (tp.MJD - ref.MJD) / 1000.0 * w[2] * wnorm
	dExp := ref.ExpTime / 60.0 * w[3] * wnorm

	return dTeff*dTeff + dTF2*dTF2 + dMJD*dMJD + dExp*dExp
}

// BestMatches returns at least minNum references sorted by ascending
// score, extended with any further refs scoring under scoreLim
// (ignored when scoreLim <= 0). An empty library is an error: a
// temperature bin without references cannot be built at all.
func (l *Library)BestMatches(tp TargetParams, minNum int, scoreLim float64) ([]Ref, error) {
	if len(l.refs) == 0 {
		return nil, fmt.Errorf("psf library is empty, no matches for Teff=%.0fK", tp.Teff)
	}

	scored := make([]int, len(l.refs))
	scores := make([]float64, len(l.refs))
	for i := range l.refs {
		scored[i] = i
		scores[i] = l.Score(tp, l.refs[i])
	}
	sort.Slice(scored, func(a, b int) bool { return scores[scored[a]] < scores[scored[b]] })

	num := minNum
	if scoreLim > 0 {
		below := 0
		for _, s := range scores {
			if s < scoreLim { below++ }
		}
		if below > num { num = below }
	}
	if num > len(scored) {
		num = len(scored)
	}

	out := make([]Ref, num)
	for i := 0; i < num; i++ {
		out[i] = l.refs[scored[i]]
	}
	return out, nil
}

// BestTeffMatches ranks by temperature alone, for building the
// per-temperature-bin representative models.
func (l *Library)BestTeffMatches(teff float64, minNum int) ([]Ref, error) {
	if len(l.refs) == 0 {
		return nil, fmt.Errorf("psf library is empty, no matches for Teff=%.0fK", teff)
	}

	scored := make([]int, len(l.refs))
	for i := range l.refs {
		scored[i] = i
	}
	sort.Slice(scored, func(a, b int) bool {
		da := abs(l.refs[scored[a]].Teff - teff)
		db := abs(l.refs[scored[b]].Teff - teff)
		return da < db
	})

	if minNum > len(scored) {
		minNum = len(scored)
	}
	out := make([]Ref, minNum)
	for i := 0; i < minNum; i++ {
		out[i] = l.refs[scored[i]]
	}
	return out, nil
}

func (l *Library)Size() int { return len(l.refs) }

func abs(v float64) float64 {
	if v < 0 { return -v }
	return v
}

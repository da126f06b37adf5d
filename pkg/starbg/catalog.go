package starbg

import(
	"fmt"
	"math"
	"sort"

	"github.com/abworrall/starbg/pkg/psf"
	"github.com/abworrall/starbg/pkg/smath"
)

// A Catalog is the ingested star catalog for one target pointing:
// target-relative pixel positions, flux relative to the target, and
// per-star PSF assignments. Immutable after ingestion; per-frame
// state lives in WorkCat.
type Catalog struct {
	cfg Config

	X, Y   []float64 // target-relative position, pixels, pre-rotation
	Fscale []float64 // flux relative to target (target = 1.0)
	Teff   []float64 // NaN where unknown
	IDs    []int64

	PSFIDs []int           // per-star index into PSFs
	PSFs   []psf.Evaluator // one shared model per temperature bin
}

// NewCatalog ingests a raw catalog table: converts magnitudes to
// relative flux scale against the target (row 0), projects angular
// offsets to pixels with the small-angle approximation, and drops
// stars fainter than cfg.FscaleMin. A table with neither recognized
// magnitude column is a configuration error, no partial result.
func NewCatalog(tab *Table, cfg Config) (*Catalog, error) {
	if tab.Len() == 0 {
		return nil, fmt.Errorf("star catalog table is empty")
	}

	var mag []float64
	switch {
	case tab.Has(ColMagInstr):
		mag = tab.Col(ColMagInstr)
	case tab.Has(ColMagGaia): // older catalogs only carry the Gaia magnitude
		mag = tab.Col(ColMagGaia)
	default:
		return nil, fmt.Errorf("star catalog has neither '%s' nor '%s' magnitude column", ColMagInstr, ColMagGaia)
	}
	for _, name := range []string{ColRA, ColDec} {
		if !tab.Has(name) {
			return nil, fmt.Errorf("star catalog is missing '%s' column", name)
		}
	}

	n := tab.Len()
	if cfg.MaxRad > 0 && tab.Has(ColDistance) {
		n = sort.SearchFloat64s(tab.Col(ColDistance), cfg.MaxRad)
	}

	ra, dec := tab.Col(ColRA), tab.Col(ColDec)
	cosDec0 := math.Cos(dec[0] * math.Pi / 180.0)

	cat := &Catalog{cfg: cfg}
	for i := 0; i < n; i++ {
		fscale := math.Pow(10, -0.4*(mag[i]-mag[0]))
		if fscale <= cfg.FscaleMin {
			continue
		}
		cat.X = append(cat.X, (ra[0]-ra[i])*cosDec0*3600.0/cfg.PixelScale)
		cat.Y = append(cat.Y, (dec[i]-dec[0])*3600.0/cfg.PixelScale)
		cat.Fscale = append(cat.Fscale, fscale)
		if tab.Has(ColTeff) {
			cat.Teff = append(cat.Teff, tab.Col(ColTeff)[i])
		} else {
			cat.Teff = append(cat.Teff, math.NaN())
		}
		cat.IDs = append(cat.IDs, tab.IDs[i])
	}

	return cat, nil
}

func (c *Catalog)Size() int { return len(c.Fscale) }

// RotateCat rotates all star positions by the roll angle. maxrad > 0
// truncates to stars within that pixel radius of the target, which
// works because ingestion preserves the table's distance ordering.
func (c *Catalog)RotateCat(rollDeg, maxrad float64) ([]float64, []float64) {
	if maxrad > 0 {
		r2 := make([]float64, c.Size())
		for i := range r2 {
			r2[i] = c.X[i]*c.X[i] + c.Y[i]*c.Y[i]
		}
		nmax := sort.SearchFloat64s(r2, maxrad*maxrad)
		return smath.RotatePos(c.X[:nmax], c.Y[:nmax], rollDeg)
	}
	return smath.RotatePos(c.X, c.Y, rollDeg)
}

// RotateEntry rotates a single star's position by the roll angle.
func (c *Catalog)RotateEntry(n int, rollDeg float64) (float64, float64) {
	return smath.RotatePoint(c.X[n], c.Y[n], rollDeg)
}

// BrightStarIDs picks the stars worth refining individually: brighter
// than limFlux, inside outRadius and outside inRadius of the target.
// Early exit when a star falls past outRadius, since entries are
// distance sorted.
func (c *Catalog)BrightStarIDs(limFlux, outRadius, inRadius float64) []int {
	ids := []int{}
	for n := 0; n < c.Size(); n++ {
		dist := math.Hypot(c.X[n], c.Y[n])
		if dist > outRadius {
			break
		}
		if c.Fscale[n] < limFlux || dist < inRadius {
			continue
		}
		ids = append(ids, n)
	}
	return ids
}

// AssignPSFs builds one representative PSF model per configured
// temperature bin out of the library, then maps each catalog star to
// the bin nearest its temperature (or the default bin when the
// temperature is unknown). A bin the library cannot serve is fatal.
func (c *Catalog)AssignPSFs(lib *psf.Library) error {
	c.PSFs = nil
	for _, teff := range c.cfg.PSFBinTeffs {
		refs, err := lib.BestTeffMatches(teff, c.cfg.MinBinMatches)
		if err != nil {
			return fmt.Errorf("psf bin %.0fK: %v", teff, err)
		}
		model, err := psf.ReduceMedianEigen(refs, 1)
		if err != nil {
			return fmt.Errorf("psf bin %.0fK: %v", teff, err)
		}
		c.PSFs = append(c.PSFs, model)
	}

	c.PSFIDs = make([]int, c.Size())
	for n := 0; n < c.Size(); n++ {
		c.PSFIDs[n] = c.cfg.DefaultPSFBin
		if math.IsNaN(c.Teff[n]) {
			continue
		}
		best := math.MaxFloat64
		for i, teff := range c.cfg.PSFBinTeffs {
			if d := math.Abs(teff - c.Teff[n]); d < best {
				best = d
				c.PSFIDs[n] = i
			}
		}
	}
	return nil
}

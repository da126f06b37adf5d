package starbg

// Column names recognized in a star catalog table. Upstream I/O (the
// FITS reader, database fetcher, whatever) is responsible for filling
// a Table; this core never touches files.
const(
	ColRA       = "RA"       // right ascension, degrees
	ColDec      = "DEC"      // declination, degrees
	ColMagInstr = "MAG_INSTR" // instrumental magnitude
	ColMagGaia  = "MAG_GAIA"  // Gaia magnitude, the fallback column
	ColTeff     = "T_EFF"     // effective temperature, K; NaN = unknown
	ColDistance = "DISTANCE"  // distance from target, arcsec, sorted ascending
)

// A Table is an in-memory columnar star catalog. Row 0 is the target
// itself; the rest are background stars, assumed sorted by distance
// from the target (downstream early-exit logic relies on that).
type Table struct {
	Cols map[string][]float64
	IDs  []int64
}

func NewTable() *Table {
	return &Table{Cols: map[string][]float64{}}
}

func (t *Table)Len() int {
	return len(t.IDs)
}

func (t *Table)Has(name string) bool {
	_, ok := t.Cols[name]
	return ok
}

func (t *Table)Col(name string) []float64 {
	return t.Cols[name]
}

package main

import(
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/abworrall/starbg/pkg/psf"
	"github.com/abworrall/starbg/pkg/smath"
	"github.com/abworrall/starbg/pkg/starbg"
)

var(
	fVerbosity int
	fConfig string
	fRoll float64
	fBlur float64
	fWidth int
	fHeight int
	fMaxRad float64
	fNumStars int
	fSeed int64
	fOutput string
	fProfile string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fConfig, "config", "", "yaml config file (defaults used if empty)")

	flag.Float64Var(&fRoll, "roll", 0, "detector roll angle, degrees")
	flag.Float64Var(&fBlur, "blur", 0, "roll change over the exposure, degrees")
	flag.IntVar(&fWidth, "width", 200, "rendered frame width, pixels")
	flag.IntVar(&fHeight, "height", 200, "rendered frame height, pixels")
	flag.Float64Var(&fMaxRad, "maxrad", 0, "only render stars within this many pixels of the target (0 = all)")

	flag.IntVar(&fNumStars, "nstars", 40, "background stars in the demo field")
	flag.Int64Var(&fSeed, "seed", 1, "demo field random seed")

	flag.StringVar(&fOutput, "o", "starbg.png", "rendered frame image")
	flag.StringVar(&fProfile, "profile", "", "write a radial profile plot here (e.g. profile.png)")
	flag.Parse()

	log.Printf("starbg-render starting\n")
}

func main() {
	cfg := starbg.NewConfig()
	if fConfig != "" {
		var err error
		if cfg, err = starbg.LoadConfig(fConfig); err != nil {
			log.Fatal(err)
		}
	}
	cfg.Verbosity = fVerbosity
	cfg.MaxRad = fMaxRad

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	cat, err := starbg.NewCatalog(demoTable(fNumStars, fSeed), cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := cat.AssignPSFs(demoLibrary()); err != nil {
		log.Fatal(err)
	}
	log.Printf("catalog: %d stars after flux/radius cuts\n", cat.Size())

	x0, y0 := 0.5*float64(fWidth), 0.5*float64(fHeight)
	wc := cat.MakeWorkCat(x0, y0, fRoll, fBlur, fMaxRad)

	frame := starbg.RenderFrame(fWidth, fHeight, wc, cat.PSFIDs[:wc.Catsize],
		cat.PSFs, nil, cfg.FscaleMin)
	log.Printf("rendered field: %s\n", frame.Stats())

	title := fmt.Sprintf("star field, roll %.1f, blur %.2f", fRoll, fBlur)
	if err := frame.ToImg(title, fOutput); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s\n", fOutput)

	if fProfile != "" {
		if err := writeRadialProfile(frame, x0, y0, fProfile); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s\n", fProfile)
	}
}

// demoTable builds a synthetic Gaia-like catalog: a 9th magnitude
// target plus a scatter of fainter neighbours, distance sorted the
// way a cone-search result comes back.
func demoTable(n int, seed int64) *starbg.Table {
	ra0, dec0 := 100.0, -45.0
	rnd := rand.New(rand.NewSource(seed))

	type row struct {
		ra, dec, mag, teff, dist float64
	}
	rows := []row{{ra0, dec0, 9.0, 5800, 0}}
	for i := 0; i < n; i++ {
		dx := (rnd.Float64()*2 - 1) * 150 // arcsec
		dy := (rnd.Float64()*2 - 1) * 150
		r := row{
			ra:   ra0 - dx/math.Cos(dec0*math.Pi/180)/3600,
			dec:  dec0 + dy/3600,
			mag:  10 + rnd.Float64()*7,
			teff: 3000 + rnd.Float64()*6500,
			dist: math.Hypot(dx, dy),
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].dist < rows[b].dist })

	tab := starbg.NewTable()
	for i, r := range rows {
		tab.IDs = append(tab.IDs, int64(1000+i))
		tab.Cols[starbg.ColRA] = append(tab.Cols[starbg.ColRA], r.ra)
		tab.Cols[starbg.ColDec] = append(tab.Cols[starbg.ColDec], r.dec)
		tab.Cols[starbg.ColMagInstr] = append(tab.Cols[starbg.ColMagInstr], r.mag)
		tab.Cols[starbg.ColTeff] = append(tab.Cols[starbg.ColTeff], r.teff)
		tab.Cols[starbg.ColDistance] = append(tab.Cols[starbg.ColDistance], r.dist)
	}
	return tab
}

// demoLibrary stands in for a real PSF reference library: gaussian
// profiles that get slightly broader toward cooler temperatures.
func demoLibrary() *psf.Library {
	var refs []psf.Ref
	for _, teff := range []float64{3200, 4100, 5000, 5900, 7800, 9900} {
		sigma := 1.4 + 600/teff
		refs = append(refs, psf.Ref{
			Teff:    teff,
			TF2:     -10,
			MJD:     59000,
			ExpTime: 20,
			Osamp:   4,
			Grid:    psf.GaussianGrid(12, 4, sigma),
		})
	}
	return psf.NewLibrary(refs)
}

// writeRadialProfile plots mean flux against distance from the
// target, one point per 1px annulus.
func writeRadialProfile(frame *smath.Frame, x0, y0 float64, filename string) error {
	maxR := int(math.Hypot(0.5*float64(frame.Dx()), 0.5*float64(frame.Dy()))) + 1
	sums := make([]float64, maxR)
	counts := make([]int, maxR)
	for y := 0; y < frame.Dy(); y++ {
		for x := 0; x < frame.Dx(); x++ {
			r := int(math.Hypot(float64(x)-x0, float64(y)-y0))
			if r < maxR {
				sums[r] += frame.Get(x, y)
				counts[r]++
			}
		}
	}

	pts := make(plotter.XYs, 0, maxR)
	for r := 0; r < maxR; r++ {
		if counts[r] == 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(r), Y: sums[r] / float64(counts[r])})
	}

	p := plot.New()
	p.Title.Text = "radial flux profile"
	p.X.Label.Text = "distance from target, pixels"
	p.Y.Label.Text = "mean flux"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid())
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

// Package starbg synthesizes the background-star field around a
// pointed target: it ingests a star catalog, assigns library PSFs by
// stellar temperature, renders model frames with rotational blur, and
// iteratively refines the model against observed data star by star.
package starbg

import(
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Verbosity      int

	PixelScale     float64   // detector pixel scale, arcsec/pixel
	FscaleMin      float64   // drop catalog stars fainter than this, relative to target
	MaxRad         float64   // only consider stars within this distance of target, pixels (0 = all)

	PSFBinTeffs    []float64 // representative temperatures, one PSF model per bin
	DefaultPSFBin  int       // bin used when a star has no catalogued temperature
	MinBinMatches  int       // library references gathered per bin

	BlurResolution float64   // target arc sampling distance for rotational blur, pixels

	KernelScale    float64   // kernel offset spacing used in refinement, pixels
	KernelRadius   int       // kernel grid radius, offsets
	FitRadius      int       // fit radius for stars well inside the frame, pixels
}

func NewConfig() Config {
	return Config{
		PixelScale:     1.01,
		FscaleMin:      1e-5,
		PSFBinTeffs:    []float64{3000, 4000, 5000, 6000, 8000, 10000},
		DefaultPSFBin:  2,
		MinBinMatches:  10,
		BlurResolution: 0.2,
		KernelScale:    0.3,
		KernelRadius:   3,
		FitRadius:      25,
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()
	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}
	return c, c.Validate()
}

func (c Config)Validate() error {
	if c.PixelScale <= 0 {
		return fmt.Errorf("pixelscale must be positive, got %v", c.PixelScale)
	}
	if len(c.PSFBinTeffs) == 0 {
		return fmt.Errorf("need at least one psf temperature bin")
	}
	if c.DefaultPSFBin < 0 || c.DefaultPSFBin >= len(c.PSFBinTeffs) {
		return fmt.Errorf("defaultpsfbin %d out of range for %d bins", c.DefaultPSFBin, len(c.PSFBinTeffs))
	}
	if c.BlurResolution <= 0 {
		return fmt.Errorf("blurresolution must be positive, got %v", c.BlurResolution)
	}
	return nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

package starbg

import(
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigOverrides(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "starbg.yaml")
	yaml := "pixelscale: 2.5\nkernelradius: 5\npsfbinteffs: [3500, 7000]\ndefaultpsfbin: 1\n"
	if err := os.WriteFile(fname, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(fname)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PixelScale != 2.5 {
		t.Fatalf("pixelscale = %v, want 2.5", cfg.PixelScale)
	}
	if cfg.KernelRadius != 5 {
		t.Fatalf("kernelradius = %d, want 5", cfg.KernelRadius)
	}
	if len(cfg.PSFBinTeffs) != 2 || cfg.PSFBinTeffs[1] != 7000 {
		t.Fatalf("psfbinteffs = %v, want [3500 7000]", cfg.PSFBinTeffs)
	}

	// Untouched fields keep their defaults
	if cfg.FitRadius != NewConfig().FitRadius {
		t.Fatalf("fitradius = %d, want default %d", cfg.FitRadius, NewConfig().FitRadius)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "starbg.yaml")
	if err := os.WriteFile(fname, []byte("pixelscale: -1\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(fname); err == nil {
		t.Fatalf("negative pixelscale accepted")
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("missing config file accepted")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg = NewConfig()
	cfg.DefaultPSFBin = 99
	if err := cfg.Validate(); err == nil {
		t.Fatalf("out-of-range defaultpsfbin accepted")
	}

	cfg = NewConfig()
	cfg.PSFBinTeffs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty psfbinteffs accepted")
	}

	cfg = NewConfig()
	cfg.BlurResolution = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("zero blurresolution accepted")
	}
}

func TestConfigAsYaml(t *testing.T) {
	s := NewConfig().AsYaml()
	if !strings.Contains(s, "pixelscale") || !strings.Contains(s, "kernelscale") {
		t.Fatalf("yaml dump missing fields:\n%s", s)
	}
}

package tuner

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative signal rms", func(c *Config) { c.SignalRMS = -1 }, ErrInvalidThreshold},
		{"zero sustain rms", func(c *Config) { c.SustainRMS = 0 }, ErrInvalidThreshold},
		{"negative history", func(c *Config) { c.HistorySize = -1 }, ErrInvalidHistory},
		{"zero lock frames", func(c *Config) { c.LockFrames = 0 }, ErrInvalidLockFrames},
		{"negative switch frames", func(c *Config) { c.SwitchFrames = -2 }, ErrInvalidLockFrames},
		{"tolerance over one", func(c *Config) { c.OctaveTolerance = 1.5 }, ErrInvalidTolerance},
		{"decay at one", func(c *Config) { c.SmoothingDecay = 1.0 }, ErrInvalidTolerance},
		{"negative silence hold", func(c *Config) { c.SilenceHold = -1 }, ErrInvalidHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClampReference(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{440, 440},
		{432, 432},
		{400, MinReferenceA4},
		{500, MaxReferenceA4},
		{440.3, 440.5},
		{440.2, 440},
		{0, DefaultReferenceA4},
		{-5, DefaultReferenceA4},
		{math.NaN(), DefaultReferenceA4},
		{math.Inf(1), DefaultReferenceA4},
	}
	for _, tt := range tests {
		if got := ClampReference(tt.in); got != tt.want {
			t.Errorf("ClampReference(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuner.json")

	cfg := DefaultConfig()
	cfg.SignalRMS = 0.02
	cfg.LockFrames = 5
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.SignalRMS != 0.02 {
		t.Errorf("SignalRMS = %v, want 0.02", got.SignalRMS)
	}
	if got.LockFrames != 5 {
		t.Errorf("LockFrames = %d, want 5", got.LockFrames)
	}
	if got.SilenceHold != cfg.SilenceHold {
		t.Errorf("SilenceHold = %v, want %v", got.SilenceHold, cfg.SilenceHold)
	}
	if got.Now == nil {
		t.Error("loaded config must carry a clock")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"signal_rms": 0.02}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SignalRMS != 0.02 {
		t.Errorf("SignalRMS = %v, want 0.02", cfg.SignalRMS)
	}
	// Unspecified fields fall back to the defaults.
	if cfg.HistorySize != DefaultHistorySize {
		t.Errorf("HistorySize = %d, want default %d", cfg.HistorySize, DefaultHistorySize)
	}
	if cfg.SmoothingDecay != DefaultSmoothingDecay {
		t.Errorf("SmoothingDecay = %v, want default %v", cfg.SmoothingDecay, DefaultSmoothingDecay)
	}
}

// A host may build a sparse Config literal and rely on New to fill the rest;
// every tunable must get its default, including the switch bonuses.
func TestApplyDefaultsFillsEveryField(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.StableSwitchBonus != DefaultStableSwitchBonus {
		t.Errorf("StableSwitchBonus = %d, want %d", cfg.StableSwitchBonus, DefaultStableSwitchBonus)
	}
	if cfg.HeldSwitchBonus != DefaultHeldSwitchBonus {
		t.Errorf("HeldSwitchBonus = %d, want %d", cfg.HeldSwitchBonus, DefaultHeldSwitchBonus)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted zero config should validate, got %v", err)
	}
	if cfg.Now == nil {
		t.Error("defaulted zero config should carry a clock")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("malformed JSON should fail")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"history_size": -3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(invalid); !errors.Is(err, ErrInvalidHistory) {
		t.Errorf("expected ErrInvalidHistory, got %v", err)
	}
}

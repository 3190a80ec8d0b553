package tuner

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// Config consolidates every threshold of the engine so hysteresis behavior
// is tunable and testable in one place rather than scattered constants.
type Config struct {
	// Signal gating
	SignalRMS           float64 `json:"signal_rms"`
	SustainRMS          float64 `json:"sustain_rms"`
	LockedSustainScale  float64 `json:"locked_sustain_scale"`
	VeryLowSustainScale float64 `json:"very_low_sustain_scale"`

	// Smoothing
	HistorySize          int     `json:"history_size"`
	OctaveTolerance      float64 `json:"octave_tolerance"`
	ConsistencyTolerance float64 `json:"consistency_tolerance"`
	OutlierTolerance     float64 `json:"outlier_tolerance"`
	SmoothingDecay       float64 `json:"smoothing_decay"`

	// Locking
	LockFrames           int           `json:"lock_frames"`
	LowLockFrames        int           `json:"low_lock_frames"`
	SwitchFrames         int           `json:"switch_frames"`
	AdjacentSwitchFrames int           `json:"adjacent_switch_frames"`
	AdjacentSemitones    int           `json:"adjacent_semitones"`
	StableSwitchBonus    int           `json:"stable_switch_bonus"`
	InTuneStreakFrames   int           `json:"in_tune_streak_frames"`
	HeldSwitchBonus      int           `json:"held_switch_bonus"`
	LockAgeThreshold     time.Duration `json:"lock_age_threshold_ns"`
	SilenceHold          time.Duration `json:"silence_hold_ns"`

	// Now supplies wall-clock time for the hold and lock-age timers. The
	// engine schedules nothing itself. Defaults to time.Now.
	Now func() time.Time `json:"-"`
}

// DefaultConfig returns a Config with the documented default policy.
func DefaultConfig() Config {
	return Config{
		SignalRMS:            DefaultSignalRMS,
		SustainRMS:           DefaultSustainRMS,
		LockedSustainScale:   DefaultLockedSustainScale,
		VeryLowSustainScale:  DefaultVeryLowSustainScale,
		HistorySize:          DefaultHistorySize,
		OctaveTolerance:      DefaultOctaveTolerance,
		ConsistencyTolerance: DefaultConsistencyTolerance,
		OutlierTolerance:     DefaultOutlierTolerance,
		SmoothingDecay:       DefaultSmoothingDecay,
		LockFrames:           DefaultLockFrames,
		LowLockFrames:        DefaultLowLockFrames,
		SwitchFrames:         DefaultSwitchFrames,
		AdjacentSwitchFrames: DefaultAdjacentSwitchFrames,
		AdjacentSemitones:    DefaultAdjacentSemitones,
		StableSwitchBonus:    DefaultStableSwitchBonus,
		InTuneStreakFrames:   DefaultInTuneStreakFrames,
		HeldSwitchBonus:      DefaultHeldSwitchBonus,
		LockAgeThreshold:     DefaultLockAgeThreshold,
		SilenceHold:          DefaultSilenceHold,
		Now:                  time.Now,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SignalRMS <= 0 || c.SustainRMS <= 0 ||
		c.LockedSustainScale <= 0 || c.VeryLowSustainScale <= 0 {
		return ErrInvalidThreshold
	}
	if c.HistorySize <= 0 {
		return ErrInvalidHistory
	}
	if c.LockFrames <= 0 || c.LowLockFrames <= 0 ||
		c.SwitchFrames <= 0 || c.AdjacentSwitchFrames <= 0 {
		return ErrInvalidLockFrames
	}
	for _, tol := range []float64{c.OctaveTolerance, c.ConsistencyTolerance, c.OutlierTolerance, c.SmoothingDecay} {
		if tol <= 0 || tol >= 1 {
			return ErrInvalidTolerance
		}
	}
	if c.SilenceHold <= 0 || c.LockAgeThreshold <= 0 {
		return ErrInvalidHold
	}
	return nil
}

// LoadConfig reads a JSON config file, filling zero-valued fields with the
// defaults so partial files stay valid.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration as indented JSON.
func SaveConfig(cfg Config, path string) error {
	data, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.SignalRMS == 0 {
		c.SignalRMS = def.SignalRMS
	}
	if c.SustainRMS == 0 {
		c.SustainRMS = def.SustainRMS
	}
	if c.LockedSustainScale == 0 {
		c.LockedSustainScale = def.LockedSustainScale
	}
	if c.VeryLowSustainScale == 0 {
		c.VeryLowSustainScale = def.VeryLowSustainScale
	}
	if c.HistorySize == 0 {
		c.HistorySize = def.HistorySize
	}
	if c.OctaveTolerance == 0 {
		c.OctaveTolerance = def.OctaveTolerance
	}
	if c.ConsistencyTolerance == 0 {
		c.ConsistencyTolerance = def.ConsistencyTolerance
	}
	if c.OutlierTolerance == 0 {
		c.OutlierTolerance = def.OutlierTolerance
	}
	if c.SmoothingDecay == 0 {
		c.SmoothingDecay = def.SmoothingDecay
	}
	if c.LockFrames == 0 {
		c.LockFrames = def.LockFrames
	}
	if c.LowLockFrames == 0 {
		c.LowLockFrames = def.LowLockFrames
	}
	if c.SwitchFrames == 0 {
		c.SwitchFrames = def.SwitchFrames
	}
	if c.AdjacentSwitchFrames == 0 {
		c.AdjacentSwitchFrames = def.AdjacentSwitchFrames
	}
	if c.AdjacentSemitones == 0 {
		c.AdjacentSemitones = def.AdjacentSemitones
	}
	if c.StableSwitchBonus == 0 {
		c.StableSwitchBonus = def.StableSwitchBonus
	}
	if c.InTuneStreakFrames == 0 {
		c.InTuneStreakFrames = def.InTuneStreakFrames
	}
	if c.HeldSwitchBonus == 0 {
		c.HeldSwitchBonus = def.HeldSwitchBonus
	}
	if c.LockAgeThreshold == 0 {
		c.LockAgeThreshold = def.LockAgeThreshold
	}
	if c.SilenceHold == 0 {
		c.SilenceHold = def.SilenceHold
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// ClampReference snaps a reference pitch into the supported range on
// half-Hz steps. Degenerate input yields the default.
func ClampReference(referenceA4 float64) float64 {
	if math.IsNaN(referenceA4) || math.IsInf(referenceA4, 0) || referenceA4 <= 0 {
		return DefaultReferenceA4
	}
	if referenceA4 < MinReferenceA4 {
		referenceA4 = MinReferenceA4
	}
	if referenceA4 > MaxReferenceA4 {
		referenceA4 = MaxReferenceA4
	}
	return math.Round(referenceA4/ReferenceStep) * ReferenceStep
}

package ui

import (
	"sync"

	"github.com/brendanciccone/tempotuner/internal/tuner"
)

// Settings holds the two user preferences shared between the UI goroutine
// (which mutates them on key presses) and the analysis loop (which reads
// them every cycle).
type Settings struct {
	mu       sync.Mutex
	refA4    float64
	useFlats bool
}

func NewSettings(refA4 float64, useFlats bool) *Settings {
	return &Settings{refA4: tuner.ClampReference(refA4), useFlats: useFlats}
}

func (s *Settings) ReferenceA4() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refA4
}

func (s *Settings) UseFlats() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useFlats
}

// AdjustReference moves the reference pitch by one half-Hz step.
func (s *Settings) AdjustReference(steps int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refA4 = tuner.ClampReference(s.refA4 + float64(steps)*tuner.ReferenceStep)
	return s.refA4
}

// ToggleFlats flips accidental spelling and returns the new value.
func (s *Settings) ToggleFlats() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useFlats = !s.useFlats
	return s.useFlats
}

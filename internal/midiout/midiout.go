// Package midiout forwards locked tuner notes to a MIDI output port, so the
// detected pitch can drive a synth or DAW while tuning.
package midiout

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/brendanciccone/tempotuner/internal/logger"
)

// ErrNoOutputs indicates no MIDI output port is available.
var ErrNoOutputs = errors.New("no MIDI output ports available")

const (
	channel  = 0
	velocity = 96
)

// Sender owns a MIDI connection and the currently sounding note.
type Sender struct {
	drv     *rtmididrv.Driver
	out     drivers.Out
	send    func(midi.Message) error
	current int // sounding MIDI note number, -1 when silent
}

// New opens the first available MIDI output port.
func New() (*Sender, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	if len(outs) == 0 {
		drv.Close()
		return nil, ErrNoOutputs
	}

	out := outs[0]
	if err := out.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open %q: %w", out.String(), err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		out.Close()
		drv.Close()
		return nil, fmt.Errorf("sender for %q: %w", out.String(), err)
	}

	logger.Infof("midi: forwarding to %q", out.String())
	return &Sender{drv: drv, out: out, send: send, current: -1}, nil
}

// NoteChanged sounds a new note number, releasing the previous one. Numbers
// outside the MIDI range are ignored.
func (s *Sender) NoteChanged(number int) {
	if number < 0 || number > 127 || number == s.current {
		return
	}
	s.Silence()
	if err := s.send(midi.NoteOn(channel, uint8(number), velocity)); err != nil {
		logger.Warnf("midi: note on failed: %v", err)
		return
	}
	s.current = number
}

// Silence releases the sounding note, if any.
func (s *Sender) Silence() {
	if s.current < 0 {
		return
	}
	if err := s.send(midi.NoteOff(channel, uint8(s.current))); err != nil {
		logger.Warnf("midi: note off failed: %v", err)
	}
	s.current = -1
}

// Close releases the note, the port, and the driver.
func (s *Sender) Close() {
	s.Silence()
	if s.out != nil {
		_ = s.out.Close()
	}
	if s.drv != nil {
		s.drv.Close()
	}
}

package main

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/brendanciccone/tempotuner/internal/audio"
	"github.com/brendanciccone/tempotuner/internal/logger"
	"github.com/brendanciccone/tempotuner/internal/midiout"
	"github.com/brendanciccone/tempotuner/internal/pitch"
	"github.com/brendanciccone/tempotuner/internal/tuner"
	"github.com/brendanciccone/tempotuner/internal/ui"
)

const (
	frameSize  = 4096
	sampleRate = 44100
	channels   = 1

	pollInterval  = 50 * time.Millisecond
	levelInterval = 200 * time.Millisecond

	amplification = 4.0
)

var flagMIDI bool

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Tune live from the default input device",
	RunE:  runListen,
}

func init() {
	listenCmd.Flags().BoolVar(&flagMIDI, "midi", false,
		"forward locked notes to the first MIDI output port")
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}

	engine, err := tuner.New(cfg)
	if err != nil {
		return err
	}

	source, err := audio.NewPortAudioSource(frameSize, sampleRate, channels)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	source.SetAmplification(amplification)

	if err := source.Start(); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	defer source.Stop()

	var midi *midiout.Sender
	if flagMIDI {
		midi, err = midiout.New()
		if err != nil {
			logger.Warnf("midi disabled: %v", err)
		} else {
			defer midi.Close()
		}
	}

	settings := ui.NewSettings(flagRef, flagFlats)
	program := tea.NewProgram(ui.NewModel(settings), tea.WithAltScreen())

	done := make(chan struct{})
	go analysisLoop(program, engine, source, settings, midi, done)

	_, err = program.Run()
	close(done)
	return err
}

// analysisLoop is the single worker driving the engine: one synchronous
// cycle per tick, no concurrent Analyze calls.
func analysisLoop(p *tea.Program, engine *tuner.Engine, source audio.Source,
	settings *ui.Settings, midi *midiout.Sender, done <-chan struct{}) {

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	lastLevel := time.Now()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		frame, err := source.Read()
		if err != nil {
			logger.Debugf("frame read failed: %v", err)
			continue
		}
		if len(frame.Samples) == 0 {
			continue
		}

		reading := engine.Analyze(frame.Samples, frame.SampleRate,
			settings.ReferenceA4(), settings.UseFlats())
		p.Send(ui.ReadingMsg{Reading: reading})

		if midi != nil {
			forwardMIDI(midi, reading)
		}

		if time.Since(lastLevel) > levelInterval {
			if rms, ok := pitch.RMS(frame.Samples); ok {
				p.Send(ui.LevelMsg{RMS: rms, DB: toDB(rms)})
			}
			lastLevel = time.Now()
		}
	}
}

func forwardMIDI(midi *midiout.Sender, reading tuner.Reading) {
	if reading.Locked && reading.Note != nil {
		midi.NoteChanged(reading.Note.Number)
	} else if !reading.SignalPresent {
		midi.Silence()
	}
}

func toDB(rms float64) float64 {
	if rms < 1e-7 {
		return -100
	}
	return 20 * math.Log10(rms)
}

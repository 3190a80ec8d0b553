package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brendanciccone/tempotuner/internal/audio"
	"github.com/brendanciccone/tempotuner/internal/tuner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Run the tuner over a WAV file and print the detected notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}

	engine, err := tuner.New(cfg)
	if err != nil {
		return err
	}

	source, err := audio.NewFileSource(args[0], frameSize)
	if err != nil {
		return err
	}
	if err := source.Start(); err != nil {
		return err
	}
	defer source.Stop()

	fmt.Printf("%s: %.1fs at %d Hz, A4 = %.1f Hz\n",
		args[0], source.Duration(), source.SampleRate(), tuner.ClampReference(flagRef))

	return printLockReport(os.Stdout, engine, source, flagRef, flagFlats)
}

// printLockReport runs the engine over every frame of the source and writes
// one line per newly locked note. A note locked again after silence is
// reported again; a file that never locks gets a single fallback line.
func printLockReport(w io.Writer, engine *tuner.Engine, source *audio.FileSource, refA4 float64, useFlats bool) error {
	frameSeconds := float64(frameSize) / float64(source.SampleRate())
	elapsed := 0.0
	lastLocked := -1 // MIDI number of the last reported lock
	sawLock := false

	for {
		frame, err := source.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		reading := engine.Analyze(frame.Samples, frame.SampleRate,
			refA4, useFlats)
		elapsed += frameSeconds

		if reading.Locked && reading.Note != nil && reading.Note.Number != lastLocked {
			n := reading.Note
			fmt.Fprintf(w, "%7.2fs  %-4s %8.1f Hz  %+4d cents  %s\n",
				elapsed, n.String(), n.Frequency, n.Cents, n.Status)
			lastLocked = n.Number
			sawLock = true
		}
		if !reading.SignalPresent {
			lastLocked = -1
		}
	}

	if !sawLock {
		fmt.Fprintln(w, "no stable pitch detected")
	}
	return nil
}

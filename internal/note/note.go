// Package note converts frequencies to musical notes in twelve-tone equal
// temperament relative to a configurable A4 reference pitch.
package note

import (
	"fmt"
	"math"
)

// Status classifies a cents deviation against the in-tune band.
type Status int

const (
	StatusNone Status = iota
	StatusFlat
	StatusInTune
	StatusSharp
)

func (s Status) String() string {
	switch s {
	case StatusFlat:
		return "flat"
	case StatusInTune:
		return "in-tune"
	case StatusSharp:
		return "sharp"
	default:
		return "none"
	}
}

// InTuneCents is the half-width of the canonical in-tune band. A display
// layer may choose a wider band; this is the one the mapper reports.
const InTuneCents = 5

// MIDI note number of A4 and of the octave anchor (note 60 is C4).
const (
	midiA4      = 69
	notesPerOct = 12
)

// Sharp and flat spellings of the chromatic scale starting at C.
var (
	sharpNames = [notesPerOct]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [notesPerOct]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// Info describes the note nearest to a measured frequency.
type Info struct {
	Name      string  // letter plus optional accidental, e.g. "A", "Bb"
	Octave    int     // scientific pitch octave; C4 is middle C
	Number    int     // MIDI-style note number (60 = C4, 69 = A4)
	Frequency float64 // measured input frequency in Hz
	Exact     float64 // equal-tempered frequency of the note at the reference
	Cents     int     // signed deviation of Frequency from Exact
	Status    Status
}

// String returns the conventional note label, e.g. "A4" or "F#2".
func (i Info) String() string {
	return fmt.Sprintf("%s%d", i.Name, i.Octave)
}

// Map converts a frequency to the nearest note. The second return value is
// false for degenerate input (non-finite or non-positive frequency or
// reference); there is no error path.
func Map(freq, referenceA4 float64, useFlats bool) (Info, bool) {
	if !isUsable(freq) || !isUsable(referenceA4) {
		return Info{}, false
	}

	semitones := notesPerOct * math.Log2(freq/referenceA4)
	rounded := math.Round(semitones)
	number := midiA4 + int(rounded)

	idx := ((number % notesPerOct) + notesPerOct) % notesPerOct
	if idx < 0 || idx >= notesPerOct {
		return Info{}, false
	}

	name := sharpNames[idx]
	if useFlats {
		name = flatNames[idx]
	}

	exact := Frequency(number, referenceA4)
	cents := Cents(freq, exact)

	return Info{
		Name:      name,
		Octave:    octaveOf(number),
		Number:    number,
		Frequency: freq,
		Exact:     exact,
		Cents:     cents,
		Status:    StatusForCents(cents),
	}, true
}

// Frequency returns the equal-tempered frequency of a MIDI-style note number
// at the given reference pitch.
func Frequency(number int, referenceA4 float64) float64 {
	return referenceA4 * math.Pow(2, float64(number-midiA4)/notesPerOct)
}

// Cents returns the signed cents deviation of freq from exact, rounded to the
// nearest integer. Returns 0 when either input is degenerate.
func Cents(freq, exact float64) int {
	if !isUsable(freq) || !isUsable(exact) {
		return 0
	}
	return int(math.Round(1200 * math.Log2(freq/exact)))
}

// StatusForCents applies the canonical ±InTuneCents band.
func StatusForCents(cents int) Status {
	switch {
	case cents < -InTuneCents:
		return StatusFlat
	case cents > InTuneCents:
		return StatusSharp
	default:
		return StatusInTune
	}
}

// Adjacent reports whether two notes are within the given number of
// semitones of each other.
func Adjacent(a, b Info, semitones int) bool {
	d := a.Number - b.Number
	if d < 0 {
		d = -d
	}
	return d <= semitones
}

// octaveOf derives the scientific octave from a note number, with note 60 in
// the 4th octave. Integer division truncates toward zero, so negative
// numbers need floor semantics.
func octaveOf(number int) int {
	oct := number / notesPerOct
	if number < 0 && number%notesPerOct != 0 {
		oct--
	}
	return oct - 1
}

func isUsable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

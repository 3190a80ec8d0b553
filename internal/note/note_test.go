package note

import (
	"math"
	"testing"
)

func TestMapA4(t *testing.T) {
	info, ok := Map(440.0, 440.0, false)
	if !ok {
		t.Fatal("expected valid mapping")
	}
	if info.String() != "A4" {
		t.Fatalf("expected A4, got %s", info.String())
	}
	if info.Number != 69 {
		t.Fatalf("expected note number 69, got %d", info.Number)
	}
	if info.Cents != 0 {
		t.Fatalf("expected 0 cents, got %d", info.Cents)
	}
	if info.Status != StatusInTune {
		t.Fatalf("expected in-tune, got %s", info.Status)
	}
}

func TestMapKnownNotes(t *testing.T) {
	tests := []struct {
		freq     float64
		ref      float64
		useFlats bool
		want     string
		number   int
	}{
		{261.63, 440, false, "C4", 60},
		{82.41, 440, false, "E2", 40},
		{466.16, 440, false, "A#4", 70},
		{466.16, 440, true, "Bb4", 70},
		{27.50, 440, false, "A0", 21},
		{1975.53, 440, false, "B6", 95},
		{311.13, 440, true, "Eb4", 63},
		{445.0, 445, false, "A4", 69},
	}
	for _, tt := range tests {
		info, ok := Map(tt.freq, tt.ref, tt.useFlats)
		if !ok {
			t.Fatalf("Map(%.2f) unexpectedly invalid", tt.freq)
		}
		if info.String() != tt.want {
			t.Errorf("Map(%.2f, ref=%.0f) = %s, want %s", tt.freq, tt.ref, info.String(), tt.want)
		}
		if info.Number != tt.number {
			t.Errorf("Map(%.2f) number = %d, want %d", tt.freq, info.Number, tt.number)
		}
	}
}

// Mapping the exact frequency of every note must report zero cents, for any
// reference pitch in the supported range.
func TestRoundTripCents(t *testing.T) {
	for _, ref := range []float64{420.0, 433.5, 440.0, 452.5, 460.0} {
		for number := 21; number <= 108; number++ { // A0..C8
			exact := Frequency(number, ref)
			for _, flats := range []bool{false, true} {
				info, ok := Map(exact, ref, flats)
				if !ok {
					t.Fatalf("Map(%.4f, %.1f) invalid", exact, ref)
				}
				if info.Number != number {
					t.Fatalf("round trip number %d at ref %.1f got %d", number, ref, info.Number)
				}
				if info.Cents != 0 {
					t.Fatalf("round trip cents for note %d at ref %.1f: got %d", number, ref, info.Cents)
				}
			}
		}
	}
}

func TestCentsAndStatus(t *testing.T) {
	tests := []struct {
		freq   float64
		cents  int
		status Status
	}{
		{445.0, 20, StatusSharp},
		{435.0, -20, StatusFlat},
		{441.0, 4, StatusInTune},
		{438.8, -5, StatusInTune},
		{438.7, -5, StatusInTune}, // -5.1 rounds to -5
	}
	for _, tt := range tests {
		info, ok := Map(tt.freq, 440, false)
		if !ok {
			t.Fatalf("Map(%.1f) invalid", tt.freq)
		}
		if info.Cents != tt.cents {
			t.Errorf("Map(%.1f) cents = %d, want %d", tt.freq, info.Cents, tt.cents)
		}
		if info.Status != tt.status {
			t.Errorf("Map(%.1f) status = %s, want %s", tt.freq, info.Status, tt.status)
		}
	}
}

func TestMapDegenerate(t *testing.T) {
	bad := []float64{0, -10, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, f := range bad {
		if _, ok := Map(f, 440, false); ok {
			t.Errorf("Map(%v) should be invalid", f)
		}
	}
	if _, ok := Map(440, math.NaN(), false); ok {
		t.Error("NaN reference should be invalid")
	}
	if _, ok := Map(440, 0, false); ok {
		t.Error("zero reference should be invalid")
	}
}

func TestOctaveConvention(t *testing.T) {
	tests := []struct {
		number int
		octave int
	}{
		{60, 4}, // middle C
		{69, 4},
		{59, 3},
		{12, 0},
		{11, -1},
		{0, -1},
	}
	for _, tt := range tests {
		if got := octaveOf(tt.number); got != tt.octave {
			t.Errorf("octaveOf(%d) = %d, want %d", tt.number, got, tt.octave)
		}
	}
}

func TestAdjacent(t *testing.T) {
	a := Info{Number: 69}
	b := Info{Number: 71}
	c := Info{Number: 73}
	if !Adjacent(a, b, 2) {
		t.Error("69 and 71 should be adjacent within 2 semitones")
	}
	if Adjacent(a, c, 2) {
		t.Error("69 and 73 should not be adjacent within 2 semitones")
	}
	if !Adjacent(c, a, 4) {
		t.Error("adjacency should be symmetric")
	}
}

func TestStatusForCents(t *testing.T) {
	if StatusForCents(-6) != StatusFlat {
		t.Error("-6 cents should be flat")
	}
	if StatusForCents(-5) != StatusInTune {
		t.Error("-5 cents should be in tune")
	}
	if StatusForCents(5) != StatusInTune {
		t.Error("+5 cents should be in tune")
	}
	if StatusForCents(6) != StatusSharp {
		t.Error("+6 cents should be sharp")
	}
}

// Package audio supplies fixed-length sample frames to the tuner engine.
// The engine treats any Source as an external collaborator: it pulls frames
// on its own cadence and only ever reads them.
package audio

import "errors"

// Frame is one fixed-length block of normalized mono samples.
type Frame struct {
	Samples    []float32
	SampleRate int
}

// Source produces frames. Implementations are a live capture device or a
// decoded file.
type Source interface {
	// Start prepares the source for reading.
	Start() error

	// Stop releases the source.
	Stop() error

	// Read returns the current frame. Live sources return their latest
	// buffer; file sources advance and return io.EOF when exhausted.
	Read() (*Frame, error)
}

// Source errors.
var (
	ErrAlreadyStarted = errors.New("audio source already started")
	ErrNotStarted     = errors.New("audio source not started")
	ErrEmptyFile      = errors.New("audio file contains no samples")
)

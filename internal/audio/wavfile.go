package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// FileSource decodes a PCM WAV file up front and serves it as consecutive
// fixed-length frames, so recorded audio runs through the exact same engine
// path as a live device.
type FileSource struct {
	samples    []float32
	sampleRate int
	frameSize  int
	pos        int
	started    bool
}

// NewFileSource loads a WAV file. Stereo files are averaged down to mono;
// samples are normalized to [-1, 1].
func NewFileSource(path string, frameSize int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrEmptyFile
	}

	samples := monoFloat32(buf, int(dec.BitDepth))
	if len(samples) == 0 {
		return nil, ErrEmptyFile
	}

	return &FileSource{
		samples:    samples,
		sampleRate: buf.Format.SampleRate,
		frameSize:  frameSize,
	}, nil
}

// SampleRate returns the file's sample rate in Hz.
func (s *FileSource) SampleRate() int { return s.sampleRate }

// Duration returns the file length in seconds.
func (s *FileSource) Duration() float64 {
	return float64(len(s.samples)) / float64(s.sampleRate)
}

func (s *FileSource) Start() error {
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.pos = 0
	return nil
}

func (s *FileSource) Stop() error {
	if !s.started {
		return ErrNotStarted
	}
	s.started = false
	return nil
}

// Read returns the next frame, or io.EOF once the file is exhausted. The
// final partial frame is dropped; it is too short to analyze.
func (s *FileSource) Read() (*Frame, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	if s.pos+s.frameSize > len(s.samples) {
		return nil, io.EOF
	}

	frame := &Frame{
		Samples:    s.samples[s.pos : s.pos+s.frameSize],
		SampleRate: s.sampleRate,
	}
	s.pos += s.frameSize
	return frame, nil
}

// monoFloat32 converts a decoded integer buffer to normalized mono floats.
func monoFloat32(buf *goaudio.IntBuffer, bitDepth int) []float32 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1.0 / float32(int(1)<<uint(bitDepth-1))

	channels := buf.Format.NumChannels
	if channels <= 1 {
		out := make([]float32, len(buf.Data))
		for i, v := range buf.Data {
			out[i] = float32(v) * scale
		}
		return out
	}

	frames := len(buf.Data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		out[i] = float32(sum) / float32(channels) * scale
	}
	return out
}

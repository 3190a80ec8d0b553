package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSource captures mono frames from the default input device. The
// PortAudio callback fills an internal buffer; Read hands out a copy so the
// engine owns the frame it analyzes.
type PortAudioSource struct {
	mu            sync.Mutex
	stream        *portaudio.Stream
	started       bool
	frameSize     int
	sampleRate    int
	channels      int
	latest        []float32
	amplification float32
}

// NewPortAudioSource initializes PortAudio and prepares a capture source.
// Call Stop to terminate the library.
func NewPortAudioSource(frameSize, sampleRate, channels int) (*PortAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &PortAudioSource{
		frameSize:     frameSize,
		sampleRate:    sampleRate,
		channels:      channels,
		latest:        make([]float32, 0, frameSize),
		amplification: 1.0,
	}, nil
}

// SetAmplification scales captured samples; useful for quiet inputs.
func (s *PortAudioSource) SetAmplification(factor float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if factor < 0.1 {
		factor = 0.1
	}
	s.amplification = factor
}

// Start opens the default input stream and begins capture.
func (s *PortAudioSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}

	stream, err := portaudio.OpenDefaultStream(
		s.channels,
		0, // no output
		float64(s.sampleRate),
		s.frameSize/s.channels,
		s.capture,
	)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	s.stream = stream
	s.started = true
	return nil
}

// Stop closes the stream and terminates PortAudio.
func (s *PortAudioSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := s.stream.Stop(); err != nil {
		return err
	}
	if err := s.stream.Close(); err != nil {
		return err
	}
	s.started = false
	return portaudio.Terminate()
}

// Read returns a copy of the most recent captured frame.
func (s *PortAudioSource) Read() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	samples := make([]float32, len(s.latest))
	copy(samples, s.latest)
	return &Frame{Samples: samples, SampleRate: s.sampleRate}, nil
}

// capture is the PortAudio callback. Multi-channel input is averaged down
// to mono.
func (s *PortAudioSource) capture(in []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channels <= 1 {
		s.latest = s.latest[:0]
		for _, v := range in {
			s.latest = append(s.latest, v*s.amplification)
		}
		return
	}

	frames := len(in) / s.channels
	s.latest = s.latest[:0]
	for i := 0; i < frames; i++ {
		sum := float32(0)
		for ch := 0; ch < s.channels; ch++ {
			sum += in[i*s.channels+ch]
		}
		s.latest = append(s.latest, (sum/float32(s.channels))*s.amplification)
	}
}

package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

const (
	micSampleRate = 44100
	micBuffer     = 512
)

// MicSource captures the default input device through PortAudio.
type MicSource struct {
	stream *portaudio.Stream
	tap    *Tap

	mu     sync.Mutex
	closed bool
}

// OpenMic initializes PortAudio and starts capturing the default input.
// The capture callback runs on PortAudio's thread and only writes the tap.
func OpenMic() (*MicSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, errors.Wrap(err, "cannot initialize audio input")
	}

	m := &MicSource{tap: NewTap(tapFrames)}
	stream, err := portaudio.OpenDefaultStream(1, 0, micSampleRate, micBuffer, m.capture)
	if err != nil {
		portaudio.Terminate()
		return nil, errors.Wrap(err, "cannot open microphone")
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, errors.Wrap(err, "cannot start microphone")
	}
	m.stream = stream
	return m, nil
}

func (m *MicSource) capture(in []int16) {
	m.tap.WriteMono(in)
}

func (m *MicSource) Label() string   { return "microphone" }
func (m *MicSource) SampleRate() int { return micSampleRate }
func (m *MicSource) Tap() *Tap       { return m.tap }

// Close stops capture and terminates PortAudio.
func (m *MicSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var first error
	if err := m.stream.Stop(); err != nil {
		first = errors.Wrap(err, "stopping microphone")
	}
	if err := m.stream.Close(); err != nil && first == nil {
		first = errors.Wrap(err, "closing microphone")
	}
	if err := portaudio.Terminate(); err != nil && first == nil {
		first = err
	}
	return first
}

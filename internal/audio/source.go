// Package audio provides the sound sources the installation listens to:
// a looping audio file played through the speakers, or the microphone.
// Both publish PCM into a Tap read by the frame loop.
package audio

import "errors"

// ErrNoSource is returned when no audio source could be opened.
var ErrNoSource = errors.New("no audio source")

// Source is a running audio input.
type Source interface {
	// Label is a short human-readable description for the HUD.
	Label() string
	SampleRate() int
	Tap() *Tap
	Close() error
}

// tapFrames sizes a source's tap: enough for a 2048-point analysis window
// with headroom.
const tapFrames = 8192

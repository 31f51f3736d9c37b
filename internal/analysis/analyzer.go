// Package analysis turns the most recent PCM of an audio source into
// per-frame spectral snapshots.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	DefaultFFTSize = 256
	// SpectrumSize is the window of the wide spectrum, giving 1024 bins.
	SpectrumSize = 2048

	smoothing   = 0.8
	minDecibels = -100.0
	maxDecibels = -30.0

	levelLow  = 20.0
	levelHigh = 200.0
)

// Input yields the most recent mono samples of a source, oldest first.
// audio.Tap satisfies it.
type Input interface {
	Mono(n int) []float64
}

// Analyzer produces one Snapshot per frame. It is not safe for concurrent
// use; the frame loop owns it.
type Analyzer struct {
	in         Input
	sampleRate int

	fftSize int
	main    *spectrum
	wide    *spectrum
}

// New creates an analyzer with the given FFT size. Non-positive sizes
// use DefaultFFTSize.
func New(fftSize int) *Analyzer {
	if fftSize <= 0 {
		fftSize = DefaultFFTSize
	}
	return &Analyzer{
		fftSize: fftSize,
		main:    newSpectrum(fftSize),
		wide:    newSpectrum(SpectrumSize),
	}
}

// Attach selects the input. Smoothing state restarts from silence.
func (a *Analyzer) Attach(in Input, sampleRate int) {
	a.in = in
	a.sampleRate = sampleRate
	a.main.reset()
	a.wide.reset()
}

// Detach drops the input; subsequent snapshots are zero.
func (a *Analyzer) Detach() {
	a.in = nil
	a.sampleRate = 0
}

// Attached reports whether an input is selected.
func (a *Analyzer) Attached() bool { return a.in != nil }

// FFTSize returns the main analysis window length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Sample analyzes the newest samples. Without an input it returns the
// zero Snapshot.
func (a *Analyzer) Sample() Snapshot {
	if a.in == nil {
		return Snapshot{}
	}

	samples := padFront(a.in.Mono(SpectrumSize), SpectrumSize)
	var recent []float64
	if a.fftSize > SpectrumSize {
		recent = padFront(a.in.Mono(a.fftSize), a.fftSize)
	} else {
		recent = samples[SpectrumSize-a.fftSize:]
	}

	// One time-domain byte per frequency bin, from the newest samples.
	s := Snapshot{
		Valid:      true,
		Frequency:  a.main.analyze(recent),
		TimeDomain: timeDomain(recent[len(recent)/2:]),
		Spectrum:   a.wide.analyze(samples),
	}
	s.AverageVolume, s.PeakBin, s.Bands = Summarize(s.Frequency)
	s.Volume = s.AverageVolume / 255
	s.Level = Energy(s.Spectrum, a.sampleRate, levelLow, levelHigh) / 255
	return s
}

// padFront left-pads samples with silence up to n.
func padFront(samples []float64, n int) []float64 {
	if len(samples) >= n {
		return samples[len(samples)-n:]
	}
	out := make([]float64, n)
	copy(out[n-len(samples):], samples)
	return out
}

func timeDomain(samples []float64) []byte {
	out := make([]byte, len(samples))
	for i, v := range samples {
		out[i] = clampByte(128 + v*128)
	}
	return out
}

func clampByte(v float64) byte {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

// spectrum is one smoothed magnitude analysis of a fixed window size.
type spectrum struct {
	size     int
	win      []float64
	smoothed []float64
	buf      []float64
}

func newSpectrum(size int) *spectrum {
	return &spectrum{
		size:     size,
		win:      window.Hann(size),
		smoothed: make([]float64, size/2),
		buf:      make([]float64, size),
	}
}

func (s *spectrum) reset() {
	clear(s.smoothed)
}

// analyze windows and transforms samples (len == size) and returns freshly
// allocated byte magnitudes, one per bin below Nyquist.
func (s *spectrum) analyze(samples []float64) []byte {
	for i, v := range samples {
		s.buf[i] = v * s.win[i]
	}
	coeffs := fft.FFTReal(s.buf)

	out := make([]byte, len(s.smoothed))
	scale := 255 / (maxDecibels - minDecibels)
	for k := range s.smoothed {
		mag := cmplx.Abs(coeffs[k]) / float64(s.size)
		s.smoothed[k] = smoothing*s.smoothed[k] + (1-smoothing)*mag
		if s.smoothed[k] == 0 {
			continue
		}
		db := 20 * math.Log10(s.smoothed[k])
		out[k] = clampByte((db - minDecibels) * scale)
	}
	return out
}

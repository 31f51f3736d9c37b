package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	samples []float64
}

func (f *fakeInput) Mono(n int) []float64 {
	if n > len(f.samples) {
		n = len(f.samples)
	}
	out := make([]float64, n)
	copy(out, f.samples[len(f.samples)-n:])
	return out
}

func tone(freq float64, rate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}
	return out
}

func TestSampleWithoutInputIsZero(t *testing.T) {
	a := New(256)
	s := a.Sample()
	assert.False(t, s.Valid)
	assert.Equal(t, Bands{}, s.Bands)
	assert.Zero(t, s.AverageVolume)
	assert.Zero(t, s.Level)
	assert.Nil(t, s.Frequency)
}

func TestSampleShapes(t *testing.T) {
	a := New(256)
	a.Attach(&fakeInput{}, 44100)
	s := a.Sample()
	require.True(t, s.Valid)
	assert.Len(t, s.Frequency, 128)
	assert.Len(t, s.TimeDomain, 128)
	assert.Len(t, s.Spectrum, 1024)
	assert.Zero(t, s.AverageVolume, "silence maps below the decibel floor")
	for _, v := range s.TimeDomain {
		assert.Equal(t, byte(128), v)
	}
}

func TestSampleLargeWindow(t *testing.T) {
	for _, size := range []int{4096, 32768} {
		a := New(size)
		a.Attach(&fakeInput{samples: make([]float64, size)}, 44100)
		var s Snapshot
		require.NotPanics(t, func() { s = a.Sample() }, "fft size %d", size)
		assert.Len(t, s.Frequency, size/2)
		assert.Len(t, s.TimeDomain, size/2)
		assert.Len(t, s.Spectrum, SpectrumSize/2)
	}
}

func TestSamplePeakFollowsTone(t *testing.T) {
	const rate = 44100
	a := New(256)
	a.Attach(&fakeInput{samples: tone(20*rate/256.0, rate, 4096)}, rate)

	s := a.Sample()
	assert.Equal(t, 20, s.PeakBin)
	assert.Equal(t, byte(255), s.Frequency[20])
	assert.Greater(t, s.Volume, 0.0)
	assert.InDelta(t, s.AverageVolume/255, s.Volume, 1e-12)
}

func TestSampleSmoothingDecays(t *testing.T) {
	const rate = 44100
	in := &fakeInput{samples: tone(20*rate/256.0, rate, 4096)}
	a := New(256)
	a.Attach(in, rate)
	loud := a.Sample()

	in.samples = make([]float64, 4096)
	quiet := a.Sample()
	assert.Greater(t, quiet.Frequency[20], byte(0), "smoothing keeps some energy")
	assert.Less(t, quiet.AverageVolume, loud.AverageVolume)
}

func TestLevelTracksLowFrequencies(t *testing.T) {
	const rate = 44100
	low := New(256)
	low.Attach(&fakeInput{samples: tone(100, rate, 4096)}, rate)
	high := New(256)
	high.Attach(&fakeInput{samples: tone(8000, rate, 4096)}, rate)

	var lowLevel, highLevel float64
	for range 5 {
		lowLevel = low.Sample().Level
		highLevel = high.Sample().Level
	}
	assert.Greater(t, lowLevel, highLevel)
	assert.LessOrEqual(t, lowLevel, 1.0)
}

func TestSnapshotDoesNotAliasAnalyzer(t *testing.T) {
	a := New(256)
	a.Attach(&fakeInput{samples: tone(3000, 44100, 4096)}, 44100)
	first := a.Sample()
	first.Frequency[0] = 99
	second := a.Sample()
	assert.NotSame(t, &first.Frequency[0], &second.Frequency[0])
}

func TestDetach(t *testing.T) {
	a := New(0)
	assert.Equal(t, DefaultFFTSize, a.FFTSize())
	a.Attach(&fakeInput{}, 48000)
	assert.True(t, a.Attached())
	a.Detach()
	assert.False(t, a.Attached())
	assert.False(t, a.Sample().Valid)
}

func TestSummarizeBandSplit(t *testing.T) {
	freq := make([]byte, 100)
	for i := range 10 {
		freq[i] = 255
	}
	for i := 10; i < 50; i++ {
		freq[i] = 51
	}
	avg, peak, bands := Summarize(freq)
	assert.Equal(t, 0, peak)
	assert.InDelta(t, (10*255+40*51)/100.0, avg, 1e-9)
	assert.InDelta(t, 1.0, bands.Bass, 1e-9)
	assert.InDelta(t, 0.2, bands.Mid, 1e-9)
	assert.Zero(t, bands.Treble)
	assert.InDelta(t, 0.4, bands.Mean(), 1e-9)
}

func TestSummarizeFirstMaximalBin(t *testing.T) {
	_, peak, _ := Summarize([]byte{1, 9, 3, 9})
	assert.Equal(t, 1, peak)
}

func TestSummarizeTinySpectrum(t *testing.T) {
	_, _, bands := Summarize([]byte{200, 100})
	assert.Zero(t, bands.Bass, "no bins fall in the bass slice")
	assert.False(t, math.IsNaN(bands.Mid))
	assert.InDelta(t, (200+100)/2.0/255, bands.Treble, 1e-9)
}

func TestEnergyRange(t *testing.T) {
	spec := make([]byte, 1024)
	// 20 Hz and 200 Hz at 44.1 kHz round to bins 1 and 9.
	for i := 1; i <= 9; i++ {
		spec[i] = 90
	}
	spec[10] = 255
	assert.InDelta(t, 90, Energy(spec, 44100, 20, 200), 1e-9)
	assert.Zero(t, Energy(spec, 0, 20, 200))
	assert.Zero(t, Energy(nil, 44100, 20, 200))
}

func TestFrequencyValue(t *testing.T) {
	s := Snapshot{Frequency: []byte{0, 51, 255}}
	assert.InDelta(t, 0.2, s.FrequencyValue(0.5), 1e-9)
	assert.InDelta(t, 1.0, s.FrequencyValue(1), 1e-9)
	assert.Zero(t, Snapshot{}.FrequencyValue(0.5))
}

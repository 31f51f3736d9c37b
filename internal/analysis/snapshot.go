package analysis

import "math"

// Bands are normalized 0–1 levels of three contiguous spectrum slices.
type Bands struct {
	Bass   float64
	Mid    float64
	Treble float64
}

// Mean returns the average of the three bands.
func (b Bands) Mean() float64 { return (b.Bass + b.Mid + b.Treble) / 3 }

// Snapshot is one frame of audio analysis. It never aliases the
// analyzer's work buffers, so holders may keep it across frames.
type Snapshot struct {
	// Valid is false until an audio source is attached.
	Valid bool

	Frequency  []byte
	TimeDomain []byte

	// AverageVolume is the mean of Frequency in raw 0–255 units.
	AverageVolume float64
	// Volume is AverageVolume normalized to 0–1.
	Volume  float64
	PeakBin int
	Bands   Bands

	// Level is the 20–200 Hz energy of the wide spectrum, 0–1.
	Level    float64
	Spectrum []byte
}

// FrequencyValue samples Frequency at a 0–1 position, returning 0–1.
func (s Snapshot) FrequencyValue(pos float64) float64 {
	if len(s.Frequency) == 0 {
		return 0
	}
	i := int(math.Floor(pos * float64(len(s.Frequency)-1)))
	i = max(0, min(i, len(s.Frequency)-1))
	return float64(s.Frequency[i]) / 255
}

// Summarize derives the scalar features of a byte spectrum: mean level,
// index of the first loudest bin, and the bass/mid/treble split over the
// first 10%, the next 40% and the remaining 50% of bins.
func Summarize(freq []byte) (average float64, peak int, bands Bands) {
	n := len(freq)
	if n == 0 {
		return 0, 0, Bands{}
	}

	var sum int
	var loudest byte
	for i, v := range freq {
		sum += int(v)
		if v > loudest {
			loudest = v
			peak = i
		}
	}
	average = float64(sum) / float64(n)

	bassEnd := n / 10
	midEnd := n / 2
	bands = Bands{
		Bass:   meanBytes(freq[:bassEnd]) / 255,
		Mid:    meanBytes(freq[bassEnd:midEnd]) / 255,
		Treble: meanBytes(freq[midEnd:]) / 255,
	}
	return average, peak, bands
}

func meanBytes(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	var sum int
	for _, v := range b {
		sum += int(v)
	}
	return float64(sum) / float64(len(b))
}

// Energy averages spectrum bins covering lo–hi Hz inclusive, in raw 0–255
// units, for a spectrum spanning 0 to sampleRate/2.
func Energy(spectrum []byte, sampleRate int, lo, hi float64) float64 {
	if len(spectrum) == 0 || sampleRate <= 0 {
		return 0
	}
	nyquist := float64(sampleRate) / 2
	from := int(math.Round(lo / nyquist * float64(len(spectrum))))
	to := int(math.Round(hi / nyquist * float64(len(spectrum))))
	from = max(0, from)
	to = min(to, len(spectrum)-1)
	if to < from {
		return 0
	}

	var sum int
	for _, v := range spectrum[from : to+1] {
		sum += int(v)
	}
	return float64(sum) / float64(to-from+1)
}

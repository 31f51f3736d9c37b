package audio

import (
	"encoding/binary"
	"sync"
)

// frameBytes is the size of one interleaved stereo s16le frame.
const frameBytes = 4

// Tap is a thread-safe circular buffer holding the most recent PCM written
// by an audio source. Sources write from their own goroutine; the frame
// loop copies out of it once per frame.
type Tap struct {
	mu   sync.Mutex
	buf  []byte
	size int
	w    int // write position
	len  int // current fill level
}

// NewTap creates a tap holding up to frames stereo frames.
func NewTap(frames int) *Tap {
	size := frames * frameBytes
	return &Tap{buf: make([]byte, size), size: size}
}

// Write appends interleaved stereo s16le bytes, overwriting the oldest data
// when full.
func (t *Tap) Write(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(p) >= t.size {
		copy(t.buf, p[len(p)-t.size:])
		t.w = 0
		t.len = t.size
		return
	}
	n := copy(t.buf[t.w:], p)
	if n < len(p) {
		copy(t.buf, p[n:])
	}
	t.w = (t.w + len(p)) % t.size
	t.len += len(p)
	if t.len > t.size {
		t.len = t.size
	}
}

// WriteMono appends mono samples duplicated into both channels.
func (t *Tap) WriteMono(samples []int16) {
	raw := make([]byte, len(samples)*frameBytes)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*frameBytes:], uint16(s))
		binary.LittleEndian.PutUint16(raw[i*frameBytes+2:], uint16(s))
	}
	t.Write(raw)
}

// Mono returns up to n of the most recent frames mixed down to mono in
// [-1, 1], oldest first. Fewer samples are returned while the tap fills.
func (t *Tap) Mono(n int) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	frames := t.len / frameBytes
	if n > frames {
		n = frames
	}
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	start := (t.w - n*frameBytes + t.size) % t.size
	for i := range n {
		off := (start + i*frameBytes) % t.size
		l := int16(uint16(t.buf[off]) | uint16(t.buf[(off+1)%t.size])<<8)
		r := int16(uint16(t.buf[(off+2)%t.size]) | uint16(t.buf[(off+3)%t.size])<<8)
		out[i] = (float64(l) + float64(r)) / 65536.0
	}
	return out
}

// Clear resets the tap.
func (t *Tap) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = 0
	t.len = 0
}

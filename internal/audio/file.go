package audio

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

var (
	otoCtx     *oto.Context
	otoRate    int
	otoOnce    sync.Once
	otoInitErr error
)

// initOto creates the process-wide oto context. oto allows one context per
// process, so later files must share the first file's sample rate.
func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr == nil && otoRate != sampleRate {
		return nil, errors.Errorf("output already running at %d Hz, file is %d Hz", otoRate, sampleRate)
	}
	return otoCtx, otoInitErr
}

// FileSource plays an audio file through the speakers in a loop while
// mirroring the played PCM into its tap.
type FileSource struct {
	file   *os.File
	dec    decoder
	reader *tapReader
	player *oto.Player
	title  string

	mu     sync.Mutex
	closed bool
}

// OpenFile starts looping playback of the file at path.
func OpenFile(path string, volume float64) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if ch := dec.ChannelCount(); ch < 1 || ch > 2 {
		f.Close()
		return nil, errors.Errorf("unsupported channel count: %d", ch)
	}

	ctx, err := initOto(dec.SampleRate())
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "cannot open audio output")
	}

	s := &FileSource{
		file:   f,
		dec:    dec,
		reader: newTapReader(dec, NewTap(tapFrames)),
		title:  ReadMetadata(path).Title,
	}
	s.player = ctx.NewPlayer(s.reader)
	s.player.SetVolume(max(0, min(volume, 1)))
	s.player.Play()
	return s, nil
}

func (s *FileSource) Label() string {
	if s.title != "" {
		return s.title
	}
	return filepath.Base(s.file.Name())
}

func (s *FileSource) SampleRate() int { return s.dec.SampleRate() }
func (s *FileSource) Tap() *Tap       { return s.reader.tap }

// Err returns the first decode error hit during playback, if any.
func (s *FileSource) Err() error { return s.reader.Err() }

// Close stops playback and releases the file.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// tapReader feeds oto from the decoder, loops at end of stream, up-mixes
// mono to stereo and writes every whole frame it hands out into the tap.
type tapReader struct {
	dec  decoder
	tap  *Tap
	mono bool

	mu      sync.Mutex
	partial []byte
	err     error
}

func newTapReader(dec decoder, tap *Tap) *tapReader {
	return &tapReader{dec: dec, tap: tap, mono: dec.ChannelCount() == 1}
}

func (r *tapReader) Read(p []byte) (int, error) {
	src := p
	if r.mono {
		src = make([]byte, len(p)/2)
	}

	n, err := r.dec.Read(src)
	if err == io.EOF {
		if _, serr := r.dec.Seek(0, io.SeekStart); serr != nil {
			r.setErr(serr)
			return n, io.EOF
		}
		err = nil
	}
	if err != nil {
		r.setErr(err)
		return 0, err
	}

	if r.mono {
		n = upmix(p, src[:n])
	}
	r.mirror(p[:n])
	return n, nil
}

// mirror writes whole stereo frames to the tap and keeps any trailing
// partial frame for the next call.
func (r *tapReader) mirror(b []byte) {
	if len(r.partial) > 0 {
		b = append(r.partial, b...)
		r.partial = nil
	}
	whole := len(b) - len(b)%frameBytes
	r.tap.Write(b[:whole])
	if whole < len(b) {
		r.partial = append([]byte(nil), b[whole:]...)
	}
}

func upmix(dst, src []byte) int {
	samples := len(src) / 2
	for i := range samples {
		v := binary.LittleEndian.Uint16(src[i*2:])
		binary.LittleEndian.PutUint16(dst[i*4:], v)
		binary.LittleEndian.PutUint16(dst[i*4+2:], v)
	}
	return samples * 4
}

func (r *tapReader) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

func (r *tapReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

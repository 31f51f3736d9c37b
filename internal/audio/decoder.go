package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// decoder yields interleaved s16le PCM. Length is in output bytes.
type decoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

var supportedExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt reports whether files with extension ext can be decoded.
func IsSupportedExt(ext string) bool {
	return supportedExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of decodable formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (decoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return nil, fmt.Errorf("decoding MP3: %w", err)
		}
		return mp3Decoder{dec}, nil
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// mp3Decoder adapts go-mp3, which always emits 16-bit stereo.
type mp3Decoder struct {
	*mp3.Decoder
}

func (d mp3Decoder) ChannelCount() int { return 2 }

// pcmQueue holds converted bytes a caller's buffer could not take in one
// Read and tracks the output position.
type pcmQueue struct {
	pending []byte
	pos     int64
	total   int64
}

// drain copies queued bytes into p.
func (q *pcmQueue) drain(p []byte) int {
	n := copy(p, q.pending)
	q.pending = q.pending[n:]
	q.pos += int64(n)
	return n
}

// push queues raw and drains as much as p can hold.
func (q *pcmQueue) push(p, raw []byte) int {
	q.pending = raw
	return q.drain(p)
}

// resolve turns a Seek request into an absolute output position.
func (q *pcmQueue) resolve(offset int64, whence int) int64 {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = q.pos + offset
	case io.SeekEnd:
		pos = q.total + offset
	}
	return max(0, min(pos, q.total))
}

func (q *pcmQueue) reset(pos int64) {
	q.pending = nil
	q.pos = pos
}

func putSample(dst []byte, v int) {
	v = max(-32768, min(v, 32767))
	binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
}

type wavDecoder struct {
	pcmQueue
	file       *os.File
	dataStart  int64
	sampleRate int
	channels   int
	srcDepth   int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}

	depth := int(dec.BitDepth)
	channels := int(dec.NumChans)
	if depth%8 != 0 || depth == 0 || depth > 32 {
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", depth)
	}
	srcSamples := dec.PCMLen() / int64(depth/8)

	return &wavDecoder{
		pcmQueue:   pcmQueue{total: srcSamples * 2},
		file:       f,
		dataStart:  start,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		srcDepth:   depth,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	width := d.srcDepth / 8
	src := make([]byte, max(1, len(p)/2)*width)
	n, err := io.ReadFull(d.file, src)
	samples := n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		b := src[i*width:]
		var v int
		switch d.srcDepth {
		case 8:
			v = (int(b[0]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			s := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF
			}
			v = int(s >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(b)) >> 16)
		}
		putSample(raw[i*2:], v)
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.push(p, raw), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.resolve(offset, whence)
	frame := pos / int64(d.channels*2)
	src := frame * int64(d.channels*d.srcDepth/8)
	if _, err := d.file.Seek(d.dataStart+src, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.reset(pos)
	return pos, nil
}

func (d *wavDecoder) Length() int64     { return d.total }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

type flacDecoder struct {
	pcmQueue
	stream *flac.Stream
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	total := int64(stream.Info.NSamples) * int64(stream.Info.NChannels) * 2
	return &flacDecoder{pcmQueue: pcmQueue{total: total}, stream: stream}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	channels := int(d.stream.Info.NChannels)
	bps := int(d.stream.Info.BitsPerSample)
	samples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, samples*channels*2)
	for i := range samples {
		for ch := range channels {
			v := int(frame.Subframes[ch].Samples[i])
			if bps > 16 {
				v >>= bps - 16
			} else {
				v <<= 16 - bps
			}
			putSample(raw[(i*channels+ch)*2:], v)
		}
	}
	return d.push(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.resolve(offset, whence)
	sample := uint64(pos / int64(d.stream.Info.NChannels*2))
	if _, err := d.stream.Seek(sample); err != nil {
		return d.pos, err
	}
	d.reset(pos)
	return pos, nil
}

func (d *flacDecoder) Length() int64     { return d.total }
func (d *flacDecoder) SampleRate() int   { return int(d.stream.Info.SampleRate) }
func (d *flacDecoder) ChannelCount() int { return int(d.stream.Info.NChannels) }

type oggDecoder struct {
	pcmQueue
	reader *oggvorbis.Reader
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	total := reader.Length() * int64(reader.Channels()) * 2
	return &oggDecoder{pcmQueue: pcmQueue{total: total}, reader: reader}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	floats := make([]float32, max(1, len(p)/2))
	n, err := d.reader.Read(floats)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range floats[:n] {
		putSample(raw[i*2:], int(max(-1, min(s, 1))*32767))
	}
	return d.push(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.resolve(offset, whence)
	if err := d.reader.SetPosition(pos / int64(d.reader.Channels()*2)); err != nil {
		return d.pos, err
	}
	d.reset(pos)
	return pos, nil
}

func (d *oggDecoder) Length() int64     { return d.total }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }

// Package config holds the command-line settings of the installation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config is everything the program reads from its flags.
type Config struct {
	File      string  // audio file to play and analyze
	Mic       bool    // open the microphone at start instead of on the first click
	FPS       int     // frame rate of the render loop
	FFTSize   int     // analyzer window, a power of two
	LogPath   string  // log file, "" disables logging
	Seed      int64   // random seed, 0 picks one from the clock
	ModelPath string  // pigeon model on disk, "" uses the bundled one
	Volume    float64 // playback volume 0-1
}

// Default returns the settings used when no flags are given.
func Default() Config {
	return Config{
		FPS:     60,
		FFTSize: 256,
		LogPath: "pigeonviz.log",
		Volume:  1,
	}
}

// Bind registers every field on fs with c's current values as defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "file", c.File, "audio file to play (mp3, wav, ogg, flac)")
	fs.BoolVar(&c.Mic, "mic", c.Mic, "open the microphone at start (default: on the first click)")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.IntVar(&c.FFTSize, "fft", c.FFTSize, "analyzer FFT size (power of two)")
	fs.StringVar(&c.LogPath, "log", c.LogPath, `log file path ("" disables logging)`)
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 uses the clock)")
	fs.StringVar(&c.ModelPath, "model", c.ModelPath, "pigeon model file (default: bundled)")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "playback volume 0-1")
}

// Validate checks ranges. The first violation is returned wrapping
// ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.FPS < 1 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d outside [1, 240]", ErrInvalid, c.FPS)
	case c.FFTSize < 32 || c.FFTSize > 32768 || c.FFTSize&(c.FFTSize-1) != 0:
		return fmt.Errorf("%w: fft size %d must be a power of two in [32, 32768]", ErrInvalid, c.FFTSize)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %.2f outside [0, 1]", ErrInvalid, c.Volume)
	case c.File != "" && c.Mic:
		return fmt.Errorf("%w: -file and -mic are exclusive", ErrInvalid)
	}
	return nil
}

// FrameInterval is the tick period for FPS.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(c.FPS, 1))
}

// RandSeed returns Seed, or now's nanoseconds when Seed is zero.
func (c Config) RandSeed(now time.Time) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return now.UnixNano()
}

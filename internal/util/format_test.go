package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:                              "0:00",
		0:                                         "0:00",
		65 * time.Second:                          "1:05",
		time.Hour + 2*time.Minute + 3*time.Second: "1:02:03",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v): expected %q, got %q", d, want, got)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(48000); got != "48 kHz" {
		t.Fatalf("expected 48 kHz, got %q", got)
	}
	if got := FormatRate(44100); got != "44.1 kHz" {
		t.Fatalf("expected 44.1 kHz, got %q", got)
	}
}

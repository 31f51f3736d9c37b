// Package util holds small formatting helpers for the HUD.
package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a running time as m:ss, or h:mm:ss from one
// hour on. Negative durations show as 0:00.
func FormatDuration(d time.Duration) string {
	total := int(max(d, 0).Seconds())
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatRate formats a sample rate in kHz, dropping a zero fraction.
func FormatRate(hz int) string {
	if hz%1000 == 0 {
		return fmt.Sprintf("%d kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f kHz", float64(hz)/1000)
}

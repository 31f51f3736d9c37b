package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/pigeonviz/internal/analysis"
)

var meterNames = [3]string{"bass", "mid", "treble"}

// meters shows the three band levels as spring-smoothed progress bars.
type meters struct {
	bars   [3]progress.Model
	smooth springField
	shown  [3]float64
}

func newMeters(fps int) meters {
	m := meters{smooth: newSpringField(fps, 9.0, 0.75, len(meterNames))}
	gradients := [3][2]string{
		{"#1A3A8C", "#6F8CFF"},
		{"#2E7D32", "#A5D6A7"},
		{"#C62828", "#EF9A9A"},
	}
	for i := range m.bars {
		m.bars[i] = progress.New(
			progress.WithScaledGradient(gradients[i][0], gradients[i][1]),
			progress.WithoutPercentage(),
		)
		m.bars[i].Width = 10
	}
	return m
}

func (m *meters) update(snap analysis.Snapshot) {
	targets := [3]float64{snap.Bands.Bass, snap.Bands.Mid, snap.Bands.Treble}
	for i, t := range targets {
		m.shown[i] = clamp01(m.smooth.step(i, t))
	}
}

func (m *meters) resize(width int) {
	// label, space and gap per meter
	w := (width - 3*(len("treble")+3)) / 3
	w = max(6, min(w, 40))
	for i := range m.bars {
		m.bars[i].Width = w
	}
}

func (m meters) view() string {
	parts := make([]string, len(m.bars))
	for i, bar := range m.bars {
		parts[i] = labelStyle.Render(fmt.Sprintf("%-6s", meterNames[i])) + " " + bar.ViewAs(m.shown[i])
	}
	return strings.Join(parts, "  ")
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}

// joinStatus lays left and right out on one line of width w.
func joinStatus(left, right string, w int) string {
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	return left + strings.Repeat(" ", max(gap, 2)) + right
}

package main

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/pigeonviz/internal/asset"
	"github.com/olivier-w/pigeonviz/internal/audio"
	"github.com/olivier-w/pigeonviz/internal/config"
	"github.com/olivier-w/pigeonviz/internal/render"
	"github.com/olivier-w/pigeonviz/internal/ui"
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

// startupModel shows a spinner while the audio file is opened, then hands
// over to the installation model.
type startupModel struct {
	cfg     config.Config
	open    func(path string, volume float64) (audio.Source, error)
	spinner spinner.Model
	width   int
	height  int
	err     error
}

func newStartupModel(cfg config.Config) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = startupHeaderStyle

	return startupModel{cfg: cfg, open: openFile, spinner: s}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, openCmd(m.cfg, m.open))
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startupResolvedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}
	return m, nil
}

func (m startupModel) View() string {
	if m.err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("pigeonviz"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render(openingLabel(m.cfg)))
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func openingLabel(cfg config.Config) string {
	if cfg.File == "" {
		return "Starting..."
	}
	return "Opening " + filepath.Base(cfg.File) + "..."
}

// openCmd opens the configured audio file, if any, and builds the
// installation model around it.
func openCmd(cfg config.Config, open func(string, float64) (audio.Source, error)) tea.Cmd {
	return func() tea.Msg {
		var src audio.Source
		if cfg.File != "" {
			s, err := open(cfg.File, cfg.Volume)
			if err != nil {
				return startupResolvedMsg{err: fmt.Errorf("opening %s: %w", cfg.File, err)}
			}
			src = s
		}

		models, path, err := modelSource(cfg.ModelPath)
		if err != nil {
			if src != nil {
				src.Close()
			}
			return startupResolvedMsg{err: err}
		}

		model := ui.New(ui.Options{
			Source:    src,
			Mic:       cfg.Mic,
			Models:    models,
			ModelPath: path,
			FPS:       cfg.FPS,
			FFTSize:   cfg.FFTSize,
			Rand:      rand.New(rand.NewSource(cfg.RandSeed(time.Now()))),
			Profile:   render.DetectProfile(),
		})
		return startupResolvedMsg{model: model}
	}
}

// modelSource resolves the pigeon model location. An empty path selects
// the bundled model.
func modelSource(path string) (fs.FS, string, error) {
	if path == "" {
		return asset.Bundled(), "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	return os.DirFS(filepath.Dir(path)), filepath.Base(path), nil
}

func openFile(path string, volume float64) (audio.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !audio.IsSupportedExt(ext) {
		return nil, fmt.Errorf("unsupported format %s (supported: %s)", ext, audio.SupportedExtsList())
	}
	src, err := audio.OpenFile(path, volume)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#1A3A8C", Dark: "#6F8CFF"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#334466", Dark: "#C8D2FF"})
	startupHelpStyle = lipgloss.NewStyle().
				Faint(true)
)

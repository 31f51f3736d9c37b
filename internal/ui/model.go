package ui

import (
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/pigeonviz/internal/analysis"
	"github.com/olivier-w/pigeonviz/internal/audio"
	"github.com/olivier-w/pigeonviz/internal/modes"
	"github.com/olivier-w/pigeonviz/internal/overlay"
	"github.com/olivier-w/pigeonviz/internal/render"
	"github.com/olivier-w/pigeonviz/internal/scene"
	"github.com/olivier-w/pigeonviz/internal/util"
)

// Options configures a Model.
type Options struct {
	// Source is the running audio input. When nil, the first click
	// opens the microphone; Mic opens it right away instead.
	Source audio.Source
	Mic    bool
	// OpenMic opens the microphone. Defaults to audio.OpenMic.
	OpenMic func() (audio.Source, error)

	// Models holds the pigeon model. ModelPath "" loads the bundled
	// pigeon from it.
	Models    fs.FS
	ModelPath string

	FPS     int
	FFTSize int
	Rand    *rand.Rand
	Profile render.Profile
}

// Model is the Bubbletea model for the installation.
type Model struct {
	machine  *modes.Machine
	analyzer *analysis.Analyzer
	layer    *overlay.Layer
	renderer *render.Renderer

	source audio.Source

	// micTried is set by the first arm attempt; the microphone is only
	// ever requested once.
	micTried bool
	arming   bool
	openMic  func() (audio.Source, error)
	srcErr   bool

	models    fs.FS
	modelPath string
	loading   bool
	spinner   spinner.Model

	keys     keyMap
	help     help.Model
	meters   meters
	hideHUD  bool
	alert    string
	interval time.Duration

	start   time.Time
	elapsed time.Duration
	frame   string

	width    int
	height   int
	quitting bool
}

// New builds the scene, the case machine and the overlay and wires them
// to the audio source.
func New(opts Options) Model {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.FFTSize <= 0 {
		opts.FFTSize = analysis.DefaultFFTSize
	}
	if opts.OpenMic == nil {
		opts.OpenMic = openMic
	}

	machine := modes.NewMachine(scene.New(), opts.Rand)
	layer := overlay.New(opts.Rand)
	machine.Subscribe(layer)

	analyzer := analysis.New(opts.FFTSize)
	if opts.Source != nil {
		analyzer.Attach(opts.Source.Tap(), opts.Source.SampleRate())
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return Model{
		machine:   machine,
		analyzer:  analyzer,
		layer:     layer,
		renderer:  render.New(0, 0, opts.Profile),
		source:    opts.Source,
		micTried:  opts.Source == nil && opts.Mic,
		arming:    opts.Source == nil && opts.Mic,
		openMic:   opts.OpenMic,
		models:    opts.Models,
		modelPath: opts.ModelPath,
		loading:   opts.Models != nil,
		spinner:   s,
		keys:      newKeyMap(),
		help:      help.New(),
		meters:    newMeters(opts.FPS),
		interval:  time.Second / time.Duration(opts.FPS),
		start:     time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameCmd(m.interval), tea.SetWindowTitle(windowTitle(m.sourceLabel()))}
	if m.loading {
		cmds = append(cmds, loadModelCmd(m.models, m.modelPath), m.spinner.Tick)
	}
	if m.arming {
		cmds = append(cmds, armMicCmd(m.openMic))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.source != nil || m.micTried {
			return m, nil
		}
		m.micTried = true
		m.arming = true
		log.Printf("arming microphone")
		return m, armMicCmd(m.openMic)

	case micArmedMsg:
		m.arming = false
		if msg.err != nil {
			log.Printf("microphone: %v", msg.err)
			m.alert = fmt.Sprintf("Microphone unavailable: %v", msg.err)
			return m, nil
		}
		m.source = msg.source
		m.srcErr = false
		m.analyzer.Attach(m.source.Tap(), m.source.SampleRate())
		log.Printf("microphone armed at %d Hz", m.source.SampleRate())
		return m, tea.SetWindowTitle(windowTitle(m.sourceLabel()))

	case modelLoadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("model: %v", msg.err)
			m.alert = fmt.Sprintf("Could not load the pigeon: %v", msg.err)
			return m, nil
		}
		m.machine.SetTemplate(msg.pigeon)
		m.machine.SetWalk(msg.walk)
		log.Printf("pigeon model loaded")
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		m.elapsed = time.Time(msg).Sub(m.start)
		m.step()
		return m, frameCmd(m.interval)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.meters.resize(msg.Width)
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Case):
		m.machine.Switch(modes.CaseID(msg.String()[0] - '0'))
	case key.Matches(msg, m.keys.Faster):
		m.machine.SpeedUp()
	case key.Matches(msg, m.keys.Slower):
		m.machine.SlowDown()
	case key.Matches(msg, m.keys.Spawn):
		m.machine.SpawnPigeon()
	case key.Matches(msg, m.keys.Remove):
		m.machine.RemovePigeon()
	case key.Matches(msg, m.keys.Dolly):
		m.machine.DollyCamera()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.HUD):
		m.hideHUD = !m.hideHUD
		m.layout()
	}
	return m, nil
}

// step runs one frame: analyze, update the case, draw the overlay and
// render.
func (m *Model) step() {
	if src, ok := m.source.(interface{ Err() error }); ok && !m.srcErr {
		if err := src.Err(); err != nil {
			log.Printf("audio source: %v", err)
			m.srcErr = true
			m.analyzer.Detach()
		}
	}

	snap := m.analyzer.Sample()
	m.machine.Frame(modes.Tick{Audio: snap, Millis: float64(m.elapsed.Milliseconds())})
	prims := m.layer.Frame(snap)
	m.meters.update(snap)
	if m.width > 0 {
		m.frame = m.renderer.Render(m.machine.Scene(), prims)
	}
}

// layout gives the renderer every row the HUD does not use and keeps the
// overlay canvas and camera in step with it.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	rows := m.height
	if !m.hideHUD {
		rows -= lipgloss.Height(m.hudView())
	}
	m.renderer.Resize(m.width, max(rows, 1))

	w, h := m.renderer.PixelSize()
	m.layer.Resize(w, h)
	m.machine.SetViewport(w, h)
	m.machine.Scene().Camera.Aspect = m.renderer.Aspect()
}

// Close releases the audio source.
func (m Model) Close() {
	if m.source == nil {
		return
	}
	if err := m.source.Close(); err != nil {
		log.Printf("closing %s: %v", m.source.Label(), err)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.alert != "" {
		return m.alertView()
	}

	var b strings.Builder
	b.WriteString(m.frame)
	if !m.hideHUD {
		if m.frame != "" {
			b.WriteString("\n")
		}
		b.WriteString(m.hudView())
	}
	return b.String()
}

func (m Model) hudView() string {
	w := max(m.width, 40)

	left := headerStyle.Render("pigeonviz") + "  " + statusStyle.Render(m.caseText())
	if m.loading {
		left += "  " + m.spinner.View() + " " + statusStyle.Render("loading pigeon model")
	}
	sc := m.machine.Scene()
	right := statusStyle.Render(fmt.Sprintf("pigeons %d  spin %.2f  cam %.2f  %s",
		sc.Len(scene.Instances), m.machine.RotationSpeed(), sc.Camera.Position.Z, util.FormatDuration(m.elapsed)))

	lines := []string{
		joinStatus(left, right, w),
		joinStatus(m.meters.view(), sourceStyle.Render(m.sourceLabel()), w),
		m.help.View(m.keys),
	}
	return strings.Join(lines, "\n")
}

func (m Model) caseText() string {
	id := m.machine.Active()
	if id == 3 {
		return fmt.Sprintf("case %d · %s", id, m.machine.Formation())
	}
	return fmt.Sprintf("case %d", id)
}

func (m Model) sourceLabel() string {
	switch {
	case m.source != nil:
		return m.source.Label() + " · " + util.FormatRate(m.source.SampleRate())
	case m.arming:
		return "opening microphone..."
	case !m.micTried:
		return "click to listen"
	}
	return "silence"
}

func (m Model) alertView() string {
	box := alertStyle.Render(alertTitleStyle.Render("pigeonviz") + "\n\n" + m.alert + "\n\n" + labelStyle.Render("press any key"))
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func windowTitle(label string) string {
	return "pigeonviz: " + label
}

func openMic() (audio.Source, error) {
	src, err := audio.OpenMic()
	if err != nil {
		return nil, err
	}
	return src, nil
}

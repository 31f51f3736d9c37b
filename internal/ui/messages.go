package ui

import (
	"io/fs"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/pigeonviz/internal/asset"
	"github.com/olivier-w/pigeonviz/internal/audio"
)

type frameMsg time.Time

type modelLoadedMsg struct {
	pigeon *asset.Template
	walk   *asset.Template
	err    error
}

type micArmedMsg struct {
	source audio.Source
	err    error
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// loadModelCmd loads the pigeon from fsys, or the bundled pigeon when
// path is empty. The walk cycle always comes from the bundled set and
// is optional.
func loadModelCmd(fsys fs.FS, path string) tea.Cmd {
	return func() tea.Msg {
		var (
			pigeon *asset.Template
			err    error
		)
		if path == "" {
			pigeon, err = asset.LoadPigeon(fsys)
		} else {
			pigeon, err = asset.Load(fsys, path)
		}
		if err != nil {
			return modelLoadedMsg{err: err}
		}
		walk, werr := asset.LoadWalk(asset.Bundled())
		if werr != nil {
			log.Printf("walk cycle unavailable: %v", werr)
		}
		return modelLoadedMsg{pigeon: pigeon, walk: walk}
	}
}

func armMicCmd(open func() (audio.Source, error)) tea.Cmd {
	return func() tea.Msg {
		src, err := open()
		return micArmedMsg{source: src, err: err}
	}
}

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/pigeonviz/internal/config"
	"github.com/olivier-w/pigeonviz/internal/ui"
)

func main() {
	cfg := config.Default()
	cfg.Bind(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: pigeonviz [flags] [audio file]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if cfg.File == "" && flag.NArg() > 0 {
		cfg.File = flag.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "pigeonviz")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	program := tea.NewProgram(newStartupModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch m := final.(type) {
	case startupModel:
		if m.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", m.err)
			os.Exit(1)
		}
	case ui.Model:
		m.Close()
	}
}

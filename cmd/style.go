package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// outputStyles 控制 tokens / tables 输出的着色
type outputStyles struct {
	Index lipgloss.Style
	Kind  lipgloss.Style
	Key   lipgloss.Style
	Range lipgloss.Style
	Text  lipgloss.Style
}

func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
}

func newOutputStyles(w io.Writer, mode string) (*outputStyles, error) {
	color, err := colorEnabled(mode, w)
	if err != nil {
		return nil, err
	}
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return &outputStyles{Index: plain, Kind: plain, Key: plain, Range: plain, Text: plain}, nil
	}
	r.SetColorProfile(termenv.ANSI256)
	return &outputStyles{
		Index: r.NewStyle().Foreground(lipgloss.Color("8")),
		Kind:  r.NewStyle().Foreground(lipgloss.Color("12")),
		Key:   r.NewStyle().Bold(true),
		Range: r.NewStyle().Foreground(lipgloss.Color("8")),
		Text:  r.NewStyle().Foreground(lipgloss.Color("10")),
	}, nil
}

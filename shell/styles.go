package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorDir    = lipgloss.Color("39")  // Blue
	colorPrompt = lipgloss.Color("34")  // Green
	colorError  = lipgloss.Color("196") // Red
)

// styles decorates shell output. The zero value leaves text untouched.
type styles struct {
	enabled bool
	dir     lipgloss.Style
	prompt  lipgloss.Style
	err     lipgloss.Style
}

func newStyles(out io.Writer, enabled bool) styles {
	if !enabled {
		return styles{}
	}
	r := lipgloss.NewRenderer(out)
	return styles{
		enabled: true,
		dir:     r.NewStyle().Foreground(colorDir).Bold(true),
		prompt:  r.NewStyle().Foreground(colorPrompt),
		err:     r.NewStyle().Foreground(colorError),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

func (s styles) Dir(text string) string { return s.render(s.dir, text) }
func (s styles) Prompt(text string) string { return s.render(s.prompt, text) }
func (s styles) Error(text string) string { return s.render(s.err, text) }

package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/tcheck/internal/theme"
)

type AppData struct {
	Theme      theme.Theme
	Width      int
	Header     string
	TabBar     string
	Body       string
	Progress   string
	StatusLine string
	StatusErr  bool
	Modal      string
	Help       string
	Footer     string
}

// Styles are derived from a theme on every render so a theme switch takes
// effect on the next frame.
type Styles struct {
	Header    lipgloss.Style
	Panel     lipgloss.Style
	Modal     lipgloss.Style
	Title     lipgloss.Style
	Accent    lipgloss.Style
	Selected  lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Done      lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Footer    lipgloss.Style
}

func NewStyles(t theme.Theme) Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		Modal:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(t.Accent).Background(t.Surface).Padding(0, 2),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Accent:    lipgloss.NewStyle().Foreground(t.Accent),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(t.OnAccent).Background(t.Accent),
		Text:      lipgloss.NewStyle().Foreground(t.Foreground),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),
		Done:      lipgloss.NewStyle().Foreground(t.Muted).Strikethrough(true),
		Success:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Error:     lipgloss.NewStyle().Foreground(t.Error),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(t.OnAccent).Background(t.Accent).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		Footer:    lipgloss.NewStyle().Foreground(t.Muted),
	}
}

func RenderApp(data AppData) string {
	s := NewStyles(data.Theme)
	width := data.Width
	if width <= 0 {
		width = 80
	}

	lines := []string{s.Header.Render(data.Header)}
	if data.TabBar != "" {
		lines = append(lines, data.TabBar)
	}
	if data.Modal != "" {
		lines = append(lines, s.Modal.Width(width-6).Render(data.Modal))
	} else {
		lines = append(lines, s.Panel.Width(width-4).Render(data.Body))
	}
	if data.Progress != "" {
		lines = append(lines, data.Progress)
	}
	if data.StatusLine != "" {
		if data.StatusErr {
			lines = append(lines, s.Error.Render("error: "+data.StatusLine))
		} else {
			lines = append(lines, s.Success.Render(data.StatusLine))
		}
	}
	if data.Help != "" {
		lines = append(lines, s.Panel.Width(width-4).Render(data.Help))
	}
	if data.Footer != "" {
		lines = append(lines, s.Footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

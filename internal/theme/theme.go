package theme

import "github.com/charmbracelet/lipgloss"

// Theme represents a color scheme for the application.
type Theme struct {
	Key  string
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	OnAccent   lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
}

const DefaultKey = "matrix"

var table = []Theme{
	{
		Key:        "matrix",
		Name:       "Matrix",
		Background: lipgloss.Color("#000000"),
		Foreground: lipgloss.Color("#FFFFFF"),
		Accent:     lipgloss.Color("#39FF14"),
		OnAccent:   lipgloss.Color("#FFFFFF"),
		Success:    lipgloss.Color("#39FF14"),
		Error:      lipgloss.Color("#FF4444"),
		Muted:      lipgloss.Color("#666666"),
		Surface:    lipgloss.Color("#111111"),
		Border:     lipgloss.Color("#39FF14"),
	},
	{
		Key:        "dracula",
		Name:       "Dracula",
		Background: lipgloss.Color("#282A36"),
		Foreground: lipgloss.Color("#F8F8F2"),
		Accent:     lipgloss.Color("#BD93F9"),
		OnAccent:   lipgloss.Color("#FFFFFF"),
		Success:    lipgloss.Color("#50FA7B"),
		Error:      lipgloss.Color("#FF5555"),
		Muted:      lipgloss.Color("#6272A4"),
		Surface:    lipgloss.Color("#44475A"),
		Border:     lipgloss.Color("#BD93F9"),
	},
	{
		Key:        "monokai",
		Name:       "Monokai",
		Background: lipgloss.Color("#272822"),
		Foreground: lipgloss.Color("#F8F8F2"),
		Accent:     lipgloss.Color("#FD971F"),
		OnAccent:   lipgloss.Color("#FFFFFF"),
		Success:    lipgloss.Color("#A6E22E"),
		Error:      lipgloss.Color("#F92672"),
		Muted:      lipgloss.Color("#75715E"),
		Surface:    lipgloss.Color("#3E3D32"),
		Border:     lipgloss.Color("#FD971F"),
	},
	{
		Key:        "solarizedDark",
		Name:       "Solarized Dark",
		Background: lipgloss.Color("#002B36"),
		Foreground: lipgloss.Color("#839496"),
		Accent:     lipgloss.Color("#268BD2"),
		OnAccent:   lipgloss.Color("#FFFFFF"),
		Success:    lipgloss.Color("#859900"),
		Error:      lipgloss.Color("#DC322F"),
		Muted:      lipgloss.Color("#586E75"),
		Surface:    lipgloss.Color("#073642"),
		Border:     lipgloss.Color("#268BD2"),
	},
	{
		Key:        "nord",
		Name:       "Nord",
		Background: lipgloss.Color("#2E3440"),
		Foreground: lipgloss.Color("#D8DEE9"),
		Accent:     lipgloss.Color("#88C0D0"),
		OnAccent:   lipgloss.Color("#FFFFFF"),
		Success:    lipgloss.Color("#A3BE8C"),
		Error:      lipgloss.Color("#BF616A"),
		Muted:      lipgloss.Color("#4C566A"),
		Surface:    lipgloss.Color("#3B4252"),
		Border:     lipgloss.Color("#88C0D0"),
	},
}

func Lookup(key string) (Theme, bool) {
	for _, th := range table {
		if th.Key == key {
			return th, true
		}
	}
	return Theme{}, false
}

// Get returns the theme for key, or the default theme when key is unknown.
func Get(key string) Theme {
	if th, ok := Lookup(key); ok {
		return th
	}
	return Default()
}

func Default() Theme {
	th, _ := Lookup(DefaultKey)
	return th
}

// Keys returns the theme keys in display order.
func Keys() []string {
	out := make([]string, 0, len(table))
	for _, th := range table {
		out = append(out, th.Key)
	}
	return out
}

func All() []Theme {
	out := make([]Theme, len(table))
	copy(out, table)
	return out
}

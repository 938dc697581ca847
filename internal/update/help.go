package update

import (
	"fmt"

	"github.com/sandeepkv93/tcheck/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.paletteBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(m.keys),
	})
}

func (m Model) paletteBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "/add <text>", Action: "add a task to this tab"},
		{Key: "/edit <text>", Action: "replace the selected task's text"},
		{Key: "/priority <p0..p3|none>", Action: "set priority (Pro)"},
		{Key: "/tab new|close|rename|<n>", Action: "manage tabs"},
		{Key: "/theme <name>", Action: "switch theme"},
		{Key: "/upgrade", Action: "unlock Pro"},
	}
}

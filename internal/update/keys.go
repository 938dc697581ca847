package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tcheck/internal/config"
)

type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Toggle    key.Binding
	Priority  key.Binding
	NewTab    key.Binding
	CloseTab  key.Binding
	RenameTab key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Theme     key.Binding
	Premium   key.Binding
	Copy      key.Binding
	Palette   key.Binding
	Help      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func newKeyMap(km config.Keymap) keyMap {
	d := config.Default().Keys
	return keyMap{
		Quit:      bind(km.Quit, d.Quit, "quit"),
		Up:        bind(km.Up, d.Up, "move up"),
		Down:      bind(km.Down, d.Down, "move down"),
		Add:       bind(km.Add, d.Add, "add task"),
		Edit:      bind(km.Edit, d.Edit, "edit task"),
		Delete:    bind(km.Delete, d.Delete, "delete task"),
		Toggle:    bind(km.Toggle, d.Toggle, "toggle done"),
		Priority:  bind(km.Priority, d.Priority, "set priority"),
		NewTab:    bind(km.NewTab, d.NewTab, "new tab"),
		CloseTab:  bind(km.CloseTab, d.CloseTab, "close tab"),
		RenameTab: bind(km.RenameTab, d.RenameTab, "rename tab"),
		NextTab:   bind(km.NextTab, d.NextTab, "next tab"),
		PrevTab:   bind(km.PrevTab, d.PrevTab, "previous tab"),
		Theme:     bind(km.Theme, d.Theme, "theme"),
		Premium:   bind(km.Premium, d.Premium, "pro"),
		Copy:      bind(km.Copy, d.Copy, "copy text"),
		Palette:   bind(km.Palette, d.Palette, "command palette"),
		Help:      bind(km.Help, d.Help, "toggle help"),
		Confirm:   bind(km.Confirm, d.Confirm, "confirm"),
		Cancel:    bind(km.Cancel, d.Cancel, "cancel"),
	}
}

func bind(raw, fallback, desc string) key.Binding {
	keys := config.SplitKeys(raw)
	if len(keys) == 0 {
		keys = config.SplitKeys(fallback)
	}
	labels := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		labels[i] = k
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(labels, "/"), desc))
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.NextTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Add, k.Edit, k.Delete, k.Copy},
		{k.NewTab, k.CloseTab, k.RenameTab, k.NextTab, k.PrevTab},
		{k.Priority, k.Theme, k.Premium, k.Palette, k.Help, k.Quit},
	}
}

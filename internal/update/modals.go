package update

import (
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/theme"
	"github.com/sandeepkv93/tcheck/internal/views"
)

func themeFor(key string) theme.Theme {
	return theme.Get(key)
}

func themeKeys() []string {
	return theme.Keys()
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return 0
}

func (m Model) renderModal(th theme.Theme) string {
	switch m.Mode {
	case ModeAddTask:
		return views.RenderInputModal(th, "NEW TASK", m.input.View(), m.InputErr)
	case ModeEditTask:
		return views.RenderInputModal(th, "EDIT TASK", m.input.View(), m.InputErr)
	case ModeRenameTab:
		return views.RenderInputModal(th, "RENAME TAB", m.input.View(), m.InputErr)
	case ModePalette:
		return views.RenderInputModal(th, "COMMAND", m.input.View(), m.InputErr)
	case ModeConfirmDelete:
		text := ""
		if task, err := m.board.Task(m.pendingID); err == nil {
			text = task.Text
		}
		return views.RenderConfirm(th, "DELETE TASK", "Delete \""+text+"\"?")
	case ModeConfirmCloseTab:
		title := ""
		if tab, err := m.board.Tab(m.pendingID); err == nil {
			title = tab.Title
		}
		return views.RenderConfirm(th, "CLOSE TAB", "Close \""+title+"\"? Its tasks move to the first remaining tab.")
	case ModePriority:
		options := make([]views.PickerOption, 0, len(model.Priorities)+1)
		for _, p := range model.Priorities {
			options = append(options, views.PickerOption{Label: string(p), Description: p.Description()})
		}
		options = append(options, views.PickerOption{Label: "none", Description: model.PriorityUnset.Description()})
		return views.RenderPicker(th, "SET PRIORITY", options, m.PickerCursor)
	case ModeTheme:
		all := theme.All()
		options := make([]views.PickerOption, 0, len(all))
		for _, t := range all {
			desc := ""
			if t.Key == m.board.Theme() {
				desc = "current"
			}
			options = append(options, views.PickerOption{Label: t.Name, Description: desc})
		}
		return views.RenderPicker(th, "SELECT THEME", options, m.PickerCursor)
	case ModePremium:
		return views.RenderPremium(th, views.PremiumData{
			Premium:   m.board.Premium(),
			Upgrading: m.Upgrading,
			Spinner:   m.spinner.View(),
			Width:     m.width - 10,
		})
	case ModeOnboarding:
		return views.RenderOnboarding(th, OnboardingMessages[m.OnboardingStep], m.OnboardingStep, len(OnboardingMessages))
	}
	return ""
}

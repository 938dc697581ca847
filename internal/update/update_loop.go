package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tcheck/internal/analytics"
	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Mode {
		case ModeOnboarding:
			return m.handleOnboardingKey(typed), nil
		case ModeAddTask, ModeEditTask, ModeRenameTab:
			return m.handleInputKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		case ModeConfirmDelete, ModeConfirmCloseTab:
			return m.handleConfirmKey(typed), nil
		case ModePriority, ModeTheme:
			return m.handlePickerKey(typed), nil
		case ModePremium:
			return m.handlePremiumKey(typed)
		}
		return m.handleListKey(typed)
	case spinner.TickMsg:
		if m.Upgrading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(typed)
			return m, cmd
		}
	case upgradeDoneMsg:
		m.Upgrading = false
		if typed.err != nil {
			m.setError(fmt.Errorf("upgrade failed: %w", typed.err))
			return m, nil
		}
		m.setStatus("Welcome to Pro! Priority levels unlocked")
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.setError(typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if _, err := m.board.ToggleTask(m.ctx, task.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.followTask(task.ID)
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.tracker.Track(analytics.ButtonClicked("add_task", "tasks"))
		return m.openInput(ModeAddTask, "", ""), nil
	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m.openInput(ModeEditTask, task.ID, task.Text), nil
	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.openModal(ModeConfirmDelete)
		m.pendingID = task.ID
		return m, nil
	case key.Matches(msg, m.keys.Priority):
		return m.openPriorityPicker(), nil
	case key.Matches(msg, m.keys.NewTab):
		m.tracker.Track(analytics.ButtonClicked("new_tab", "tabs"))
		if _, err := m.board.AddTab(m.ctx, ""); err != nil {
			m.setError(err)
			return m, nil
		}
		m.Cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.CloseTab):
		if len(m.board.Tabs()) < 2 {
			m.setError(board.ErrLastTab)
			return m, nil
		}
		m.openModal(ModeConfirmCloseTab)
		m.pendingID = m.board.ActiveTab()
		return m, nil
	case key.Matches(msg, m.keys.RenameTab):
		tab, err := m.board.Tab(m.board.ActiveTab())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		return m.openInput(ModeRenameTab, tab.ID, tab.Title), nil
	case key.Matches(msg, m.keys.NextTab):
		return m.shiftTab(1), nil
	case key.Matches(msg, m.keys.PrevTab):
		return m.shiftTab(-1), nil
	case key.Matches(msg, m.keys.Theme):
		m.openModal(ModeTheme)
		m.PickerCursor = indexOf(themeKeys(), m.board.Theme())
		return m, nil
	case key.Matches(msg, m.keys.Premium):
		m.openModal(ModePremium)
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.clipboard(task.Text); err != nil {
			m.setError(fmt.Errorf("copy failed: %w", err))
			return m, nil
		}
		m.setStatus("copied to clipboard")
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		m.openModal(ModePalette)
		m.input.Prompt = "/"
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		return m.selectTabIndex(int(msg.Runes[0] - '0')), nil
	}
	return m, nil
}

func (m Model) openInput(mode Mode, pendingID, value string) Model {
	m.openModal(mode)
	m.pendingID = pendingID
	m.input.Prompt = "> "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m Model) shiftTab(delta int) Model {
	tabs := m.board.Tabs()
	i := 0
	for j, tab := range tabs {
		if tab.ID == m.board.ActiveTab() {
			i = j
		}
	}
	next := (i + delta + len(tabs)) % len(tabs)
	return m.selectTabIndex(next + 1)
}

func (m Model) selectTabIndex(n int) Model {
	tabs := m.board.Tabs()
	if n < 1 || n > len(tabs) {
		return m
	}
	if err := m.board.SelectTab(tabs[n-1].ID); err != nil {
		m.setError(err)
		return m
	}
	m.Cursor = 0
	return m
}

func (m Model) openPriorityPicker() Model {
	task, ok := m.selectedTask()
	if !ok {
		return m
	}
	if !m.board.Premium() {
		m.tracker.Track(analytics.Interaction("premium_required", "priority_change", analytics.Properties{"taskId": task.ID}))
		m.openModal(ModePremium)
		m.setStatus("Priority levels are a Pro feature")
		return m
	}
	m.openModal(ModePriority)
	m.pendingID = task.ID
	m.PickerCursor = len(model.Priorities)
	for i, p := range model.Priorities {
		if p == task.Priority {
			m.PickerCursor = i
		}
	}
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeModal()
		return m, nil
	case tea.KeyEnter:
		return m.submitInput(), nil
	case tea.KeyRunes:
		m.input.SetValue(m.input.Value() + string(msg.Runes))
		m.input.CursorEnd()
		m.InputErr = ""
		return m, nil
	case tea.KeySpace:
		m.input.SetValue(m.input.Value() + " ")
		m.input.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() Model {
	value := m.input.Value()
	var err error
	switch m.Mode {
	case ModeAddTask:
		var task model.Task
		task, err = m.board.AddTask(m.ctx, value, "")
		if err == nil {
			m.followTask(task.ID)
		}
	case ModeEditTask:
		err = m.board.UpdateTask(m.ctx, m.pendingID, value)
	case ModeRenameTab:
		err = m.board.RenameTab(m.ctx, m.pendingID, value)
	}

	switch {
	case errors.Is(err, model.ErrEmptyText):
		m.InputErr = "Task text cannot be empty"
		return m
	case errors.Is(err, model.ErrEmptyTitle):
		m.InputErr = "Tab name cannot be empty"
		return m
	case err != nil:
		m.setError(err)
	}
	m.tracker.Track(analytics.InputSubmitted(inputName(m.Mode), string(m.Mode)))
	m.closeModal()
	return m
}

func inputName(mode Mode) string {
	if mode == ModeRenameTab {
		return "tab_title"
	}
	return "task_text"
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		var err error
		if m.Mode == ModeConfirmDelete {
			err = m.board.DeleteTask(m.ctx, m.pendingID)
		} else {
			err = m.board.CloseTab(m.ctx, m.pendingID)
			m.Cursor = 0
		}
		m.tracker.Track(analytics.ModalAction(string(m.Mode), "confirm"))
		if err != nil {
			m.setError(err)
		}
		m.closeModal()
		m.clampCursor()
	case key.Matches(msg, m.keys.Cancel):
		m.tracker.Track(analytics.ModalAction(string(m.Mode), "cancel"))
		m.closeModal()
	}
	return m
}

func (m Model) handlePickerKey(msg tea.KeyMsg) Model {
	options := len(model.Priorities) + 1
	if m.Mode == ModeTheme {
		options = len(themeKeys())
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.PickerCursor > 0 {
			m.PickerCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.PickerCursor < options-1 {
			m.PickerCursor++
		}
	case key.Matches(msg, m.keys.Cancel):
		m.closeModal()
	case msg.Type == tea.KeyEnter:
		var err error
		if m.Mode == ModeTheme {
			err = m.board.SetTheme(m.ctx, themeKeys()[m.PickerCursor])
		} else {
			p := model.PriorityUnset
			if m.PickerCursor < len(model.Priorities) {
				p = model.Priorities[m.PickerCursor]
			}
			err = m.board.SetPriority(m.ctx, m.pendingID, p)
			m.followTask(m.pendingID)
		}
		m.tracker.Track(analytics.ModalAction(string(m.Mode), "select"))
		if err != nil {
			m.setError(err)
		}
		m.closeModal()
	}
	return m
}

func (m Model) handlePremiumKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Upgrading {
		return m, nil
	}
	switch {
	case msg.Type == tea.KeyEnter:
		if m.board.Premium() {
			m.closeModal()
			return m, nil
		}
		m.tracker.Track(analytics.ModalAction(string(ModePremium), "upgrade"))
		return m.startUpgrade()
	case key.Matches(msg, m.keys.Cancel):
		m.closeModal()
	}
	return m, nil
}

func (m Model) startUpgrade() (Model, tea.Cmd) {
	m.Upgrading = true
	m.setStatus("Processing upgrade...")
	return m, tea.Batch(m.spinner.Tick, upgradeCmd(m.ctx, m.board))
}

func upgradeCmd(ctx context.Context, b *board.Board) tea.Cmd {
	return func() tea.Msg {
		return upgradeDoneMsg{err: b.Upgrade(ctx)}
	}
}

func (m Model) handleOnboardingKey(msg tea.KeyMsg) Model {
	switch {
	case msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace:
		if m.OnboardingStep < len(OnboardingMessages)-1 {
			m.OnboardingStep++
			return m
		}
		return m.finishOnboarding()
	case key.Matches(msg, m.keys.Cancel):
		return m.finishOnboarding()
	}
	return m
}

func (m Model) finishOnboarding() Model {
	if err := m.board.CompleteOnboarding(m.ctx); err != nil {
		m.setError(err)
	}
	m.closeModal()
	return m
}

func (m Model) View() string {
	th := themeFor(m.board.Theme())
	active := m.board.ActiveTab()

	tabs := m.board.Tabs()
	tabData := make([]views.TabData, 0, len(tabs))
	for _, tab := range tabs {
		tabData = append(tabData, views.TabData{Title: tab.Title, Active: tab.ID == active})
	}

	tasks := m.visibleTasks()
	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, task := range tasks {
		rows = append(rows, views.TaskRowData{
			Text:      task.Text,
			Completed: task.Completed,
			Priority:  task.Priority.Label(),
			Selected:  i == m.Cursor,
		})
	}
	stats := m.board.Stats(active)

	header := "T-CHECK"
	if m.board.Premium() {
		header += " [PRO]"
	}
	help := ""
	if m.HelpVisible {
		help = m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Theme:      th,
		Width:      m.width,
		Header:     header,
		TabBar:     views.RenderTabBar(th, tabData),
		Body:       views.RenderTaskList(th, rows),
		Progress:   views.RenderProgress(th, stats.Completed, stats.Total, stats.Percentage),
		StatusLine: m.Status.Text,
		StatusErr:  m.Status.IsError,
		Modal:      m.renderModal(th),
		Help:       help,
		Footer:     m.footer(),
	})
}

func (m Model) footer() string {
	parts := make([]string, 0, 6)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " | ")
}

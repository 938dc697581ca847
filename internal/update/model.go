package update

import (
	"context"
	"io"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tcheck/internal/analytics"
	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/config"
	"github.com/sandeepkv93/tcheck/internal/model"
)

// Mode is the interaction the model is in. Every mode other than ModeList
// is a modal, and the mode value doubles as the modal name in analytics.
type Mode string

const (
	ModeList            Mode = "list"
	ModeAddTask         Mode = "add_task"
	ModeEditTask        Mode = "edit_task"
	ModeRenameTab       Mode = "rename_tab"
	ModeConfirmDelete   Mode = "delete_task"
	ModeConfirmCloseTab Mode = "close_tab"
	ModePriority        Mode = "priority"
	ModeTheme           Mode = "theme"
	ModePremium         Mode = "premium"
	ModeOnboarding      Mode = "onboarding"
	ModePalette         Mode = "palette"
)

var OnboardingMessages = []string{
	"Welcome to T-Check",
	"A terminal-inspired task manager",
	"Use tabs to organize your tasks",
	"Set priorities with P0-P3",
	"All set. Let's get things done",
}

type StatusBar struct {
	Text    string
	IsError bool
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type upgradeDoneMsg struct {
	err error
}

type Options struct {
	Board     *board.Board
	Tracker   analytics.Tracker
	Logger    *log.Logger
	Keys      config.Keymap
	Clipboard func(string) error
	Context   context.Context
}

type Model struct {
	Mode           Mode
	Cursor         int
	PickerCursor   int
	OnboardingStep int
	Upgrading      bool
	HelpVisible    bool
	Status         StatusBar
	InputErr       string
	Quitting       bool
	LastError      error

	board     *board.Board
	tracker   analytics.Tracker
	logger    *log.Logger
	keys      keyMap
	clipboard func(string) error
	ctx       context.Context
	pendingID string
	width     int
	height    int

	input     textinput.Model
	spinner   spinner.Model
	helpModel help.Model
}

func NewModel(opts Options) Model {
	m := Model{
		Mode:      ModeList,
		board:     opts.Board,
		tracker:   opts.Tracker,
		logger:    opts.Logger,
		keys:      newKeyMap(opts.Keys),
		clipboard: opts.Clipboard,
		ctx:       opts.Context,
		width:     80,
	}
	if m.tracker == nil {
		m.tracker = analytics.Nop{}
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.WriteAll
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	m.initBubbleComponents()
	if !m.board.Launched() {
		m.Mode = ModeOnboarding
		m.tracker.Track(analytics.ModalOpened(string(ModeOnboarding)))
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.CharLimit = 256
	m.input.Width = 48

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

func (m Model) visibleTasks() []model.Task {
	return m.board.TasksForTab(m.board.ActiveTab())
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// followTask moves the cursor to id after a re-sort.
func (m *Model) followTask(id string) {
	for i, task := range m.visibleTasks() {
		if task.ID == id {
			m.Cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) openModal(mode Mode) {
	m.Mode = mode
	m.InputErr = ""
	m.tracker.Track(analytics.ModalOpened(string(mode)))
}

func (m *Model) closeModal() {
	closed := m.Mode
	m.Mode = ModeList
	m.InputErr = ""
	m.pendingID = ""
	m.input.Blur()
	m.input.SetValue("")
	if closed != ModeList {
		m.tracker.Track(analytics.ModalClosed(string(closed)))
	}
}

func (m *Model) setStatus(text string) {
	m.Status = StatusBar{Text: text}
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Warn("action failed", "mode", m.Mode, "err", err)
}

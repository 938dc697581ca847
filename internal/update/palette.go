package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.input.SetValue(m.input.Value() + string(msg.Runes))
			m.input.CursorEnd()
			return m, nil
		}
		if msg.Type == tea.KeySpace {
			m.input.SetValue(m.input.Value() + " ")
			m.input.CursorEnd()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	m.closeModal()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	upgrade := false
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.board.AddTask(m.ctx, a.Text, "")
			if err != nil {
				return commands.Result{}, err
			}
			m.followTask(task.ID)
			return commands.Result{Message: fmt.Sprintf("added task: %s", task.Text)}, nil
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			if err := m.board.UpdateTask(m.ctx, task.ID, e.Text); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "task updated"}, nil
		},
		Priority: func(p commands.PriorityArgs) (commands.Result, error) {
			if !m.board.Premium() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "priority levels require Pro"}
			}
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			if err := m.board.SetPriority(m.ctx, task.ID, p.Priority); err != nil {
				return commands.Result{}, err
			}
			m.followTask(task.ID)
			return commands.Result{Message: fmt.Sprintf("priority set to %s", p.Priority.Label())}, nil
		},
		Tab: func(t commands.TabArgs) (commands.Result, error) {
			switch t.Action {
			case commands.TabNew:
				tab, err := m.board.AddTab(m.ctx, t.Title)
				if err != nil {
					return commands.Result{}, err
				}
				m.Cursor = 0
				return commands.Result{Message: fmt.Sprintf("opened tab %s", tab.Title)}, nil
			case commands.TabClose:
				if err := m.board.CloseTab(m.ctx, m.board.ActiveTab()); err != nil {
					return commands.Result{}, err
				}
				m.Cursor = 0
				return commands.Result{Message: "tab closed"}, nil
			case commands.TabRename:
				if err := m.board.RenameTab(m.ctx, m.board.ActiveTab(), t.Title); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("tab renamed to %s", t.Title)}, nil
			default:
				if t.Index > len(m.board.Tabs()) {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no tab %d", t.Index)}
				}
				m = m.selectTabIndex(t.Index)
				return commands.Result{Message: fmt.Sprintf("switched to tab %d", t.Index)}, nil
			}
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			err := m.board.SetTheme(m.ctx, t.Key)
			if errors.Is(err, board.ErrUnknownTheme) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown theme: %s", t.Key)}
			}
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("theme set to %s", t.Key)}, nil
		},
		Upgrade: func() (commands.Result, error) {
			if m.board.Premium() {
				return commands.Result{Message: "already Pro"}, nil
			}
			upgrade = true
			return commands.Result{Message: "Processing upgrade..."}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Debug("palette command failed", "raw", raw, "err", err)
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	if upgrade {
		m.openModal(ModePremium)
		return m.startUpgrade()
	}
	return m, nil
}

package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/tcheck/internal/theme"
)

const progressBlocks = 10

type TabData struct {
	Title  string
	Active bool
}

type TaskRowData struct {
	Text      string
	Completed bool
	Priority  string
	Selected  bool
}

type PickerOption struct {
	Label       string
	Description string
}

type PremiumFeature struct {
	Icon        string
	Title       string
	Description string
}

var PremiumFeatures = []PremiumFeature{
	{Icon: "[!]", Title: "Priority Levels", Description: "Add P0-P3 priority levels to your tasks"},
	{Icon: "[~]", Title: "Recurring Tasks", Description: "Create daily, weekly, or monthly recurring tasks"},
	{Icon: "[*]", Title: "Custom Themes", Description: "Create and customize your own themes"},
	{Icon: "[^]", Title: "Cloud Backup", Description: "Secure cloud backup of your tasks and settings"},
	{Icon: "[/]", Title: "Command Palette", Description: "Quick actions with keyboard shortcuts"},
}

type PremiumData struct {
	Premium   bool
	Upgrading bool
	Spinner   string
	Width     int
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

// RenderTabBar draws tabs left to right. The close marker appears only
// when closing is allowed, which needs at least two tabs.
func RenderTabBar(t theme.Theme, tabs []TabData) string {
	s := NewStyles(t)
	closable := len(tabs) > 1
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d:%s", i+1, tab.Title)
		if closable {
			label += " x"
		}
		if tab.Active {
			parts = append(parts, s.ActiveTab.Render(label))
		} else {
			parts = append(parts, s.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func RenderTaskList(t theme.Theme, rows []TaskRowData) string {
	s := NewStyles(t)
	if len(rows) == 0 {
		return s.Muted.Render("> no tasks yet. press a to add one")
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		box := "[ ]"
		if row.Completed {
			box = "[x]"
		}
		badge := s.Accent.Render(row.Priority)
		text := s.Text.Render(row.Text)
		if row.Completed {
			text = s.Done.Render(row.Text)
			badge = s.Muted.Render(row.Priority)
		}
		line := fmt.Sprintf("%s %s %s", box, badge, text)
		if row.Selected {
			line = s.Accent.Render(">") + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ProgressBar is ten blocks filled in proportion to pct, rounded.
func ProgressBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(math.Round(float64(pct) / 100 * progressBlocks))
	return "[" + strings.Repeat("■", filled) + strings.Repeat("□", progressBlocks-filled) + "]"
}

func RenderProgress(t theme.Theme, completed, total, pct int) string {
	s := NewStyles(t)
	label := fmt.Sprintf("%d%% COMPLETE", pct)
	styled := s.Accent.Render(label)
	if pct == 100 {
		styled = s.Success.Render(label)
	}
	stats := s.Muted.Render(fmt.Sprintf("%d/%d Tasks Complete", completed, total))
	return fmt.Sprintf("%s %s  %s", s.Accent.Render(ProgressBar(pct)), styled, stats)
}

func RenderInputModal(t theme.Theme, title, input, errText string) string {
	s := NewStyles(t)
	lines := []string{s.Title.Render(title), input}
	if errText != "" {
		lines = append(lines, s.Error.Render(errText))
	}
	lines = append(lines, s.Muted.Render("enter submit | esc cancel"))
	return strings.Join(lines, "\n")
}

func RenderConfirm(t theme.Theme, title, body string) string {
	s := NewStyles(t)
	return strings.Join([]string{
		s.Title.Render(title),
		s.Text.Render(body),
		s.Muted.Render("y confirm | n cancel"),
	}, "\n")
}

func RenderPicker(t theme.Theme, title string, options []PickerOption, cursor int) string {
	s := NewStyles(t)
	lines := []string{s.Title.Render(title)}
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label += "  " + s.Muted.Render(opt.Description)
		}
		if i == cursor {
			lines = append(lines, s.Accent.Render("> ")+label)
		} else {
			lines = append(lines, "  "+label)
		}
	}
	lines = append(lines, s.Muted.Render("j/k move | enter select | esc cancel"))
	return strings.Join(lines, "\n")
}

func premiumMarkdown() string {
	var b strings.Builder
	for _, f := range PremiumFeatures {
		fmt.Fprintf(&b, "- `%s` **%s**: %s\n", f.Icon, f.Title, f.Description)
	}
	return b.String()
}

func RenderPremium(t theme.Theme, data PremiumData) string {
	s := NewStyles(t)
	title := "UPGRADE TO PRO"
	if data.Premium {
		title = "PRO FEATURES"
	}
	subtitle := "Unlock all premium features"
	switch {
	case data.Premium:
		subtitle = "Thank you for being a Pro user!"
	case data.Upgrading:
		subtitle = data.Spinner + " Processing upgrade..."
	}

	lines := []string{
		s.Title.Render(title),
		s.Text.Render("$2") + s.Muted.Render("/month"),
		s.Muted.Render(subtitle),
		RenderMarkdown(premiumMarkdown(), data.Width),
	}
	switch {
	case data.Premium:
		lines = append(lines, s.Muted.Render("esc close"))
	case data.Upgrading:
		lines = append(lines, s.Muted.Render("PROCESSING..."))
	default:
		lines = append(lines, s.Muted.Render("enter UPGRADE NOW | esc MAYBE LATER"))
	}
	return strings.Join(lines, "\n")
}

func RenderOnboarding(t theme.Theme, message string, step, total int) string {
	s := NewStyles(t)
	hint := "enter next | esc skip"
	if step == total-1 {
		hint = "enter START"
	}
	return strings.Join([]string{
		s.Title.Render("> " + message),
		s.Muted.Render(fmt.Sprintf("%d/%d", step+1, total)),
		s.Muted.Render(hint),
	}, "\n")
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	for _, line := range data.Bindings {
		b.WriteString(line + "\n")
	}
	if data.HelpView != "" {
		b.WriteString(data.HelpView)
	}
	return strings.TrimSpace(b.String())
}

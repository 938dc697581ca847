package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tcheck/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeEdit     Type = "edit"
	TypePriority Type = "priority"
	TypeTab      Type = "tab"
	TypeTheme    Type = "theme"
	TypeUpgrade  Type = "upgrade"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// EditArgs applies to the selected task.
type EditArgs struct {
	Text string
}

type PriorityArgs struct {
	Priority model.Priority
}

type TabAction string

const (
	TabNew    TabAction = "new"
	TabClose  TabAction = "close"
	TabRename TabAction = "rename"
	TabSelect TabAction = "select"
)

type TabArgs struct {
	Action TabAction
	Title  string
	// Index is 1-based, set for TabSelect.
	Index int
}

type ThemeArgs struct {
	Key string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Edit     *EditArgs
	Priority *PriorityArgs
	Tab      *TabArgs
	Theme    *ThemeArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypePriority:
		return parsePriority(input, args)
	case TypeTab:
		return parseTab(input, args)
	case TypeTheme:
		return parseTheme(input, args)
	case TypeUpgrade:
		return Command{Type: TypeUpgrade, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires new text"}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Text: text}}, nil
}

func parsePriority(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "priority requires one of p0, p1, p2, p3, none"}
	}
	p, err := model.ParsePriority(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypePriority, Raw: raw, Priority: &PriorityArgs{Priority: p}}, nil
}

func parseTab(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "tab requires new, close, rename or a tab number"}
	}
	rest := strings.TrimSpace(strings.Join(args[1:], " "))
	switch TabAction(strings.ToLower(args[0])) {
	case TabNew:
		return Command{Type: TypeTab, Raw: raw, Tab: &TabArgs{Action: TabNew, Title: rest}}, nil
	case TabClose:
		return Command{Type: TypeTab, Raw: raw, Tab: &TabArgs{Action: TabClose}}, nil
	case TabRename:
		if rest == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "tab rename requires a title"}
		}
		return Command{Type: TypeTab, Raw: raw, Tab: &TabArgs{Action: TabRename, Title: rest}}, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown tab action: %s", args[0])}
	}
	return Command{Type: TypeTab, Raw: raw, Tab: &TabArgs{Action: TabSelect, Index: n}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme requires a theme name"}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Key: args[0]}}, nil
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority  = errors.New("model: invalid task priority")
	ErrEmptyText        = errors.New("model: task text is required")
	ErrEmptyTitle       = errors.New("model: tab title is required")
	ErrMissingID        = errors.New("model: id is required")
	ErrMissingTab       = errors.New("model: task tab id is required")
	ErrMissingCreatedAt = errors.New("model: task created_at is required")
)

type Priority string

const (
	PriorityUnset Priority = ""
	PriorityP0    Priority = "P0"
	PriorityP1    Priority = "P1"
	PriorityP2    Priority = "P2"
	PriorityP3    Priority = "P3"
)

// Priorities lists the settable priorities from highest to lowest.
var Priorities = []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityUnset, PriorityP0, PriorityP1, PriorityP2, PriorityP3:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting. Unset ranks after P3.
func (p Priority) Rank() int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	default:
		return 4
	}
}

// Label is the short badge shown next to a task.
func (p Priority) Label() string {
	if p == PriorityUnset {
		return "p?"
	}
	return strings.ToLower(string(p))
}

func (p Priority) Description() string {
	switch p {
	case PriorityP0:
		return "Critical - Urgent tasks that need immediate attention"
	case PriorityP1:
		return "High - Important tasks to be done soon"
	case PriorityP2:
		return "Medium - Normal priority tasks"
	case PriorityP3:
		return "Low - Tasks that can wait"
	default:
		return "No priority"
	}
}

func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "unset":
		return PriorityUnset, nil
	case "p0":
		return PriorityP0, nil
	case "p1":
		return PriorityP1, nil
	case "p2":
		return PriorityP2, nil
	case "p3":
		return PriorityP3, nil
	default:
		return PriorityUnset, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	TabID     string    `json:"tabId"`
	Priority  Priority  `json:"priority,omitempty"`
}

// UnmarshalJSON accepts collections written before tabs replaced
// categories, where the owning bucket was stored under "category".
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		Category string `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task(raw.plain)
	if t.TabID == "" {
		t.TabID = raw.Category
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(t.TabID) == "" {
		return ErrMissingTab
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return ErrMissingCreatedAt
	}
	return nil
}

type Tab struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

const (
	DefaultTabID    = "main"
	DefaultTabTitle = "Main"
	// NewTabTitle is given to every new tab; titles are not made unique.
	NewTabTitle = "Tab"
)

func DefaultTabs() []Tab {
	return []Tab{{ID: DefaultTabID, Title: DefaultTabTitle}}
}

func (t Tab) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Package analytics records fire-and-forget usage events. Nothing here
// feeds back into task state.
package analytics

import "time"

const (
	EventTaskCreated     = "task_created"
	EventTaskUpdated     = "task_updated"
	EventTaskDeleted     = "task_deleted"
	EventTaskToggled     = "task_toggled"
	EventPriorityChanged = "priority_changed"
	EventTabCreated      = "tab_created"
	EventTabViewed       = "tab_viewed"
	EventTabDeleted      = "tab_deleted"
	EventThemeChanged    = "theme_changed"
	EventPremiumUpgraded = "premium_upgraded"
	EventModalOpened     = "modal_opened"
	EventModalClosed     = "modal_closed"
	EventModalAction     = "modal_action"
	EventButtonClicked   = "button_clicked"
	EventInputSubmitted  = "input_submitted"
	EventInteraction     = "user_interaction"
)

type Properties map[string]any

type Event struct {
	Name       string     `json:"name"`
	Properties Properties `json:"properties,omitempty"`
	At         time.Time  `json:"at"`
}

// Tracker accepts events without blocking the caller.
type Tracker interface {
	Track(Event)
}

type Nop struct{}

func (Nop) Track(Event) {}

func newEvent(name string, props Properties) Event {
	return Event{Name: name, Properties: props}
}

func TaskCreated(tabID string) Event {
	return newEvent(EventTaskCreated, Properties{"tabId": tabID})
}

func TaskUpdated(taskID, tabID string) Event {
	return newEvent(EventTaskUpdated, Properties{"taskId": taskID, "tabId": tabID})
}

func TaskDeleted(taskID, tabID string) Event {
	return newEvent(EventTaskDeleted, Properties{"taskId": taskID, "tabId": tabID})
}

func TaskToggled(taskID string, completed bool) Event {
	return newEvent(EventTaskToggled, Properties{"taskId": taskID, "completed": completed})
}

func PriorityChanged(taskID, priority string) Event {
	return newEvent(EventPriorityChanged, Properties{"taskId": taskID, "priority": priority})
}

func TabCreated(tabID string) Event {
	return newEvent(EventTabCreated, Properties{"tabId": tabID})
}

func TabViewed(tabID string) Event {
	return newEvent(EventTabViewed, Properties{"tabId": tabID})
}

func TabDeleted(tabID string) Event {
	return newEvent(EventTabDeleted, Properties{"tabId": tabID})
}

func ThemeChanged(themeName string) Event {
	return newEvent(EventThemeChanged, Properties{"themeName": themeName})
}

func PremiumUpgraded() Event {
	return newEvent(EventPremiumUpgraded, nil)
}

func ModalOpened(modal string) Event {
	return newEvent(EventModalOpened, Properties{"modalName": modal})
}

func ModalClosed(modal string) Event {
	return newEvent(EventModalClosed, Properties{"modalName": modal})
}

func ModalAction(modal, action string) Event {
	return newEvent(EventModalAction, Properties{"modalName": modal, "action": action})
}

func ButtonClicked(button, context string) Event {
	return newEvent(EventButtonClicked, Properties{"buttonName": button, "context": context})
}

func InputSubmitted(input, context string) Event {
	return newEvent(EventInputSubmitted, Properties{"inputName": input, "context": context})
}

func Interaction(action, context string, details Properties) Event {
	props := Properties{"action": action, "context": context}
	for k, v := range details {
		props[k] = v
	}
	return newEvent(EventInteraction, props)
}

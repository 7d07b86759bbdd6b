package core

import (
	"coursedesk/modules/platform/routebus"
)

// EventType identifies the type of UI event
type EventType string

const (
	// Navigation events
	EventSelectTab  EventType = "go_to_tab"
	EventOpen       EventType = "go_to_route"
	EventFollowLink EventType = "follow_link"
	EventBack       EventType = "go_back"
	EventClearRoute EventType = "clear_route"

	// Session events (navigation only; authentication itself is external)
	EventSignIn     EventType = "sign_in"
	EventSignOut    EventType = "sign_out"
	EventSwitchRole EventType = "switch_role"

	// Screen data events
	EventSetTitle EventType = "set_title"

	EventRefresh EventType = "refresh"
	EventQuit    EventType = "quit"
)

// Event represents a user action in the UI
type Event struct {
	Type   EventType       `json:"type"`
	Target string          `json:"target,omitempty"` // Route, tab, link key or role
	Params routebus.Params `json:"params,omitempty"`
	Value  string          `json:"value,omitempty"` // Generic payload
}

// NewEvent creates a new event
func NewEvent(eventType EventType) *Event {
	return &Event{Type: eventType}
}

// WithTarget sets the target
func (e *Event) WithTarget(target string) *Event {
	e.Target = target
	return e
}

// WithParams sets navigation params
func (e *Event) WithParams(params routebus.Params) *Event {
	e.Params = params
	return e
}

// WithParam adds a single navigation param
func (e *Event) WithParam(key string, value any) *Event {
	if e.Params == nil {
		e.Params = make(routebus.Params)
	}
	e.Params[key] = value
	return e
}

// WithValue sets the value
func (e *Event) WithValue(value string) *Event {
	e.Value = value
	return e
}

// ============================================
// Notification events (from presenter to view)
// ============================================

// NotificationType identifies the type of notification
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// Notification represents a message to display to the user
type Notification struct {
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Duration    int              `json:"duration"` // seconds, 0 = persistent
	Dismissable bool             `json:"dismissable"`
}

// NewNotification creates a new notification
func NewNotification(ntype NotificationType, title, message string) *Notification {
	return &Notification{
		Type:        ntype,
		Title:       title,
		Message:     message,
		Duration:    5,
		Dismissable: true,
	}
}

// ============================================
// State update events (from presenter to view)
// ============================================

// StateUpdate represents a state change notification
type StateUpdate struct {
	ViewType  ViewModelType `json:"view_type"`
	ViewModel ViewModel     `json:"view_model"`
}

// ============================================
// Common event helpers
// ============================================

// TabEvent creates a top-level navigation event
func TabEvent(tab string) *Event {
	return NewEvent(EventSelectTab).WithTarget(tab)
}

// OpenEvent creates a drill-in navigation event
func OpenEvent(route string, params routebus.Params) *Event {
	return NewEvent(EventOpen).WithTarget(route).WithParams(params)
}

// LinkEvent follows the numbered link of the focused screen
func LinkEvent(key string) *Event {
	return NewEvent(EventFollowLink).WithTarget(key)
}

// BackEvent presses the header back button
func BackEvent() *Event {
	return NewEvent(EventBack)
}

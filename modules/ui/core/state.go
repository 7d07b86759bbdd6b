package core

import (
	"sync"
	"time"

	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routes"
)

// HeaderEvent records the most recent write to the header slot, shown in the
// shells' status line.
type HeaderEvent struct {
	Outcome header.Outcome
	Owner   string
	Title   string
	At      time.Time
}

// AppState represents the global application state
type AppState struct {
	mu sync.RWMutex

	Role     routes.Role
	SignedIn bool

	// Last frame sent to the views
	Frame *FrameVM

	LastRefresh   time.Time
	Notifications []*Notification

	HeaderEvent *HeaderEvent
}

// NewAppState creates a new application state
func NewAppState(role routes.Role) *AppState {
	return &AppState{
		Role:          role,
		SignedIn:      true,
		Notifications: make([]*Notification, 0),
	}
}

// SetFrame replaces the last broadcast frame
func (s *AppState) SetFrame(f *FrameVM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Frame = f
	s.LastRefresh = time.Now()
}

// GetFrame returns the last broadcast frame
func (s *AppState) GetFrame() *FrameVM {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Frame
}

// SetSession updates role and sign-in flag
func (s *AppState) SetSession(role routes.Role, signedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Role = role
	s.SignedIn = signedIn
}

// Session returns role and sign-in flag
func (s *AppState) Session() (routes.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Role, s.SignedIn
}

// AddNotification adds a notification
func (s *AppState) AddNotification(n *Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notifications = append(s.Notifications, n)
}

// ClearNotifications clears all notifications
func (s *AppState) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notifications = make([]*Notification, 0)
}

// SetHeaderEvent sets the current header event
func (s *AppState) SetHeaderEvent(event *HeaderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HeaderEvent = event
}

// GetHeaderEvent returns the current header event
func (s *AppState) GetHeaderEvent() *HeaderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.HeaderEvent
}

// SelectNotifications returns all notifications
func SelectNotifications(state *AppState) []*Notification {
	state.mu.RLock()
	defer state.mu.RUnlock()
	out := make([]*Notification, len(state.Notifications))
	copy(out, state.Notifications)
	return out
}

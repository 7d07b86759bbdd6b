package core

import (
	"context"

	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"
)

// View is the interface both presentation shells implement
type View interface {
	// Initialize sets up the view
	Initialize(presenter Presenter) error

	// Run starts the view's main loop (blocking)
	Run(ctx context.Context) error

	// Stop gracefully stops the view
	Stop() error

	// UpdateState updates the view with new state
	UpdateState(update StateUpdate)

	// ShowNotification displays a notification
	ShowNotification(notification *Notification)
}

// Presenter handles navigation and header state and prepares view models
type Presenter interface {
	// Initialize mounts the first screen
	Initialize(ctx context.Context) error

	// HandleEvent processes a user event
	HandleEvent(event *Event) error

	// GetViewModel returns the current view model for a view type
	GetViewModel(viewType ViewModelType) (ViewModel, error)

	// Subscribe registers a callback for state updates
	Subscribe(callback func(StateUpdate))

	// SubscribeNotifications registers a callback for notifications
	SubscribeNotifications(callback func(*Notification))

	// Refresh re-derives and re-broadcasts the current frame
	Refresh() error

	// Shutdown cleans up resources
	Shutdown() error
}

// ViewFactory creates views of different types
type ViewFactory interface {
	// CreateView creates a view of the specified type
	CreateView(viewType string, presenter Presenter) (View, error)

	// AvailableTypes returns the list of available view types
	AvailableTypes() []string
}

// Navigator is the location authority of the running shell: the native
// screen stack in the compact shell, the route bus in the wide shell.
type Navigator interface {
	// SelectTab switches top-level section and drops back history
	SelectTab(tab routes.Name, params routebus.Params)

	// Open drills into a route
	Open(name routes.Name, params routebus.Params)

	// Back goes one step back; false when there was nothing to go back to
	Back() bool

	// Reset returns to the active tab's root screen
	Reset()

	// CanGoBack reports whether Back would change the location
	CanGoBack() bool

	// Location returns a snapshot of the current location
	Location() Location

	// Subscribe registers a callback run after every location change
	Subscribe(fn func(Location)) func()
}

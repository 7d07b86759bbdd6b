package tui

import (
	"context"
	"fmt"
	"sync"

	"coursedesk/modules/ui/core"

	tea "github.com/charmbracelet/bubbletea"
)

// TUIView implements the core.View interface for the compact shell
type TUIView struct {
	mu             sync.RWMutex
	presenter      core.Presenter
	program        *tea.Program
	model          *Model
	options        []tea.ProgramOption
	ctx            context.Context
	cancel         context.CancelFunc
	pendingUpdates []core.StateUpdate // Buffered state updates if received before program starts
}

// NewTUIView creates a new TUI view. Without options the program takes over
// the terminal with the alternate screen.
func NewTUIView(opts ...tea.ProgramOption) *TUIView {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &TUIView{options: opts}
}

// Initialize sets up the view with a presenter
func (v *TUIView) Initialize(presenter core.Presenter) error {
	v.mu.Lock()
	v.presenter = presenter
	v.model = NewModel(presenter)
	v.mu.Unlock()

	// Subscribe outside the lock: the callback takes it
	presenter.Subscribe(func(update core.StateUpdate) {
		v.UpdateState(update)
	})
	presenter.SubscribeNotifications(func(n *core.Notification) {
		v.ShowNotification(n)
	})
	return nil
}

// Run starts the TUI main loop (blocking)
func (v *TUIView) Run(ctx context.Context) error {
	v.mu.Lock()
	if v.model == nil {
		v.mu.Unlock()
		return fmt.Errorf("tui view is not initialized")
	}
	v.ctx, v.cancel = context.WithCancel(ctx)
	v.program = tea.NewProgram(v.model, v.options...)
	program := v.program
	pendingUpdates := v.pendingUpdates
	v.pendingUpdates = nil
	v.mu.Unlock()

	type runResult struct {
		model tea.Model
		err   error
	}
	resultCh := make(chan runResult, 1)
	go func() {
		finalModel, err := program.Run()
		resultCh <- runResult{model: finalModel, err: err}
	}()

	for _, update := range pendingUpdates {
		program.Send(stateUpdateMsg{update: update})
	}

	select {
	case <-v.ctx.Done():
		program.Quit()
		<-resultCh
		return v.ctx.Err()
	case result := <-resultCh:
		// Bubble Tea works on copies; keep the final one
		v.mu.Lock()
		if finalModel, ok := result.model.(Model); ok {
			v.model = &finalModel
		}
		v.mu.Unlock()
		return result.err
	}
}

// Stop gracefully stops the TUI
func (v *TUIView) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	if v.program != nil {
		v.program.Quit()
	}
	return nil
}

// UpdateState forwards a presenter update to the running program
func (v *TUIView) UpdateState(update core.StateUpdate) {
	v.mu.Lock()
	program := v.program
	if program == nil {
		v.pendingUpdates = append(v.pendingUpdates, update)
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	program.Send(stateUpdateMsg{update: update})
}

// ShowNotification displays a notification
func (v *TUIView) ShowNotification(notification *core.Notification) {
	v.mu.RLock()
	program := v.program
	v.mu.RUnlock()

	if program != nil {
		program.Send(notificationMsg{notification: notification})
	}
}

// ===========================================
// ViewFactory implementation
// ===========================================

// TUIFactory creates TUI views
type TUIFactory struct {
	options []tea.ProgramOption
}

// NewTUIFactory creates a new TUI factory
func NewTUIFactory(opts ...tea.ProgramOption) *TUIFactory {
	return &TUIFactory{options: opts}
}

// CreateView creates a TUI view
func (f *TUIFactory) CreateView(_ string, presenter core.Presenter) (core.View, error) {
	view := NewTUIView(f.options...)
	if err := view.Initialize(presenter); err != nil {
		return nil, fmt.Errorf("failed to initialize TUI view: %w", err)
	}
	return view, nil
}

// AvailableTypes returns the available view types
func (f *TUIFactory) AvailableTypes() []string {
	return []string{"tui"}
}

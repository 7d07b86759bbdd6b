package web

import (
	"context"
	"fmt"
	"sync"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/eventbus"
	"coursedesk/modules/ui/core"

	"go.uber.org/zap"
)

// WebView implements core.View by publishing presenter output on an event
// bus that the WebSocket hub relays to browsers.
type WebView struct {
	mu        sync.RWMutex
	cfg       *config.WebConfig
	bus       *eventbus.Bus
	presenter core.Presenter
	server    *Server
	logger    *zap.Logger
	cancel    context.CancelFunc
}

// NewWebView creates a web view serving on cfg's address
func NewWebView(cfg *config.WebConfig, logger *zap.Logger) *WebView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebView{
		cfg:    cfg,
		bus:    eventbus.NewBus(eventbus.WithLogger(logger)),
		logger: logger,
	}
}

// Initialize subscribes to the presenter and prepares the server
func (v *WebView) Initialize(presenter core.Presenter) error {
	v.mu.Lock()
	v.presenter = presenter
	v.server = NewServer(v.cfg, presenter, v.bus, v.logger)
	v.mu.Unlock()

	presenter.Subscribe(v.UpdateState)
	presenter.SubscribeNotifications(v.ShowNotification)
	return nil
}

// Run serves until ctx is done
func (v *WebView) Run(ctx context.Context) error {
	v.mu.Lock()
	if v.server == nil {
		v.mu.Unlock()
		return fmt.Errorf("web view is not initialized")
	}
	ctx, v.cancel = context.WithCancel(ctx)
	server := v.server
	v.mu.Unlock()

	if err := server.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := server.Stop(); err != nil {
		v.logger.Warn("web server shutdown", zap.Error(err))
	}
	return nil
}

// Stop makes Run return
func (v *WebView) Stop() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.cancel != nil {
		v.cancel()
	}
	return nil
}

// UpdateState publishes a new frame to connected browsers
func (v *WebView) UpdateState(update core.StateUpdate) {
	frame, ok := update.ViewModel.(*core.FrameVM)
	if !ok {
		return
	}
	v.bus.Publish(eventbus.NewEvent(eventbus.EventFrame).
		WithSource("presenter").
		WithData("frame", frame))
}

// ShowNotification publishes a notification to connected browsers
func (v *WebView) ShowNotification(n *core.Notification) {
	v.bus.Publish(eventbus.NewEvent(eventbus.EventNotification).
		WithSource("presenter").
		WithData("notification", n))
}

// Server returns the underlying server, or nil before Initialize
func (v *WebView) Server() *Server {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.server
}

// Bus returns the event bus frames are published on
func (v *WebView) Bus() *eventbus.Bus {
	return v.bus
}

// ===========================================
// ViewFactory implementation
// ===========================================

// WebFactory creates web views
type WebFactory struct {
	cfg    *config.WebConfig
	logger *zap.Logger
}

// NewWebFactory creates a new web factory
func NewWebFactory(cfg *config.WebConfig, logger *zap.Logger) *WebFactory {
	return &WebFactory{cfg: cfg, logger: logger}
}

// CreateView creates a web view
func (f *WebFactory) CreateView(_ string, presenter core.Presenter) (core.View, error) {
	view := NewWebView(f.cfg, f.logger)
	if err := view.Initialize(presenter); err != nil {
		return nil, fmt.Errorf("failed to initialize web view: %w", err)
	}
	return view, nil
}

// AvailableTypes returns the available view types
func (f *WebFactory) AvailableTypes() []string {
	return []string{"web"}
}

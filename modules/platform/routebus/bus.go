// Package routebus implements the pseudo-router used by the wide-screen
// shell: a current-route slot, a LIFO back-navigation history and two
// listener registries (tab changes and route changes).
package routebus

import (
	"fmt"
	"maps"
	"sync"

	"coursedesk/modules/platform/routes"

	"go.uber.org/zap"
)

// Params carries navigation arguments (course id, lesson index, ...)
type Params map[string]any

// Route is a pseudo-navigation target. Routes are never mutated after
// creation; the bus hands out copies.
type Route struct {
	Name   routes.Name `json:"name"`
	Params Params      `json:"params,omitempty"`
}

func newRoute(name routes.Name, params Params) Route {
	return Route{Name: name, Params: maps.Clone(params)}
}

func (r Route) clone() *Route {
	c := newRoute(r.Name, r.Params)
	return &c
}

// TabListener is notified after a top-level section change
type TabListener func(tab routes.Name, params Params) error

// RouteListener is notified after the current route changes. A nil route
// means "no override, show the active tab's default screen".
type RouteListener func(route *Route) error

type tabSub struct {
	id int
	fn TabListener
}

type routeSub struct {
	id int
	fn RouteListener
}

// Bus is the pseudo-router. It is created once per process and passed to the
// wide shell and its screens.
type Bus struct {
	mu sync.Mutex

	current *Route
	history stack

	nextID         int
	tabListeners   []tabSub
	routeListeners []routeSub

	logger *zap.Logger
}

// Option configures a Bus
type Option func(*Bus)

// WithLogger sets the logger used to report failing listeners
func WithLogger(l *zap.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates an empty bus: no current route, no history.
func New(opts ...Option) *Bus {
	b := &Bus{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnTabChange registers a tab listener. The returned function unsubscribes
// it and may be called any number of times.
func (b *Bus) OnTabChange(fn TabListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.tabListeners = append(b.tabListeners, tabSub{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.tabListeners {
			if sub.id == id {
				b.tabListeners = append(b.tabListeners[:i:i], b.tabListeners[i+1:]...)
				return
			}
		}
	}
}

// OnRouteChange registers a route listener. The returned function
// unsubscribes it and may be called any number of times.
func (b *Bus) OnRouteChange(fn RouteListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.routeListeners = append(b.routeListeners, routeSub{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.routeListeners {
			if sub.id == id {
				b.routeListeners = append(b.routeListeners[:i:i], b.routeListeners[i+1:]...)
				return
			}
		}
	}
}

// GoToTab switches top-level section. The current route and the whole
// history are dropped: top-level navigation is never reachable via back.
func (b *Bus) GoToTab(tab routes.Name, params Params) {
	b.mu.Lock()
	b.current = nil
	b.history.clear()
	listeners := make([]tabSub, len(b.tabListeners))
	copy(listeners, b.tabListeners)
	b.mu.Unlock()

	for _, sub := range listeners {
		b.call("tab", func() error { return sub.fn(tab, maps.Clone(params)) })
	}
}

// GoToRoute makes {name, params} the current route, pushing the previous
// one (if any) onto the history. Identical consecutive calls are not
// deduplicated: each one pushes a frame so "revisit same route" flows can
// back out one step at a time.
func (b *Bus) GoToRoute(name routes.Name, params Params) *Route {
	next := newRoute(name, params)

	b.mu.Lock()
	if b.current != nil {
		b.history.push(*b.current)
	}
	b.current = &next
	b.mu.Unlock()

	b.notifyRoute(&next)
	return next.clone()
}

// ClearRoute drops the current route without touching history.
func (b *Bus) ClearRoute() {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()

	b.notifyRoute(nil)
}

// GoBack restores the most recent history entry and returns it with true.
// With an empty history it clears the current route and returns false; the
// caller must then fall back to tab-level or screen-stack navigation.
func (b *Bus) GoBack() (*Route, bool) {
	b.mu.Lock()
	prev, ok := b.history.pop()
	if !ok {
		b.mu.Unlock()
		b.ClearRoute()
		return nil, false
	}
	b.current = &prev
	b.mu.Unlock()

	b.notifyRoute(&prev)
	return prev.clone(), true
}

// CurrentRoute returns a copy of the current route, or nil
func (b *Bus) CurrentRoute() *Route {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	return b.current.clone()
}

// HasHistory reports whether GoBack would restore a route
func (b *Bus) HasHistory() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.len() > 0
}

// Depth returns the number of history frames
func (b *Bus) Depth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.len()
}

// Previous returns the route GoBack would restore, without popping it.
func (b *Bus) Previous() *Route {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.history.peek()
	if !ok {
		return nil
	}
	return r.clone()
}

func (b *Bus) notifyRoute(r *Route) {
	b.mu.Lock()
	listeners := make([]routeSub, len(b.routeListeners))
	copy(listeners, b.routeListeners)
	b.mu.Unlock()

	for _, sub := range listeners {
		var arg *Route
		if r != nil {
			arg = r.clone()
		}
		b.call("route", func() error { return sub.fn(arg) })
	}
}

// call runs one listener. Errors and panics are logged and swallowed so the
// remaining listeners are still notified.
func (b *Bus) call(kind string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Warn("route bus listener panicked",
				zap.String("kind", kind),
				zap.String("panic", fmt.Sprint(rec)))
		}
	}()
	if err := fn(); err != nil {
		b.logger.Debug("route bus listener failed",
			zap.String("kind", kind),
			zap.Error(err))
	}
}

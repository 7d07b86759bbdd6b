package core

import (
	"maps"
	"sync"

	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"
)

// Frame is one mounted screen position. IDs are unique per navigator, so a
// screen revisited through back navigation keeps its frame (and its header
// owner) while a fresh visit gets a new one.
type Frame struct {
	ID    uint64
	Route routebus.Route
}

// Location is a snapshot of where the user is
type Location struct {
	// Seq increases on every change
	Seq uint64
	Tab routes.Name
	// Current is the drill-in route on top of the tab root, or nil
	Current *routebus.Route
	// Frames lists the mounted screens, focused screen last
	Frames []Frame
	// Depth is the number of back steps available
	Depth int
}

// Top returns the focused frame
func (l Location) Top() (Frame, bool) {
	if len(l.Frames) == 0 {
		return Frame{}, false
	}
	return l.Frames[len(l.Frames)-1], true
}

// Active returns the focused screen's route name
func (l Location) Active() routes.Name {
	if top, ok := l.Top(); ok {
		return top.Route.Name
	}
	return l.Tab
}

func cloneRoute(r routebus.Route) routebus.Route {
	return routebus.Route{Name: r.Name, Params: maps.Clone(r.Params)}
}

type locationSub struct {
	id int
	fn func(Location)
}

// subscribers is the listener registry shared by both navigators
type subscribers struct {
	mu     sync.Mutex
	nextID int
	subs   []locationSub
}

func (s *subscribers) add(fn func(Location)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, locationSub{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers) emit(loc Location) {
	s.mu.Lock()
	subs := make([]locationSub, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(loc)
	}
}

// ============================================
// Compact shell: native screen stack
// ============================================

// StackNavigator is the compact shell's screen-stack router. The bottom frame
// is the active tab's root; drill-in screens are pushed on top and stay
// mounted underneath while covered.
type StackNavigator struct {
	mu     sync.Mutex
	tab    routes.Name
	frames []Frame
	seq    uint64
	nextID uint64
	subs   subscribers
}

// NewStackNavigator creates an empty screen stack
func NewStackNavigator() *StackNavigator {
	return &StackNavigator{}
}

func (n *StackNavigator) newFrame(name routes.Name, params routebus.Params) Frame {
	n.nextID++
	return Frame{ID: n.nextID, Route: routebus.Route{Name: name, Params: maps.Clone(params)}}
}

// SelectTab replaces the whole stack with the tab's root screen
func (n *StackNavigator) SelectTab(tab routes.Name, params routebus.Params) {
	n.mu.Lock()
	n.tab = tab
	n.frames = []Frame{n.newFrame(tab, params)}
	loc := n.changedLocked()
	n.mu.Unlock()
	n.subs.emit(loc)
}

// Open pushes a screen
func (n *StackNavigator) Open(name routes.Name, params routebus.Params) {
	n.mu.Lock()
	if len(n.frames) == 0 {
		n.tab = name
	}
	n.frames = append(n.frames, n.newFrame(name, params))
	loc := n.changedLocked()
	n.mu.Unlock()
	n.subs.emit(loc)
}

// Back pops the top screen. The tab root is never popped.
func (n *StackNavigator) Back() bool {
	n.mu.Lock()
	if len(n.frames) <= 1 {
		n.mu.Unlock()
		return false
	}
	n.frames[len(n.frames)-1] = Frame{}
	n.frames = n.frames[:len(n.frames)-1]
	loc := n.changedLocked()
	n.mu.Unlock()
	n.subs.emit(loc)
	return true
}

// Reset pops to the tab root
func (n *StackNavigator) Reset() {
	n.mu.Lock()
	if len(n.frames) <= 1 {
		n.mu.Unlock()
		return
	}
	clear(n.frames[1:])
	n.frames = n.frames[:1]
	loc := n.changedLocked()
	n.mu.Unlock()
	n.subs.emit(loc)
}

// CanGoBack reports whether a screen is stacked on the tab root
func (n *StackNavigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.frames) > 1
}

// Location returns a snapshot of the stack
func (n *StackNavigator) Location() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.locationLocked()
}

// Subscribe registers a location listener
func (n *StackNavigator) Subscribe(fn func(Location)) func() {
	return n.subs.add(fn)
}

func (n *StackNavigator) changedLocked() Location {
	n.seq++
	return n.locationLocked()
}

func (n *StackNavigator) locationLocked() Location {
	loc := Location{Seq: n.seq, Tab: n.tab, Frames: make([]Frame, len(n.frames))}
	for i, f := range n.frames {
		loc.Frames[i] = Frame{ID: f.ID, Route: cloneRoute(f.Route)}
	}
	if len(n.frames) > 1 {
		top := cloneRoute(n.frames[len(n.frames)-1].Route)
		loc.Current = &top
		loc.Depth = len(n.frames) - 1
	}
	return loc
}

// ============================================
// Wide shell: route bus
// ============================================

// BusNavigator adapts the route bus to the Navigator interface. It listens
// to the bus, so navigation issued directly on the bus is reflected too. The
// wide shell shows one screen at a time: the current route, or the tab root
// when there is none.
type BusNavigator struct {
	bus *routebus.Bus

	mu      sync.Mutex
	tab     routes.Name
	tabArgs routebus.Params
	current *routebus.Route
	frame   Frame
	seq     uint64
	nextID  uint64

	subs   subscribers
	unsubs []func()
}

// NewBusNavigator subscribes to bus
func NewBusNavigator(bus *routebus.Bus) *BusNavigator {
	n := &BusNavigator{bus: bus}
	n.unsubs = []func(){
		bus.OnTabChange(n.onTab),
		bus.OnRouteChange(n.onRoute),
	}
	return n
}

// Bus returns the underlying route bus
func (n *BusNavigator) Bus() *routebus.Bus {
	return n.bus
}

// Close detaches from the bus
func (n *BusNavigator) Close() {
	for _, unsub := range n.unsubs {
		unsub()
	}
}

func (n *BusNavigator) newFrame(r routebus.Route) Frame {
	n.nextID++
	return Frame{ID: n.nextID, Route: cloneRoute(r)}
}

func (n *BusNavigator) onTab(tab routes.Name, params routebus.Params) error {
	n.mu.Lock()
	n.tab = tab
	n.tabArgs = params
	n.current = nil
	n.frame = n.newFrame(routebus.Route{Name: tab, Params: params})
	n.seq++
	loc := n.locationLocked()
	n.mu.Unlock()

	n.subs.emit(loc)
	return nil
}

func (n *BusNavigator) onRoute(r *routebus.Route) error {
	n.mu.Lock()
	if r == nil {
		if n.current == nil {
			// already on the tab root
			n.mu.Unlock()
			return nil
		}
		n.current = nil
		n.frame = n.newFrame(routebus.Route{Name: n.tab, Params: n.tabArgs})
	} else {
		c := cloneRoute(*r)
		n.current = &c
		n.frame = n.newFrame(c)
	}
	n.seq++
	loc := n.locationLocked()
	n.mu.Unlock()

	n.subs.emit(loc)
	return nil
}

// SelectTab goes to a top-level section
func (n *BusNavigator) SelectTab(tab routes.Name, params routebus.Params) {
	n.bus.GoToTab(tab, params)
}

// Open pushes a pseudo-route
func (n *BusNavigator) Open(name routes.Name, params routebus.Params) {
	n.bus.GoToRoute(name, params)
}

// Back restores the previous pseudo-route. When the history is empty the bus
// clears the current route, which lands on the tab root; that still counts
// as going back if a route was shown.
func (n *BusNavigator) Back() bool {
	n.mu.Lock()
	hadRoute := n.current != nil
	n.mu.Unlock()

	_, ok := n.bus.GoBack()
	return ok || hadRoute
}

// Reset clears the current pseudo-route
func (n *BusNavigator) Reset() {
	n.bus.ClearRoute()
}

// CanGoBack reports whether a pseudo-route is shown over the tab root
func (n *BusNavigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current != nil
}

// Location returns a snapshot
func (n *BusNavigator) Location() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.locationLocked()
}

// Subscribe registers a location listener
func (n *BusNavigator) Subscribe(fn func(Location)) func() {
	return n.subs.add(fn)
}

func (n *BusNavigator) locationLocked() Location {
	loc := Location{Seq: n.seq, Tab: n.tab}
	if n.frame.ID != 0 {
		loc.Frames = []Frame{{ID: n.frame.ID, Route: cloneRoute(n.frame.Route)}}
	}
	if n.current != nil {
		c := cloneRoute(*n.current)
		loc.Current = &c
		loc.Depth = n.bus.Depth() + 1
	}
	return loc
}

package header

import (
	"fmt"
	"sync"
	"time"

	"coursedesk/modules/platform/routes"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDebounceWindow is how long a clear suppresses an identical re-set.
const DefaultDebounceWindow = 800 * time.Millisecond

// Listener is called after the slot changes. slot is nil after a clear.
type Listener func(slot *Descriptor)

type listenerSub struct {
	id int
	fn Listener
}

// Store is the single-slot header container. Every screen writes through it;
// the guard chain decides which write wins.
type Store struct {
	mu sync.Mutex

	slot      *Descriptor
	lastClear *ClearRecord

	clock  Clock
	window time.Duration
	guards []Guard

	stamps      sequence
	generations sequence

	activeRoute func() routes.Name
	isAuth      func(routes.Name) bool

	nextID    int
	listeners []listenerSub

	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock used by the debounce window
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDebounceWindow overrides DefaultDebounceWindow
func WithDebounceWindow(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithRouteTable lets the store recognize sign-in routes
func WithRouteTable(t *routes.Table) Option {
	return func(s *Store) {
		if t != nil {
			s.isAuth = t.IsAuth
		}
	}
}

// WithActiveRoute sets the source of the active top-level route
func WithActiveRoute(fn func() routes.Name) Option {
	return func(s *Store) {
		s.activeRoute = fn
	}
}

// WithLogger sets the logger for guard decisions and listener failures
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		clock:  SystemClock,
		window: DefaultDebounceWindow,
		guards: Chain,
		isAuth: func(routes.Name) bool { return false },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetActiveRoute replaces the active-route source. Shells call it once they
// know which authority (screen stack or route bus) is in charge.
func (s *Store) SetActiveRoute(fn func() routes.Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRoute = fn
}

// Mount mints the owner capability for a newly mounted screen. Every call
// yields a fresh owner with a larger generation than all previous ones.
func (s *Store) Mount(screen routes.Name) Owner {
	return Owner{
		screen: screen,
		token:  uuid.New(),
		gen:    s.generations.next(),
	}
}

// Stamp returns a fresh logical timestamp. Screens that build a descriptor
// ahead of writing it can stamp it at build time so that a slower write
// loses to a newer one from another owner.
func (s *Store) Stamp() uint64 {
	return s.stamps.next()
}

// Current returns a copy of the slot, or nil
func (s *Store) Current() *Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot.clone()
}

// LastClear returns the most recent clear record, or nil
func (s *Store) LastClear() *ClearRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastClear == nil {
		return nil
	}
	c := *s.lastClear
	return &c
}

// Set writes d into the slot, or clears the slot when d is nil.
//
// A nil write always clears (there is no owner check); screens releasing
// their own header should use Release instead. A non-nil write is stamped if
// needed and run through the guard chain; the first rejecting guard leaves
// the slot unchanged.
func (s *Store) Set(d *Descriptor) Result {
	s.mu.Lock()
	if d == nil {
		res := s.clearLocked()
		s.mu.Unlock()
		s.publish(res)
		return res
	}

	in := d.clone()
	if in.Stamp == 0 {
		in.Stamp = s.stamps.next()
	}

	input := Input{
		Prev:      s.slot,
		Incoming:  in,
		LastClear: s.lastClear,
		Now:       s.clock.Now(),
		Window:    s.window,
		AuthRoute: s.onAuthRoute(),
	}
	outcome := Evaluate(s.guards, input)
	if outcome != OutcomeAccepted {
		res := Result{Slot: s.slot.clone(), Outcome: outcome}
		s.mu.Unlock()
		s.logger.Debug("header write rejected",
			zap.Stringer("outcome", outcome),
			zap.Stringer("owner", in.Owner),
			zap.String("title", in.TitleText()))
		return res
	}

	s.lastClear = nil
	s.slot = in
	res := Result{Slot: in.clone(), Outcome: OutcomeAccepted}
	s.mu.Unlock()

	s.publish(res)
	return res
}

// Release clears the slot on behalf of owner. It only succeeds when owner
// wrote the current descriptor, or when the slot holds an orphan manual
// descriptor (manual, with no owner).
func (s *Store) Release(owner Owner) Result {
	s.mu.Lock()
	if s.slot == nil {
		s.mu.Unlock()
		return Result{Outcome: OutcomeNoop}
	}
	orphan := s.slot.Manual && s.slot.Owner.IsZero()
	if owner.IsZero() || (s.slot.Owner != owner && !orphan) {
		res := Result{Slot: s.slot.clone(), Outcome: OutcomeNotOwner}
		s.mu.Unlock()
		return res
	}
	res := s.clearLocked()
	s.mu.Unlock()

	s.publish(res)
	return res
}

func (s *Store) clearLocked() Result {
	if s.slot == nil {
		return Result{Outcome: OutcomeNoop}
	}
	s.lastClear = &ClearRecord{
		Owner:       s.slot.Owner,
		At:          s.clock.Now(),
		Stamp:       s.stamps.next(),
		Fingerprint: fingerprint(s.slot),
	}
	s.slot = nil
	return Result{Outcome: OutcomeCleared}
}

func (s *Store) onAuthRoute() bool {
	if s.activeRoute == nil {
		return false
	}
	return s.isAuth(s.activeRoute())
}

// Subscribe registers a listener for slot changes. The returned function
// unsubscribes it and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerSub{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(res Result) {
	if !res.Changed() {
		return
	}
	s.mu.Lock()
	listeners := make([]listenerSub, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		s.notify(sub.fn, res.Slot.clone())
	}
}

func (s *Store) notify(fn Listener, slot *Descriptor) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Warn("header listener panicked", zap.String("panic", fmt.Sprint(rec)))
		}
	}()
	fn(slot)
}

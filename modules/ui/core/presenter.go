package core

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routes"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Deps are the collaborators the shell selector hands to the presenter
type Deps struct {
	Table     *routes.Table
	Store     *header.Store
	Navigator Navigator
	Platform  header.Platform
	Logger    *zap.Logger
}

// AppPresenter is the main presenter implementation. It is shell-agnostic:
// the navigator decides where the user is, the presenter mounts the matching
// screen, runs the header contract and derives the frame the view draws.
type AppPresenter struct {
	// eventMu serializes user events; mu guards mounted screens. Navigator
	// callbacks take mu while eventMu may already be held by the caller.
	eventMu sync.Mutex
	mu      sync.Mutex

	config   *config.Config
	table    *routes.Table
	store    *header.Store
	nav      Navigator
	deriver  *header.Deriver
	platform header.Platform
	logger   *zap.Logger

	state *AppState

	// activeTop is read by the header store while it holds its own lock
	activeTop *atomic.String
	mounted   map[uint64]*Screen
	focused   *Screen
	loc       Location

	cbMu                  sync.RWMutex
	stateCallbacks        []func(StateUpdate)
	notificationCallbacks []func(*Notification)
	lastFrameKey          string

	dirty    chan struct{}
	unsubs   []func()
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutdown sync.Once
}

// NewAppPresenter creates a new application presenter
func NewAppPresenter(cfg *config.Config, deps Deps) *AppPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &AppPresenter{
		config:    cfg,
		table:     deps.Table,
		store:     deps.Store,
		nav:       deps.Navigator,
		deriver:   header.NewDeriver(deps.Table, deps.Platform),
		platform:  deps.Platform,
		logger:    logger,
		state:     NewAppState(routes.ParseRole(cfg.Settings.Role)),
		activeTop: atomic.NewString(""),
		mounted:   make(map[uint64]*Screen),
		dirty:     make(chan struct{}, 1),
	}

	p.store.SetActiveRoute(func() routes.Name { return routes.Name(p.activeTop.Load()) })
	p.unsubs = append(p.unsubs,
		p.nav.Subscribe(p.onLocation),
		p.store.Subscribe(p.onHeaderChange),
	)
	return p
}

// NewPresenter is a convenience constructor that returns the Presenter interface
func NewPresenter(cfg *config.Config, deps Deps) Presenter {
	return NewAppPresenter(cfg, deps)
}

// Initialize starts the frame refresher and lands on the role's default tab
func (p *AppPresenter) Initialize(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.refreshLoop()

	role, signedIn := p.state.Session()
	if signedIn {
		p.nav.SelectTab(routes.DefaultTab(role), nil)
	} else {
		p.nav.SelectTab(routes.Login, nil)
	}
	return nil
}

// refreshLoop re-broadcasts the frame after header writes that did not come
// through a presenter event (a screen resolving its data, for instance).
func (p *AppPresenter) refreshLoop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.dirty:
			p.publishFrame(p.Frame(), false)
		}
	}
}

// HandleEvent processes a user event
func (p *AppPresenter) HandleEvent(event *Event) error {
	p.eventMu.Lock()
	defer p.eventMu.Unlock()

	switch event.Type {
	// Navigation
	case EventSelectTab:
		return p.handleSelectTab(event)
	case EventOpen:
		return p.handleOpen(event)
	case EventFollowLink:
		return p.handleFollowLink(event)
	case EventBack:
		p.pressBack()
		return nil
	case EventClearRoute:
		p.nav.Reset()
		return nil

	// Session
	case EventSignIn:
		return p.handleSignIn()
	case EventSignOut:
		return p.handleSignOut()
	case EventSwitchRole:
		return p.handleSwitchRole(event)

	// Screen data
	case EventSetTitle:
		return p.handleSetTitle(event)

	case EventRefresh:
		return p.Refresh()
	case EventQuit:
		return p.Shutdown()

	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// GetViewModel returns the view model for a view type
func (p *AppPresenter) GetViewModel(viewType ViewModelType) (ViewModel, error) {
	switch viewType {
	case VMFrame:
		return p.Frame(), nil
	case VMRoutes:
		return BuildRoutesVM(p.table), nil
	default:
		return nil, fmt.Errorf("unknown view type: %s", viewType)
	}
}

// Subscribe registers a callback for state updates
func (p *AppPresenter) Subscribe(callback func(StateUpdate)) {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	p.stateCallbacks = append(p.stateCallbacks, callback)
}

// SubscribeNotifications registers a callback for notifications
func (p *AppPresenter) SubscribeNotifications(callback func(*Notification)) {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	p.notificationCallbacks = append(p.notificationCallbacks, callback)
}

// Refresh re-derives the frame and sends it even if nothing changed
func (p *AppPresenter) Refresh() error {
	p.publishFrame(p.Frame(), true)
	return nil
}

// Shutdown releases the header and stops the refresher
func (p *AppPresenter) Shutdown() error {
	p.shutdown.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()

		for _, unsub := range p.unsubs {
			unsub()
		}

		p.mu.Lock()
		if p.focused != nil {
			p.focused.Blur()
			p.focused = nil
		}
		clear(p.mounted)
		p.mu.Unlock()
	})
	return nil
}

// Frame derives the current frame
func (p *AppPresenter) Frame() *FrameVM {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buildFrameLocked()
}

// GetState returns the application state
func (p *AppPresenter) GetState() *AppState {
	return p.state
}

// Store returns the header store
func (p *AppPresenter) Store() *header.Store {
	return p.store
}

// Navigator returns the location authority
func (p *AppPresenter) Navigator() Navigator {
	return p.nav
}

// Table returns the route table
func (p *AppPresenter) Table() *routes.Table {
	return p.table
}

// FocusedScreen returns the focused screen, or nil
func (p *AppPresenter) FocusedScreen() *Screen {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focused
}

// ============================================
// Private handlers
// ============================================

func (p *AppPresenter) handleSelectTab(event *Event) error {
	tab := routes.Name(event.Target)
	role, signedIn := p.state.Session()
	if !signedIn {
		return fmt.Errorf("sign in to open %s", tab)
	}
	if !slices.Contains(routes.Tabs(role), tab) {
		return fmt.Errorf("%s is not a %s tab", tab, role)
	}
	p.nav.SelectTab(tab, event.Params)
	return nil
}

func (p *AppPresenter) handleOpen(event *Event) error {
	name := routes.Name(event.Target)
	if _, ok := p.table.Lookup(name); !ok {
		return fmt.Errorf("unknown route: %s", name)
	}
	p.nav.Open(name, event.Params)
	return nil
}

func (p *AppPresenter) handleFollowLink(event *Event) error {
	p.mu.Lock()
	var links []LinkVM
	if p.focused != nil {
		links = p.focused.Links()
	}
	p.mu.Unlock()

	for _, l := range links {
		if l.Key == event.Target {
			p.nav.Open(l.Target, l.Params)
			return nil
		}
	}
	return fmt.Errorf("no link %q on this screen", event.Target)
}

// pressBack runs the header's back action: the focused screen's onBack when
// it supplied one, else the shell's back navigation.
func (p *AppPresenter) pressBack() {
	p.mu.Lock()
	rendered := p.deriver.Derive(p.store.Current(), p.loc.Active(), p.nav.CanGoBack)
	p.mu.Unlock()

	if rendered.OnBack != nil {
		rendered.OnBack()
		return
	}
	p.goBack()
}

func (p *AppPresenter) goBack() {
	if !p.nav.Back() {
		p.notify(NotifyInfo, "Back", "Nothing to go back to")
	}
}

func (p *AppPresenter) handleSignIn() error {
	role, _ := p.state.Session()
	p.state.SetSession(role, true)
	p.nav.SelectTab(routes.DefaultTab(role), nil)
	return nil
}

func (p *AppPresenter) handleSignOut() error {
	role, _ := p.state.Session()
	p.state.SetSession(role, false)
	p.nav.SelectTab(routes.Login, nil)
	p.notify(NotifyInfo, "Signed out", "See you soon")
	return nil
}

func (p *AppPresenter) handleSwitchRole(event *Event) error {
	role := routes.ParseRole(event.Target)
	_, signedIn := p.state.Session()
	p.state.SetSession(role, signedIn)
	if signedIn {
		p.nav.SelectTab(routes.DefaultTab(role), nil)
	}
	return nil
}

func (p *AppPresenter) handleSetTitle(event *Event) error {
	p.mu.Lock()
	if p.focused == nil {
		p.mu.Unlock()
		return fmt.Errorf("no focused screen")
	}
	p.record(p.focused.Resolve(event.Value))
	frame := p.buildFrameLocked()
	p.mu.Unlock()

	p.publishFrame(frame, false)
	return nil
}

// ============================================
// Location changes and the header contract
// ============================================

func (p *AppPresenter) onLocation(loc Location) {
	p.mu.Lock()
	if loc.Seq <= p.loc.Seq {
		// an older snapshot delivered late
		p.mu.Unlock()
		return
	}
	p.applyLocationLocked(loc)
	frame := p.buildFrameLocked()
	p.mu.Unlock()

	p.publishFrame(frame, false)
}

func (p *AppPresenter) applyLocationLocked(loc Location) {
	p.activeTop.Store(string(loc.Tab))
	p.loc = loc

	top, ok := loc.Top()
	if p.focused != nil && (!ok || p.focused.Frame().ID != top.ID) {
		p.record(p.focused.Blur())
		p.focused = nil
	}

	present := make(map[uint64]bool, len(loc.Frames))
	for _, f := range loc.Frames {
		present[f.ID] = true
	}
	for id := range p.mounted {
		if !present[id] {
			delete(p.mounted, id)
		}
	}

	if !ok || p.focused != nil {
		return
	}

	// Background inference first, so a screen without a claim still gets a
	// header; a manual claim below overrides it.
	p.record(p.store.Set(p.infer(top.Route.Name)))

	screen, mounted := p.mounted[top.ID]
	if !mounted {
		screen = MountScreen(p.store, p.table, top, p.goBack)
		p.mounted[top.ID] = screen
	}
	p.focused = screen
	p.record(screen.Focus())
}

// infer builds the automatic descriptor for a route
func (p *AppPresenter) infer(name routes.Name) *header.Descriptor {
	d := &header.Descriptor{Title: header.Text(p.table.Label(name))}
	if s, ok := p.table.Subtitle(name); ok {
		d.Subtitle = header.Text(s)
	}
	return d
}

func (p *AppPresenter) record(res header.Result) {
	ev := &HeaderEvent{Outcome: res.Outcome, At: time.Now()}
	if res.Slot != nil {
		ev.Owner = res.Slot.Owner.String()
		ev.Title = res.Slot.TitleText()
	}
	p.state.SetHeaderEvent(ev)
	p.logger.Debug("header write",
		zap.Stringer("outcome", res.Outcome),
		zap.String("owner", ev.Owner),
		zap.String("title", ev.Title))
}

func (p *AppPresenter) onHeaderChange(*header.Descriptor) {
	select {
	case p.dirty <- struct{}{}:
	default:
	}
}

// ============================================
// Frame building and broadcasting
// ============================================

func (p *AppPresenter) buildFrameLocked() *FrameVM {
	role, signedIn := p.state.Session()
	active := p.loc.Active()

	frame := &FrameVM{
		BaseViewModel: BaseViewModel{VMType: VMFrame, UpdatedAt: time.Now()},
		Platform:      p.platform.String(),
		Role:          role,
		SignedIn:      signedIn,
		Header:        p.deriver.Derive(p.store.Current(), active, p.nav.CanGoBack),
		Tab:           p.loc.Tab,
		Route:         p.loc.Current,
		Depth:         p.loc.Depth,
		CanGoBack:     p.nav.CanGoBack(),
	}

	if signedIn {
		for _, tab := range routes.Tabs(role) {
			frame.Tabs = append(frame.Tabs, TabVM{
				Name:   tab,
				Label:  p.table.Label(tab),
				Active: tab == p.loc.Tab,
			})
		}
	}

	if p.focused != nil {
		frame.Screen = ScreenVM{
			Name:  p.focused.Name(),
			Label: p.table.Label(p.focused.Name()),
			Body:  p.focused.Definition().Body,
			Links: p.focused.Links(),
			Owner: p.focused.Owner().String(),
		}
		if top, ok := p.loc.Top(); ok {
			r := top.Route
			frame.Screen.Route = &r
		}
	}

	if ev := p.state.GetHeaderEvent(); ev != nil {
		frame.LastWrite = ev.Outcome.String()
	}
	return frame
}

// frameKey identifies what a frame shows, ignoring timestamps
func frameKey(f *FrameVM) string {
	data, err := json.Marshal(struct {
		Header   header.Rendered
		Tab      routes.Name
		Screen   ScreenVM
		Depth    int
		SignedIn bool
		Role     routes.Role
	}{f.Header, f.Tab, f.Screen, f.Depth, f.SignedIn, f.Role})
	if err != nil {
		return ""
	}
	return string(data)
}

func (p *AppPresenter) publishFrame(frame *FrameVM, force bool) {
	key := frameKey(frame)

	p.cbMu.Lock()
	if !force && key != "" && key == p.lastFrameKey {
		p.cbMu.Unlock()
		return
	}
	p.lastFrameKey = key
	callbacks := make([]func(StateUpdate), len(p.stateCallbacks))
	copy(callbacks, p.stateCallbacks)
	p.cbMu.Unlock()

	p.state.SetFrame(frame)
	update := StateUpdate{ViewType: VMFrame, ViewModel: frame}
	for _, cb := range callbacks {
		cb(update)
	}
}

func (p *AppPresenter) notify(ntype NotificationType, title, message string) {
	n := NewNotification(ntype, title, message)
	p.state.AddNotification(n)

	p.cbMu.RLock()
	callbacks := make([]func(*Notification), len(p.notificationCallbacks))
	copy(callbacks, p.notificationCallbacks)
	p.cbMu.RUnlock()

	for _, cb := range callbacks {
		cb(n)
	}
}

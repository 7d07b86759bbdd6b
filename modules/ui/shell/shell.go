// Package shell picks the presentation shell at startup and wires the
// navigation core (route table, header store, navigator, presenter) to it.
package shell

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"
	"coursedesk/modules/ui/core"
	"coursedesk/modules/ui/tui"
	"coursedesk/modules/ui/web"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Resolve maps a shell target to a platform. "auto" picks the compact shell
// when isTerminal reports an interactive terminal, the wide shell otherwise.
func Resolve(target string, isTerminal func() bool) (header.Platform, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case config.ShellCompact:
		return header.Compact, nil
	case config.ShellWide:
		return header.Wide, nil
	case config.ShellAuto, "":
		if isTerminal != nil && isTerminal() {
			return header.Compact, nil
		}
		return header.Wide, nil
	default:
		return header.Compact, fmt.Errorf("unknown shell %q (want auto, compact or wide)", target)
	}
}

// StdoutIsTerminal reports whether stdout is an interactive terminal
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Selector resolves the shell once; later calls return the first answer
// even if the target or terminal changes.
type Selector struct {
	target     string
	isTerminal func() bool

	once     sync.Once
	platform header.Platform
	err      error
}

// NewSelector creates a selector for target. A nil isTerminal checks stdout.
func NewSelector(target string, isTerminal func() bool) *Selector {
	if isTerminal == nil {
		isTerminal = StdoutIsTerminal
	}
	return &Selector{target: target, isTerminal: isTerminal}
}

// Platform returns the resolved platform
func (s *Selector) Platform() (header.Platform, error) {
	s.once.Do(func() {
		s.platform, s.err = Resolve(s.target, s.isTerminal)
	})
	return s.platform, s.err
}

// Options tunes Build
type Options struct {
	Logger *zap.Logger
	// Clock drives the header debounce window; nil uses wall time
	Clock header.Clock
	// Headless builds the navigation core without a view
	Headless bool
	// TUIOptions are passed to the compact shell's Bubble Tea program
	TUIOptions []tea.ProgramOption
}

// Shell is one wired presentation shell
type Shell struct {
	Platform  header.Platform
	Table     *routes.Table
	Store     *header.Store
	Navigator core.Navigator
	Presenter *core.AppPresenter
	// View is nil for headless shells
	View core.View

	busNav    *core.BusNavigator
	closeOnce sync.Once
}

// Build wires the navigation core for platform and, unless headless, the
// view that renders it.
func Build(cfg *config.Config, platform header.Platform, opts Options) (*Shell, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := routes.NewTable(cfg.Settings.Locale)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	storeOpts := []header.Option{
		header.WithDebounceWindow(cfg.Settings.DebounceWindow()),
		header.WithRouteTable(table),
		header.WithLogger(logger.Named("header")),
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, header.WithClock(opts.Clock))
	}

	s := &Shell{
		Platform: platform,
		Table:    table,
		Store:    header.NewStore(storeOpts...),
	}

	if platform == header.Wide {
		s.busNav = core.NewBusNavigator(routebus.New(routebus.WithLogger(logger.Named("routebus"))))
		s.Navigator = s.busNav
	} else {
		s.Navigator = core.NewStackNavigator()
	}

	s.Presenter = core.NewAppPresenter(cfg, core.Deps{
		Table:     table,
		Store:     s.Store,
		Navigator: s.Navigator,
		Platform:  platform,
		Logger:    logger.Named("presenter"),
	})

	if opts.Headless {
		return s, nil
	}

	var factory core.ViewFactory
	if platform == header.Wide {
		factory = web.NewWebFactory(cfg.Settings.GetWebConfig(), logger.Named("web"))
	} else {
		factory = tui.NewTUIFactory(opts.TUIOptions...)
	}
	view, err := factory.CreateView(factory.AvailableTypes()[0], s.Presenter)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.View = view
	return s, nil
}

// Start lands the presenter on its first screen
func (s *Shell) Start(ctx context.Context) error {
	return s.Presenter.Initialize(ctx)
}

// Run starts the shell and blocks in the view's main loop
func (s *Shell) Run(ctx context.Context) error {
	defer s.Close()

	if s.View == nil {
		return fmt.Errorf("%s shell was built headless", s.Platform)
	}
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start presenter: %w", err)
	}
	return s.View.Run(ctx)
}

// RouteBus returns the wide shell's route bus, or nil in the compact shell
func (s *Shell) RouteBus() *routebus.Bus {
	if s.busNav == nil {
		return nil
	}
	return s.busNav.Bus()
}

// Close releases the header and detaches from the route bus
func (s *Shell) Close() {
	s.closeOnce.Do(func() {
		s.Presenter.Shutdown()
		if s.busNav != nil {
			s.busNav.Close()
		}
	})
}

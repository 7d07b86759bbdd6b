package tui

import (
	"time"

	"coursedesk/modules/platform/routes"
	"coursedesk/modules/ui/core"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// maxNotifications is how many notifications the status line keeps
const maxNotifications = 5

// errorTTL is how long a failed event stays in the status line
const errorTTL = 5 * time.Second

// Model is the Bubble Tea model of the compact shell. It draws the last
// frame the presenter broadcast and turns key presses into presenter events.
type Model struct {
	// Core
	presenter core.Presenter
	frame     *core.FrameVM
	keys      KeyMap
	help      help.Model

	// UI state
	width    int
	height   int
	ready    bool
	showHelp bool

	notifications []*core.Notification

	// Errors
	lastError     string
	lastErrorTime time.Time
}

// NewModel creates a new TUI model
func NewModel(presenter core.Presenter) *Model {
	h := help.New()
	h.ShowAll = false
	h.Styles.ShortKey = HelpKeyStyle
	h.Styles.ShortDesc = HelpDescStyle
	h.Styles.ShortSeparator = HelpDescStyle

	m := &Model{
		presenter: presenter,
		keys:      DefaultKeyMap(),
		help:      h,
	}

	// The presenter has usually mounted the first screen already
	if presenter != nil {
		if vm, err := presenter.GetViewModel(core.VMFrame); err == nil {
			if frame, ok := vm.(*core.FrameVM); ok {
				m.frame = frame
			}
		}
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
		} else if cmd := m.handleKeyPress(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case stateUpdateMsg:
		m.handleStateUpdate(msg.update)

	case notificationMsg:
		m.handleNotification(msg.notification)

	case errMsg:
		m.lastError = msg.Error()
		m.lastErrorTime = time.Now()
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress processes keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil

	// Navigation
	case key.Matches(msg, m.keys.Link):
		return m.sendEvent(core.LinkEvent(msg.String()))
	case key.Matches(msg, m.keys.Back):
		return m.sendEvent(core.BackEvent())
	case key.Matches(msg, m.keys.TabRoot):
		return m.sendEvent(core.NewEvent(core.EventClearRoute))
	case key.Matches(msg, m.keys.NextTab):
		return m.cycleTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.cycleTab(-1)
	case key.Matches(msg, m.keys.Refresh):
		return m.sendEvent(core.NewEvent(core.EventRefresh))

	// Session
	case key.Matches(msg, m.keys.SignIn):
		return m.sendEvent(core.NewEvent(core.EventSignIn))
	case key.Matches(msg, m.keys.SignOut):
		return m.sendEvent(core.NewEvent(core.EventSignOut))
	case key.Matches(msg, m.keys.SwitchRole):
		return m.sendEvent(core.NewEvent(core.EventSwitchRole).WithTarget(string(m.nextRole())))
	}
	return nil
}

// cycleTab selects the tab direction steps away from the active one
func (m *Model) cycleTab(direction int) tea.Cmd {
	if m.frame == nil || len(m.frame.Tabs) == 0 {
		return nil
	}
	tabs := m.frame.Tabs
	current := 0
	for i, t := range tabs {
		if t.Active {
			current = i
			break
		}
	}
	next := (current + direction + len(tabs)) % len(tabs)
	return m.sendEvent(core.TabEvent(string(tabs[next].Name)))
}

var roleOrder = []routes.Role{routes.RoleLearner, routes.RoleInstructor, routes.RoleAdmin}

func (m *Model) nextRole() routes.Role {
	current := routes.RoleLearner
	if m.frame != nil {
		current = m.frame.Role
	}
	for i, r := range roleOrder {
		if r == current {
			return roleOrder[(i+1)%len(roleOrder)]
		}
	}
	return routes.RoleLearner
}

// sendEvent sends an event to the presenter
func (m *Model) sendEvent(event *core.Event) tea.Cmd {
	presenter := m.presenter
	return func() tea.Msg {
		if presenter == nil {
			return nil
		}
		if err := presenter.HandleEvent(event); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// handleStateUpdate handles state updates from presenter
func (m *Model) handleStateUpdate(update core.StateUpdate) {
	if frame, ok := frameOf(update); ok {
		m.frame = frame
	}
}

// handleNotification handles notifications
func (m *Model) handleNotification(n *core.Notification) {
	m.notifications = append(m.notifications, n)
	if len(m.notifications) > maxNotifications {
		m.notifications = m.notifications[1:]
	}
}

// Frame returns the frame currently drawn
func (m Model) Frame() *core.FrameVM {
	return m.frame
}

// Message types
type stateUpdateMsg struct {
	update core.StateUpdate
}

type notificationMsg struct {
	notification *core.Notification
}

type errMsg struct {
	error
}

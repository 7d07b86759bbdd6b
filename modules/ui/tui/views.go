package tui

import (
	"fmt"
	"strings"
	"time"

	"coursedesk/modules/ui/core"

	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.frame == nil {
		return "\n  Waiting for the first screen..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	parts := []string{}
	if header := m.renderHeader(); header != "" {
		parts = append(parts, header)
	}
	parts = append(parts, m.renderBody())
	if tabs := m.renderTabs(); tabs != "" {
		parts = append(parts, tabs)
	}
	parts = append(parts, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

// renderHeader draws the derived top bar. A hidden header draws nothing.
func (m *Model) renderHeader() string {
	h := m.frame.Header
	if !h.Visible {
		return ""
	}
	width := m.contentWidth()

	back := ""
	if h.ShowBack {
		back = BackStyle.Render(backIcon()+" Back") + "  "
	}

	lines := []string{TitleStyle.Render(h.Title)}
	if h.Subtitle != "" {
		lines = append(lines, SubtitleStyle.Render(h.Subtitle))
	}

	align := lipgloss.Center
	if h.AlignLeft {
		align = lipgloss.Left
	}
	// Centered titles are centered on the whole bar, so the back button's
	// width is reserved on both sides.
	inner := width - 2 - 2*lipgloss.Width(back)
	if align == lipgloss.Left {
		inner = width - 2 - lipgloss.Width(back)
	}
	if inner < 1 {
		inner = 1
	}
	title := lipgloss.NewStyle().Width(inner).Align(align).Render(strings.Join(lines, "\n"))

	return HeaderBarStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, back, title))
}

// renderBody draws the focused screen's placeholder content and its links
func (m *Model) renderBody() string {
	s := m.frame.Screen
	lines := make([]string, 0, len(s.Body)+len(s.Links)+1)
	lines = append(lines, s.Body...)
	if len(s.Links) > 0 {
		lines = append(lines, "")
	}
	for _, l := range s.Links {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			LinkKeyStyle.Render("["+l.Key+"]"),
			IconLink,
			LinkLabelStyle.Render(l.Label)))
	}
	return BodyStyle.Width(m.contentWidth()).Render(strings.Join(lines, "\n"))
}

// renderTabs draws the bottom tab bar of the signed-in role
func (m *Model) renderTabs() string {
	if len(m.frame.Tabs) == 0 {
		return ""
	}
	items := make([]string, 0, len(m.frame.Tabs))
	for _, t := range m.frame.Tabs {
		style := TabStyle
		if t.Active {
			style = TabActiveStyle
		}
		items = append(items, style.Render(t.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

// renderFooter draws the status line and the short help
func (m *Model) renderFooter() string {
	var status []string

	icon, mode := IconAuto, "auto"
	if m.frame.Header.Manual {
		icon, mode = IconManual, "manual"
	}
	status = append(status, ManualTagStyle.Render(icon)+HelpDescStyle.Render(" "+mode))
	if m.frame.Screen.Owner != "" {
		status = append(status, HelpDescStyle.Render(m.frame.Screen.Owner))
	}
	if m.frame.LastWrite != "" {
		status = append(status, HelpDescStyle.Render("last write: "+m.frame.LastWrite))
	}

	if m.lastError != "" && time.Since(m.lastErrorTime) < errorTTL {
		status = append(status, NotifyErrorStyle.Render(m.lastError))
	} else if n := len(m.notifications); n > 0 {
		last := m.notifications[n-1]
		status = append(status, NotificationStyle(string(last.Type)).Render(last.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(status, HelpDescStyle.Render(" · ")),
		m.help.View(m.keys),
	)
}

// renderHelpOverlay renders the help overlay
func (m *Model) renderHelpOverlay() string {
	helpContent := []string{
		DialogTitleStyle.Render("Keyboard Shortcuts"),
		"",
		HelpKeyStyle.Render("Navigation"),
		"  1-9       Open a link of the screen",
		"  Esc       Back",
		"  Home      Back to the tab root",
		"  Tab/S-Tab Next/previous tab",
		"  Ctrl+R    Refresh",
		"",
		HelpKeyStyle.Render("Session"),
		"  i / o     Sign in / sign out",
		"  R         Switch role",
		"",
		HelpKeyStyle.Render("Other"),
		"  ?         Toggle help",
		"  q         Quit",
		"",
		SubtitleStyle.Render("Press any key to close"),
	}

	helpBox := DialogStyle.Width(50).Render(strings.Join(helpContent, "\n"))

	height := m.height
	if height <= 0 {
		height = lipgloss.Height(helpBox)
	}
	return lipgloss.Place(m.contentWidth(), height, lipgloss.Center, lipgloss.Center, helpBox)
}

// frameOf is a convenience for views that want the frame of an update
func frameOf(update core.StateUpdate) (*core.FrameVM, bool) {
	f, ok := update.ViewModel.(*core.FrameVM)
	return f, ok
}

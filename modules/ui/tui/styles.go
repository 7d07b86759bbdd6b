package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Orange
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F9FAFB") // Light
	ColorBg        = lipgloss.Color("#111827") // Dark
	ColorBgAlt     = lipgloss.Color("#1F2937") // Dark alt
	ColorBorder    = lipgloss.Color("#374151") // Gray border
)

// Base styles
var (
	// Top bar
	HeaderBarStyle = lipgloss.NewStyle().
			Background(ColorBgAlt).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BackStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	// Manual headers are tagged in the status line
	ManualTagStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Tab bar
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

	TabActiveStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Background(ColorPrimary).
			Foreground(ColorText).
			Bold(true)

	// Screen body
	BodyStyle = lipgloss.NewStyle().
			Padding(1, 2)

	LinkKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	LinkLabelStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Notifications
	NotifyInfoStyle = lipgloss.NewStyle().
			Background(ColorSecondary).
			Foreground(ColorText).
			Padding(0, 1)

	NotifySuccessStyle = lipgloss.NewStyle().
				Background(ColorSuccess).
				Foreground(ColorText).
				Padding(0, 1)

	NotifyWarningStyle = lipgloss.NewStyle().
				Background(ColorWarning).
				Foreground(ColorBg).
				Padding(0, 1)

	NotifyErrorStyle = lipgloss.NewStyle().
				Background(ColorError).
				Foreground(ColorText).
				Padding(0, 1)

	// Help
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Dialog
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Background(ColorBgAlt)

	DialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				MarginBottom(1)
)

// Icons
const (
	IconBack   = "‹"
	IconManual = "●"
	IconAuto   = "○"
	IconLink   = "›"
)

// AsciiBack is used instead of IconBack on terminals without color support,
// which usually lack the glyph too.
const AsciiBack = "<"

// SupportsColor returns true if the terminal renders styled output
func SupportsColor() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}

// backIcon picks the back glyph for the current terminal
func backIcon() string {
	if SupportsColor() {
		return IconBack
	}
	return AsciiBack
}

// NotificationStyle returns the style for a notification type
func NotificationStyle(t string) lipgloss.Style {
	switch t {
	case "success":
		return NotifySuccessStyle
	case "warning":
		return NotifyWarningStyle
	case "error":
		return NotifyErrorStyle
	default:
		return NotifyInfoStyle
	}
}

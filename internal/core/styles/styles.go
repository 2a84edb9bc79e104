// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	TextMutedStyle     lipgloss.Style
	TextSuccessStyle   lipgloss.Style
	TextErrorStyle     lipgloss.Style

	// Modal styles.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	// Checklist editor styles.
	TitleStyle          lipgloss.Style
	ItemStyle           lipgloss.Style
	ItemDoneStyle       lipgloss.Style
	ItemCursorStyle     lipgloss.Style
	ItemDraggingStyle   lipgloss.Style
	ProgressStyle       lipgloss.Style
	PriorityHighStyle   lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityLowStyle    lipgloss.Style
	DueStyle            lipgloss.Style
	DueOverdueStyle     lipgloss.Style
	StatusBarStyle      lipgloss.Style
	HelpStyle           lipgloss.Style
	HelpKeyStyle        lipgloss.Style
	IndentGuideStyle    lipgloss.Style

	// Toast styles.
	ToastInfoStyle      lipgloss.Style
	ToastErrorStyle     lipgloss.Style
	ToastCelebrateStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ItemStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	ItemDoneStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Strikethrough(true)
	ItemCursorStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground).
		Bold(true)
	ItemDraggingStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)
	ProgressStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	PriorityHighStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	PriorityMediumStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	PriorityLowStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	DueStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	DueOverdueStyle = lipgloss.NewStyle().Foreground(ColorError)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	IndentGuideStyle = lipgloss.NewStyle().Foreground(ColorSurface)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toastBase.
		BorderForeground(ColorPrimary).
		Foreground(ColorForeground)
	ToastErrorStyle = toastBase.
		BorderForeground(ColorError).
		Foreground(ColorError)
	ToastCelebrateStyle = toastBase.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorSuccess).
		Foreground(ColorSuccess).
		Bold(true).
		Align(lipgloss.Center)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

package render

import "github.com/charmbracelet/lipgloss"

const (
	// PanelWidth is the outer width of the widget in cells
	PanelWidth = 48
	// ModalWidth is the outer width of both modals
	ModalWidth = 56
	// ArtWidth and ArtHeight size album art thumbnails in cells
	ArtWidth  = 6
	ArtHeight = 3

	volumeBarWidth = 10
	modalListRows  = 12
)

var (
	colorGreen  = lipgloss.Color("#1DB954")
	colorText   = lipgloss.Color("#FFFFFF")
	colorMuted  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8A8A8A"}
	colorFaint  = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#4A4A4A"}
	colorRed    = lipgloss.Color("#FF6B6B")
	colorSolid  = lipgloss.Color("#141414")
	colorBorder = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#333333"}
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				Border(lipgloss.ThickBorder()).
				BorderForeground(colorText)

	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2).
			Align(lipgloss.Center)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorText).
			Padding(1, 2).
			Width(ModalWidth - 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFaint)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	faintStyle    = lipgloss.NewStyle().Foreground(colorFaint)
	greenStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	buttonStyle   = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	tabStyle      = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Foreground(colorSolid).Background(colorGreen).Bold(true).Padding(0, 1)
	addStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	removeStyle   = lipgloss.NewStyle().Foreground(colorRed)
	dragStyle     = lipgloss.NewStyle().Foreground(colorFaint)
)

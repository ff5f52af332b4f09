package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorSuccess     = lipgloss.Color("#00E676") // Green — stable phases
	colorDanger      = lipgloss.Color("#FF5252") // Red — far above hull
	colorAccent      = lipgloss.Color("#FFD700") // Gold — marginal phases
	colorMuted       = lipgloss.Color("#636363") // Gray — de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray — normal text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white — emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface — header bg
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

// Status icons for entry stability.
const (
	iconStable   = "✓"
	iconUnstable = "✗"
)

// Header bar styles.
var (
	styleHeader = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorBrightWhite).
			Bold(true).
			Padding(0, 1)

	styleHeaderLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Entry row styles.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowStable = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleRowMarginal = lipgloss.NewStyle().
				Foreground(colorAccent)

	styleRowUnstable = lipgloss.NewStyle().
				Foreground(colorDanger)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Detail panel styles.
var (
	styleDetailBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleDetailTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleDetailDim = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Footer styles.
var (
	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the canopy TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// TOOLBAR STYLES
	// ==========================================================================

	Toolbar      lipgloss.Style
	ToolbarTitle lipgloss.Style
	ToolbarBrand lipgloss.Style
	ToolbarTopic lipgloss.Style

	// ==========================================================================
	// CANVAS ITEM STYLES
	// ==========================================================================

	TrunkItem    lipgloss.Style
	BranchItem   lipgloss.Style
	LeafItem     lipgloss.Style
	NoteItem     lipgloss.Style
	FocusedItem  lipgloss.Style
	LikedMarker  lipgloss.Style
	GridDot      lipgloss.Style
	EdgeFlash    lipgloss.Style
	Connector    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusNotice lipgloss.Style
	StatusError  lipgloss.Style
	StatusBusy   lipgloss.Style
	AutoOn       lipgloss.Style
	AutoOff      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// PANEL STYLES (saved ideas, elaboration, help)
	// ==========================================================================

	Panel             lipgloss.Style
	PanelTitle        lipgloss.Style
	PanelItem         lipgloss.Style
	PanelItemSelected lipgloss.Style
	PanelMeta         lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	// SuccessStyle - Used for success states with checkmark indicator
	SuccessStyle lipgloss.Style
	// ErrorStyle - Used for error states with X mark indicator
	ErrorStyle lipgloss.Style
	// WarningStyle - Used for warning states with warning triangle indicator
	WarningStyle lipgloss.Style
	// InfoStyle - Used for info states with info circle indicator
	InfoStyle lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Toolbar
	t.Toolbar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ToolbarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.ToolbarBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ToolbarTopic = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Canvas items
	t.TrunkItem = lipgloss.NewStyle().
		Bold(true).
		Foreground(TrunkFg).
		Background(TrunkBg).
		Padding(0, 1)

	t.BranchItem = lipgloss.NewStyle().
		Foreground(BranchFg).
		Background(BranchBg).
		Padding(0, 1)

	t.LeafItem = lipgloss.NewStyle().
		Foreground(LeafFg).
		Background(LeafBg).
		Padding(0, 1)

	t.NoteItem = lipgloss.NewStyle().
		Foreground(NoteFg).
		Background(NoteBg).
		Italic(true).
		Padding(0, 1)

	t.FocusedItem = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(FocusRing).
		Padding(0, 1)

	t.LikedMarker = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.GridDot = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.EdgeFlash = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.Connector = lipgloss.NewStyle().
		Foreground(OverlayDim)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusNotice = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.StatusBusy = lipgloss.NewStyle().
		Foreground(Amber)

	t.AutoOn = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.AutoOff = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Panels
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.PanelItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(1)

	t.PanelItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(FocusRing).
		Bold(true).
		PaddingLeft(1)

	t.PanelMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Accessibility styles
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ItemStyle returns the style for a canvas item kind string.
// Unknown kinds fall back to the leaf style.
func (t *Theme) ItemStyle(kind string, focused bool) lipgloss.Style {
	if focused {
		return t.FocusedItem
	}
	switch kind {
	case "trunk":
		return t.TrunkItem
	case "branch":
		return t.BranchItem
	case "note":
		return t.NoteItem
	default:
		return t.LeafItem
	}
}

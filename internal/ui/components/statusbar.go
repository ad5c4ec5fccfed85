// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the canopy TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/canopy-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar for the canvas
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusGenerating
	StatusSaving
	StatusError
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusGenerating:
		return "Growing..."
	case StatusSaving:
		return "Saving..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusGenerating:
		return styles.StatusIndicators.Pending
	case StatusSaving:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar represents the bottom status bar
type StatusBar struct {
	Zoom          float64 // Current zoom scale (0.2-1.0)
	ItemCount     int     // Items on the canvas
	LikedCount    int     // Liked ideas
	AutoGenerate  bool    // Automatic generation enabled
	Busy          int     // In-flight generation operations
	Status        Status  // Current status
	Width         int     // Available width
	ShowShortcuts bool    // Show keyboard shortcuts
	theme         *styles.Theme

	// Transient notice
	notice      string
	noticeIsErr bool
	noticeUntil time.Time
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Zoom:          0.5,
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetNotice displays a transient message for the given duration.
func (s *StatusBar) SetNotice(text string, isErr bool, ttl time.Duration) {
	s.notice = text
	s.noticeIsErr = isErr
	s.noticeUntil = time.Now().Add(ttl)
}

// ClearNotice removes the current notice.
func (s *StatusBar) ClearNotice() {
	s.notice = ""
}

// activeNotice returns the notice if it has not expired.
func (s *StatusBar) activeNotice() string {
	if s.notice == "" || time.Now().After(s.noticeUntil) {
		return ""
	}
	return s.notice
}

// Render draws the status bar at the configured width.
func (s *StatusBar) Render() string {
	if s.theme == nil {
		return ""
	}

	var left []string

	// Status segment
	statusText := s.Status.Icon() + " " + s.Status.String()
	if s.Busy > 0 {
		statusText = styles.StatusIndicators.Pending + " Growing (" + toStr(s.Busy) + ")"
		left = append(left, s.theme.StatusBusy.Render(statusText))
	} else if s.Status == StatusError {
		left = append(left, s.theme.StatusError.Render(statusText))
	} else {
		left = append(left, s.theme.StatusNotice.Render(statusText))
	}

	// Zoom segment
	left = append(left, "zoom "+fmtPercent(s.Zoom))

	// Item counts
	left = append(left, toStr(s.ItemCount)+" ideas")
	if s.LikedCount > 0 {
		left = append(left, s.theme.LikedMarker.Render("* "+toStr(s.LikedCount)))
	}

	// Auto-generation indicator
	if s.AutoGenerate {
		left = append(left, s.theme.AutoOn.Render("auto"))
	} else {
		left = append(left, s.theme.AutoOff.Render("auto off"))
	}

	// Notice overrides shortcuts on the right side
	var right string
	if notice := s.activeNotice(); notice != "" {
		if s.noticeIsErr {
			right = s.theme.StatusError.Render(notice)
		} else {
			right = s.theme.StatusNotice.Render(notice)
		}
	} else if s.ShowShortcuts {
		right = s.renderShortcuts()
	}

	leftStr := strings.Join(left, "  |  ")

	// Pad the middle so the right side hugs the edge
	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	// Drop the right side entirely when the bar does not fit; truncating
	// styled text would tear ANSI sequences.
	bar := leftStr + strings.Repeat(" ", gap) + right
	if lipgloss.Width(bar) > s.Width && right != "" {
		bar = leftStr
	}
	return s.theme.StatusBar.Width(s.Width).Render(bar)
}

// renderShortcuts draws the abbreviated key hints.
func (s *StatusBar) renderShortcuts() string {
	if s.theme == nil {
		return ""
	}
	pairs := []struct{ key, desc string }{
		{"hjkl", "pan"},
		{"+/-", "zoom"},
		{"c", "center"},
		{"?", "help"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, s.theme.ShortcutKey.Render(p.key)+" "+s.theme.ShortcutDesc.Render(p.desc))
	}
	return strings.Join(parts, "  ")
}

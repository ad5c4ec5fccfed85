// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the canopy TUI application.

This package defines the complete color palette, typography, and animation
system used throughout the application. All colors use Lip Gloss AdaptiveColor
for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for branch ideas and selections
  - Cyan - Brand color, trunk highlight, and commands
  - Emerald - Success states and liked ideas
  - Amber - Warnings, notes, and in-flight generation
  - Rose - Errors and critical warnings

## Canvas Item Colors

Each item kind carries its own family of tokens:

	TrunkFg / TrunkBg    - The central topic marker
	BranchFg / BranchBg  - Expandable branch ideas
	LeafFg / LeafBg      - Terminal leaf ideas
	NoteFg / NoteBg      - Free-floating notes

# Theme System (theme.go)

The Theme struct holds pre-built lipgloss styles for every surface of the
application: toolbar, canvas items, panels, status bar, and input line.
Create one at startup with NewTheme, which probes the terminal via termenv.

# Animation System (animations.go)

Spinners, easing functions and transition configs. TransitionSlow (500ms,
EaseInOutQuad) drives the centering glide on the canvas.
*/
package styles

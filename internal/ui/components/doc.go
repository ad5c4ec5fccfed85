// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the canopy TUI application.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually polished and consistent with the canopy design language.

# Core Components

## Display Components

Toolbar (toolbar.go) - Top bar with brand, project name, and topic.
StatusBar (statusbar.go) - Bottom bar with zoom, counts, busy state, and shortcuts.
SavedPanel (saved_panel.go) - Overlay listing the liked ideas of a project.
ElaborationPanel (elaboration.go) - Markdown writeup of one idea, rendered with glamour.

## Progress and Feedback

Spinner (spinner.go) - Animated spinner with customizable styles.

# Usage

Components follow the Bubble Tea pattern where relevant (Update/View), but the
render-only components expose a plain Render() string for composition into the
canvas view.
*/
package components

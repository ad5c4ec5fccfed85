// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update the application state.
// The canvas model interprets them; handlers never touch the canvas directly.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct{}

// CenterViewMsg glides the viewport back to the trunk.
type CenterViewMsg struct{}

// SetZoomMsg sets the zoom scale directly.
type SetZoomMsg struct {
	Scale float64
}

// CreateItemMsg requests a new item near the focused one.
type CreateItemMsg struct {
	Kind  string // "branch" or "leaf"
	Label string
}

// CreateNoteMsg drops a note at the view center.
type CreateNoteMsg struct {
	Text string
}

// DeleteFocusedMsg deletes the focused item and its subtree.
type DeleteFocusedMsg struct{}

// ToggleLikeMsg toggles the saved flag on the focused item.
type ToggleLikeMsg struct{}

// ToggleGridMsg toggles the background grid.
type ToggleGridMsg struct{}

// GenerateMoreMsg requests additional children for the focused item.
type GenerateMoreMsg struct{}

// RefreshChildrenMsg replaces generated children of the focused item.
type RefreshChildrenMsg struct{}

// ElaborateMsg requests a detailed writeup of the focused idea.
type ElaborateMsg struct{}

// SetAutoMsg enables or disables automatic generation.
type SetAutoMsg struct {
	// On is nil for a plain toggle.
	On *bool
}

// SetExtraContextMsg sets session-level guidance for generation.
type SetExtraContextMsg struct {
	Text string
}

// ShowSavedMsg opens the saved ideas panel.
type ShowSavedMsg struct{}

// SwitchProjectMsg switches to (or creates) a project by name.
type SwitchProjectMsg struct {
	Name string
}

// NoticeMsg carries a transient status-bar message.
type NoticeMsg struct {
	Text  string
	IsErr bool
}

// =============================================================================
// HANDLERS
// =============================================================================

func notice(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, IsErr: isErr} }
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func handleHelp(ctx *Context, args []string) tea.Cmd {
	return emit(ShowHelpMsg{})
}

func handleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

func handleCenter(ctx *Context, args []string) tea.Cmd {
	return emit(CenterViewMsg{})
}

func handleZoom(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return notice("usage: /zoom <20-100>", true)
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
	if err != nil || pct < 20 || pct > 100 {
		return notice("zoom must be a percentage between 20 and 100", true)
	}
	return emit(SetZoomMsg{Scale: float64(pct) / 100})
}

func handleBranch(ctx *Context, args []string) tea.Cmd {
	label := strings.TrimSpace(strings.Join(args, " "))
	if label == "" {
		return notice("usage: /branch <label>", true)
	}
	return emit(CreateItemMsg{Kind: "branch", Label: label})
}

func handleLeaf(ctx *Context, args []string) tea.Cmd {
	label := strings.TrimSpace(strings.Join(args, " "))
	if label == "" {
		return notice("usage: /leaf <label>", true)
	}
	return emit(CreateItemMsg{Kind: "leaf", Label: label})
}

func handleNote(ctx *Context, args []string) tea.Cmd {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return notice("usage: /note <text>", true)
	}
	return emit(CreateNoteMsg{Text: text})
}

func handleDelete(ctx *Context, args []string) tea.Cmd {
	return emit(DeleteFocusedMsg{})
}

func handleLike(ctx *Context, args []string) tea.Cmd {
	return emit(ToggleLikeMsg{})
}

func handleGrid(ctx *Context, args []string) tea.Cmd {
	return emit(ToggleGridMsg{})
}

func handleMore(ctx *Context, args []string) tea.Cmd {
	return emit(GenerateMoreMsg{})
}

func handleRefresh(ctx *Context, args []string) tea.Cmd {
	return emit(RefreshChildrenMsg{})
}

func handleElaborate(ctx *Context, args []string) tea.Cmd {
	return emit(ElaborateMsg{})
}

func handleAuto(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return emit(SetAutoMsg{})
	}
	on := strings.EqualFold(args[0], "on")
	return emit(SetAutoMsg{On: &on})
}

func handleContext(ctx *Context, args []string) tea.Cmd {
	return emit(SetExtraContextMsg{Text: strings.TrimSpace(strings.Join(args, " "))})
}

func handleSaved(ctx *Context, args []string) tea.Cmd {
	return emit(ShowSavedMsg{})
}

func handleProject(ctx *Context, args []string) tea.Cmd {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return notice("usage: /project <name>", true)
	}
	return emit(SwitchProjectMsg{Name: name})
}

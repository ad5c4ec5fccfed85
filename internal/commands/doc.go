// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// This package handles parsing and executing slash commands typed into the
// canvas command line. Handlers never mutate canvas state directly; each one
// returns a tea.Cmd that emits a message the canvas model interprets.
//
// # Key Types
//
//   - Registry: Command registry with all available commands
//   - Parser: Splits input into command name and quoted arguments
//   - ParseResult: Parsed command with name and arguments
//
// # Built-in Commands
//
//   - /help: Show available commands
//   - /branch, /leaf, /note: Create items on the canvas
//   - /more, /refresh, /elaborate: Generation operations
//   - /center, /zoom, /grid: View control
//   - /saved, /project: Saved ideas and project switching
//
// # Usage
//
// Parse and execute a command:
//
//	result := parser.Parse(input)
//	if result.IsCommand && result.Command != nil {
//	    return result.Command.Handler(ctx, result.Args)
//	}
package commands

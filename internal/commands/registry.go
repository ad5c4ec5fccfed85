// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/canopy-tui/internal/config"
	"github.com/jeranaias/canopy-tui/internal/storage"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/branch <label>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypeEnum                   // One of predefined values
	ArgTypeProject                // Project name from storage
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Category:    "Navigation",
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit canopy",
		Category:    "Navigation",
		Handler:     handleQuit,
	})

	r.Register(&Command{
		Name:        "/center",
		Aliases:     []string{"/c"},
		Description: "Glide the view back to the trunk",
		Category:    "Navigation",
		Handler:     handleCenter,
	})

	r.Register(&Command{
		Name:        "/zoom",
		Description: "Set zoom level as a percentage",
		Usage:       "/zoom <20-100>",
		Args: []ArgDef{
			{Name: "percent", Required: true, Type: ArgTypeString, Description: "Zoom percentage between 20 and 100"},
		},
		Category: "Navigation",
		Handler:  handleZoom,
	})

	// Canvas commands
	r.Register(&Command{
		Name:        "/branch",
		Aliases:     []string{"/b"},
		Description: "Create a branch idea near the focused item",
		Usage:       "/branch <label>",
		Args: []ArgDef{
			{Name: "label", Required: true, Type: ArgTypeString, Description: "Label for the new branch"},
		},
		Category: "Canvas",
		Handler:  handleBranch,
	})

	r.Register(&Command{
		Name:        "/leaf",
		Aliases:     []string{"/l"},
		Description: "Create a leaf idea near the focused item",
		Usage:       "/leaf <label>",
		Args: []ArgDef{
			{Name: "label", Required: true, Type: ArgTypeString, Description: "Label for the new leaf"},
		},
		Category: "Canvas",
		Handler:  handleLeaf,
	})

	r.Register(&Command{
		Name:        "/note",
		Aliases:     []string{"/n"},
		Description: "Drop a free-floating note at the view center",
		Usage:       "/note <text>",
		Args: []ArgDef{
			{Name: "text", Required: true, Type: ArgTypeString, Description: "Note body"},
		},
		Category: "Canvas",
		Handler:  handleNote,
	})

	r.Register(&Command{
		Name:        "/delete",
		Aliases:     []string{"/del"},
		Description: "Delete the focused item and its descendants",
		Category:    "Canvas",
		Handler:     handleDelete,
	})

	r.Register(&Command{
		Name:        "/like",
		Description: "Toggle the saved flag on the focused item",
		Category:    "Canvas",
		Handler:     handleLike,
	})

	r.Register(&Command{
		Name:        "/grid",
		Description: "Toggle the background grid",
		Category:    "Canvas",
		Handler:     handleGrid,
	})

	// Generation commands
	r.Register(&Command{
		Name:        "/more",
		Aliases:     []string{"/m"},
		Description: "Generate more ideas under the focused item",
		Category:    "Generate",
		Handler:     handleMore,
	})

	r.Register(&Command{
		Name:        "/refresh",
		Aliases:     []string{"/r"},
		Description: "Replace generated children of the focused item",
		Category:    "Generate",
		Handler:     handleRefresh,
	})

	r.Register(&Command{
		Name:        "/elaborate",
		Aliases:     []string{"/e"},
		Description: "Expand the focused idea into a detailed writeup",
		Category:    "Generate",
		Handler:     handleElaborate,
	})

	r.Register(&Command{
		Name:        "/auto",
		Description: "Toggle automatic idea generation",
		Usage:       "/auto [on|off]",
		Args: []ArgDef{
			{Name: "state", Required: false, Type: ArgTypeEnum, Values: []string{"on", "off"}, Description: "Enable or disable"},
		},
		Category: "Generate",
		Handler:  handleAuto,
	})

	r.Register(&Command{
		Name:        "/context",
		Description: "Set extra guidance for generated ideas",
		Usage:       "/context [text]",
		Args: []ArgDef{
			{Name: "text", Required: false, Type: ArgTypeString, Description: "Guidance text; empty clears it"},
		},
		Category: "Generate",
		Handler:  handleContext,
	})

	// Project commands
	r.Register(&Command{
		Name:        "/saved",
		Aliases:     []string{"/s"},
		Description: "Show the saved ideas panel",
		Category:    "Project",
		Handler:     handleSaved,
	})

	r.Register(&Command{
		Name:        "/project",
		Aliases:     []string{"/p"},
		Description: "Switch to or create a project",
		Usage:       "/project <name>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeProject, Description: "Project name"},
		},
		Category: "Project",
		Handler:  handleProject,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// It follows the dependency injection pattern, allowing handlers to access
// services without direct coupling to the application structure.
//
// All fields are optional and may be nil - handlers should check before use.
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Store handles canvas persistence
	Store storage.Store

	// Scope identifies the owner and active project
	Scope storage.Scope
}

// NewContext creates a new command context with the given dependencies.
// All parameters are optional and can be zero values.
func NewContext(cfg *config.Config, store storage.Store, scope storage.Scope) *Context {
	return &Context{
		Config: cfg,
		Store:  store,
		Scope:  scope,
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// PARSER
// =============================================================================

// ParseResult is the outcome of parsing one input line.
type ParseResult struct {
	// IsCommand is true when the line starts with /
	IsCommand bool

	// IsValid is true when the command resolved and its arguments passed
	// validation. Implies Command != nil.
	IsValid bool

	// Command is the resolved command, nil when unknown.
	Command *Command

	// Args are the parsed argument tokens. Quoted tokens keep their spaces.
	Args []string

	// Error holds a user-facing message when IsValid is false.
	Error string
}

// Parser resolves slash commands against a registry.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser backed by the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse tokenizes an input line, resolves the command and validates its
// arguments. Lines not starting with / come back with IsCommand false.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)

	var result ParseResult
	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	tokens := splitArgs(input)
	if len(tokens) == 0 {
		result.Error = "empty command"
		return result
	}

	result.Command = p.registry.Get(tokens[0])
	if result.Command == nil {
		result.Error = "unknown command " + tokens[0]
		return result
	}
	result.Args = tokens[1:]

	if err := ValidateArgs(result.Command, result.Args); err != nil {
		result.Error = err.Error()
		return result
	}
	result.IsValid = true
	return result
}

// IsCommand reports whether the input looks like a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the leading command token of an input line,
// or "" for non-command input.
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input
	}
	return input[:end]
}

// splitArgs splits a line into tokens. Single or double quotes group a
// token with spaces; the quotes themselves are dropped.
func splitArgs(input string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, ch := range input {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case unicode.IsSpace(ch):
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return tokens
}

// =============================================================================
// ARGUMENT VALIDATION
// =============================================================================

// ValidateArgs checks provided arguments against a command's definitions:
// required arguments must be present and enum arguments must carry one of
// the declared values (case-insensitive).
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	for i, def := range cmd.Args {
		if def.Required && i >= len(args) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "required argument missing",
				Expected: def.Description,
			}
		}
		if i >= len(args) || def.Type != ArgTypeEnum || len(def.Values) == 0 {
			continue
		}
		ok := false
		for _, v := range def.Values {
			if strings.EqualFold(args[i], v) {
				ok = true
				break
			}
		}
		if !ok {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

// ValidationError describes an argument that failed validation.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	msg := e.Command + ": " + e.Message
	if e.Arg != "" {
		msg += " for '" + e.Arg + "'"
	}
	if e.Got != "" {
		msg += " (got " + e.Got + ")"
	}
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	return msg
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"testing"

	"github.com/jeranaias/canopy-tui/internal/storage"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/branch solar", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/branch solar farms", "/branch"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParse_QuotedArgs(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse(`/branch "solar powered kilns"`)
	if !result.IsCommand {
		t.Fatal("expected IsCommand")
	}
	if result.Command == nil || result.Command.Name != "/branch" {
		t.Fatalf("command = %v, want /branch", result.Command)
	}
	if len(result.Args) != 1 || result.Args[0] != "solar powered kilns" {
		t.Errorf("args = %v, want single quoted token", result.Args)
	}
}

func TestParse_NonCommand(t *testing.T) {
	p := NewParser(NewRegistry())
	result := p.Parse("just some text")
	if result.IsCommand {
		t.Error("plain text parsed as command")
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())
	result := p.Parse("/frobnicate")
	if !result.IsCommand {
		t.Fatal("expected IsCommand")
	}
	if result.Command != nil {
		t.Errorf("unknown command resolved to %q", result.Command.Name)
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistry_Aliases(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		lookup string
		want   string
	}{
		{"/help", "/help"},
		{"/h", "/help"},
		{"/?", "/help"},
		{"/b", "/branch"},
		{"/q", "/quit"},
		{"/e", "/elaborate"},
		{"/s", "/saved"},
	}

	for _, tc := range tests {
		cmd := r.Get(tc.lookup)
		if cmd == nil {
			t.Errorf("Get(%q) = nil", tc.lookup)
			continue
		}
		if cmd.Name != tc.want {
			t.Errorf("Get(%q).Name = %q, want %q", tc.lookup, cmd.Name, tc.want)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	byCat := NewRegistry().ByCategory()

	for _, cat := range []string{"Navigation", "Canvas", "Generate", "Project"} {
		if len(byCat[cat]) == 0 {
			t.Errorf("category %q has no commands", cat)
		}
	}
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	branch := r.Get("/branch")
	if err := ValidateArgs(branch, nil); err == nil {
		t.Error("missing required label should fail validation")
	}
	if err := ValidateArgs(branch, []string{"solar"}); err != nil {
		t.Errorf("valid args failed: %v", err)
	}

	auto := r.Get("/auto")
	if err := ValidateArgs(auto, []string{"sideways"}); err == nil {
		t.Error("invalid enum value should fail validation")
	}
	if err := ValidateArgs(auto, []string{"ON"}); err != nil {
		t.Errorf("enum validation should be case-insensitive: %v", err)
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

// runHandler executes a command handler and returns the emitted message.
func runHandler(t *testing.T, name string, args []string) interface{} {
	t.Helper()
	cmd := NewRegistry().Get(name)
	if cmd == nil {
		t.Fatalf("command %q not registered", name)
	}
	teaCmd := cmd.Handler(NewContext(nil, nil, storage.Scope{}), args)
	if teaCmd == nil {
		t.Fatalf("handler %q returned nil cmd", name)
	}
	return teaCmd()
}

func TestHandleBranchEmitsCreate(t *testing.T) {
	msg := runHandler(t, "/branch", []string{"tidal", "power"})
	create, ok := msg.(CreateItemMsg)
	if !ok {
		t.Fatalf("msg = %T, want CreateItemMsg", msg)
	}
	if create.Kind != "branch" || create.Label != "tidal power" {
		t.Errorf("create = %+v", create)
	}
}

func TestHandleZoomBounds(t *testing.T) {
	msg := runHandler(t, "/zoom", []string{"50"})
	zoom, ok := msg.(SetZoomMsg)
	if !ok {
		t.Fatalf("msg = %T, want SetZoomMsg", msg)
	}
	if zoom.Scale != 0.5 {
		t.Errorf("scale = %v, want 0.5", zoom.Scale)
	}

	for _, bad := range [][]string{nil, {"10"}, {"150"}, {"huge"}} {
		msg := runHandler(t, "/zoom", bad)
		if notice, ok := msg.(NoticeMsg); !ok || !notice.IsErr {
			t.Errorf("zoom %v: msg = %#v, want error notice", bad, msg)
		}
	}
}

func TestHandleAutoToggleAndExplicit(t *testing.T) {
	if msg := runHandler(t, "/auto", nil); msg.(SetAutoMsg).On != nil {
		t.Error("bare /auto should toggle (nil On)")
	}
	on := runHandler(t, "/auto", []string{"on"}).(SetAutoMsg)
	if on.On == nil || !*on.On {
		t.Error("/auto on should set On=true")
	}
	off := runHandler(t, "/auto", []string{"off"}).(SetAutoMsg)
	if off.On == nil || *off.On {
		t.Error("/auto off should set On=false")
	}
}

func TestHandleNoteRequiresText(t *testing.T) {
	msg := runHandler(t, "/note", nil)
	if notice, ok := msg.(NoticeMsg); !ok || !notice.IsErr {
		t.Errorf("empty note: msg = %#v, want error notice", msg)
	}
}

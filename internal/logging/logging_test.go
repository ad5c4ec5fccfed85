// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "canopy.log")
	if err := Init(path, "debug"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	For("canvas").Info("hello from test")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "hello from test") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "canvas") {
		t.Errorf("log output missing component prefix: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canopy.log")
	if err := Init(path, "warn"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	For("muse").Info("below threshold")
	For("muse").Warn("at threshold")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "below threshold") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "at threshold") {
		t.Error("warn message dropped at warn level")
	}
}

func TestForBeforeInit(t *testing.T) {
	InitDiscard()
	// Must not panic, even though nothing is written anywhere useful.
	For("storage").Error("dropped")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"info":    "info",
		"warn":    "warn",
		"error":   "error",
		"bogus":   "info",
		"":        "info",
		"VERBOSE": "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

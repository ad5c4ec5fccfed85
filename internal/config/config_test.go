// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.Validate()

	if cfg.Canvas.GridStep != 50 {
		t.Errorf("default grid step = %v, want 50", cfg.Canvas.GridStep)
	}
	if cfg.Muse.Backend != "service" {
		t.Errorf("default backend = %q, want service", cfg.Muse.Backend)
	}
	if cfg.Owner == "" {
		t.Error("default owner is empty")
	}
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	body := `
version = "1"
owner = "dana"

[canvas]
grid_step = 100

[muse]
backend = "ollama"
model = "llama3.2:3b"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Owner != "dana" {
		t.Errorf("owner = %q, want dana", cfg.Owner)
	}
	if cfg.Canvas.GridStep != 100 {
		t.Errorf("grid step = %v, want 100", cfg.Canvas.GridStep)
	}
	if cfg.Muse.Backend != "ollama" {
		t.Errorf("backend = %q, want ollama", cfg.Muse.Backend)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Canvas.MinSeparation != 130 {
		t.Errorf("min separation = %v, want default 130", cfg.Canvas.MinSeparation)
	}
}

func TestLoadFromJSONFallback(t *testing.T) {
	dir := t.TempDir()
	body := `{"owner": "casey", "muse": {"backend": "openai"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Owner != "casey" {
		t.Errorf("owner = %q, want casey", cfg.Owner)
	}
	if cfg.Muse.Backend != "openai" {
		t.Errorf("backend = %q, want openai", cfg.Muse.Backend)
	}
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadFromMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("owner = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(dir); err == nil {
		t.Error("expected parse error for malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CANOPY_OWNER", "env-owner")
	t.Setenv("CANOPY_MUSE_BACKEND", "ollama")
	t.Setenv("CANOPY_AUTO_GENERATE", "false")

	cfg := Default()
	applyEnv(cfg)

	if cfg.Owner != "env-owner" {
		t.Errorf("owner = %q, want env-owner", cfg.Owner)
	}
	if cfg.Muse.Backend != "ollama" {
		t.Errorf("backend = %q, want ollama", cfg.Muse.Backend)
	}
	if cfg.UI.AutoGenerate {
		t.Error("auto generate should be disabled by env")
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.Canvas.GridStep = 0
	cfg.Canvas.MinSeparation = 99999
	cfg.Muse.Backend = "carrier-pigeon"
	cfg.Log.Level = "loudest"
	cfg.UI.Theme = "plaid"

	cfg.Validate()

	if cfg.Canvas.GridStep != 50 {
		t.Errorf("grid step = %v, want clamped 50", cfg.Canvas.GridStep)
	}
	if cfg.Canvas.MinSeparation != 130 {
		t.Errorf("min separation = %v, want clamped 130", cfg.Canvas.MinSeparation)
	}
	if cfg.Muse.Backend != "service" {
		t.Errorf("backend = %q, want service", cfg.Muse.Backend)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Owner = "round-trip"
	cfg.Canvas.GridStep = 75
	if err := cfg.SaveTo(dir); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Owner != "round-trip" {
		t.Errorf("owner = %q, want round-trip", loaded.Owner)
	}
	if loaded.Canvas.GridStep != 75 {
		t.Errorf("grid step = %v, want 75", loaded.Canvas.GridStep)
	}
}

func TestGlobalSetAndGet(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Default()
	cfg.Owner = "global-owner"
	SetGlobal(cfg)

	if got := Global().Owner; got != "global-owner" {
		t.Errorf("Global().Owner = %q, want global-owner", got)
	}
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Owner = "writer"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// canopy - an infinitely pannable idea canvas for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/canopy-tui/internal/config"
	"github.com/jeranaias/canopy-tui/internal/logging"
	"github.com/jeranaias/canopy-tui/internal/muse"
	"github.com/jeranaias/canopy-tui/internal/storage"
	uicanvas "github.com/jeranaias/canopy-tui/internal/ui/canvas"
	"github.com/jeranaias/canopy-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		projectFlag = flag.String("project", "", "project to open (created if missing)")
		ownerFlag   = flag.String("owner", "", "owner identifier overriding the config")
		topicFlag   = flag.String("topic", "", "topic for a newly created project")
		versionFlag = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("canopy %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*projectFlag, *ownerFlag, *topicFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(projectName, owner, topic string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if owner != "" {
		cfg.Owner = owner
	}
	config.SetGlobal(cfg)

	// The TUI owns stdout; diagnostics go to the log file.
	logPath := cfg.Log.Path
	if logPath == "" {
		dir, derr := config.Dir()
		if derr != nil {
			return derr
		}
		logPath = filepath.Join(dir, "canopy.log")
	}
	if err := logging.Init(logPath, cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logging.Close()
	log := logging.For("main")
	log.Info("starting", "version", Version, "owner", cfg.Owner)

	// Persistence.
	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath, err = storage.DefaultPath()
		if err != nil {
			return err
		}
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	// Generation backend.
	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	project, err := resolveProject(store, cfg.Owner, projectName, topic)
	if err != nil {
		return err
	}
	log.Info("project open", "name", project.Name, "topic", project.Topic)

	theme := styles.NewTheme()
	scope := storage.Scope{Owner: cfg.Owner, Project: project.ID}
	m := uicanvas.NewModel(cfg, theme, store, gen, scope)
	defer m.FlushPending()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Config edits land in the running session without a restart.
	if dir, derr := config.Dir(); derr == nil {
		watcher, werr := config.NewWatcher(dir, func(next *config.Config) {
			p.Send(uicanvas.ConfigReloaded(next))
		})
		if werr == nil {
			if werr = watcher.Watch(); werr == nil {
				defer watcher.Close()
			}
		}
		if werr != nil {
			log.Warn("config watcher unavailable", "error", werr)
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("canopy exited with an error: %w", err)
	}
	return nil
}

// buildGenerator selects the muse backend from config. With the backend set
// to "off", automatic generation is disabled and every explicit request
// reports the service as unavailable.
func buildGenerator(cfg *config.Config) (muse.Generator, error) {
	switch cfg.Muse.Backend {
	case "ollama":
		return muse.NewOllamaGenerator(&muse.OllamaConfig{
			BaseURL: cfg.Muse.BaseURL,
			Model:   cfg.Muse.Model,
		}), nil
	case "openai":
		return muse.NewOpenAIGenerator(&muse.OpenAIConfig{
			APIKey:  cfg.Muse.APIKey,
			Model:   cfg.Muse.Model,
			BaseURL: cfg.Muse.BaseURL,
		})
	case "off":
		cfg.UI.AutoGenerate = false
		return disabledGenerator{}, nil
	default:
		return muse.NewServiceClient(&muse.ServiceConfig{
			BaseURL: cfg.Muse.BaseURL,
			APIKey:  cfg.Muse.APIKey,
		}), nil
	}
}

// disabledGenerator answers every request with unavailable.
type disabledGenerator struct{}

func (disabledGenerator) Name() string { return "off" }

func (disabledGenerator) Generate(context.Context, muse.Request) (muse.Result, error) {
	return muse.Result{}, muse.ErrUnavailable
}

// resolveProject opens the named project, the most recent project, or a
// fresh default one, in that order.
func resolveProject(store storage.Store, owner, name, topic string) (storage.Project, error) {
	ctx := context.Background()
	projects, err := store.ListProjects(ctx, owner)
	if err != nil {
		return storage.Project{}, err
	}

	if name != "" {
		for _, p := range projects {
			if p.Name == name {
				return p, nil
			}
		}
		if topic == "" {
			topic = name
		}
		return store.CreateProject(ctx, owner, name, topic)
	}

	if len(projects) > 0 {
		return projects[0], nil
	}
	if topic == "" {
		topic = "ideas"
	}
	return store.CreateProject(ctx, owner, "ideas", topic)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/guyeu9/Interactive-story-game-editor/internal/config"
	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
	"github.com/guyeu9/Interactive-story-game-editor/internal/logger"
	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store/postgres"
	redisstore "github.com/guyeu9/Interactive-story-game-editor/internal/store/redis"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	backend, err := config.Backend(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	var db store.Store
	switch backend {
	case "sqlite":
		db, err = sqlite.New(ctx, cfg.Database.DSN)
	case "postgres":
		db, err = postgres.New(ctx, cfg.Database.DSN)
	case "redis":
		db, err = redisstore.New(ctx, cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// project is everything a command needs once the config is loaded.
type project struct {
	cfg   *config.ProjectConfig
	db    store.Store
	alloc *ident.Allocator
	opts  ingest.Options
	log   *slog.Logger
}

func openProject(ctx context.Context) (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.Setup(cfg.Log)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hints := make([]ingest.Hint, 0, len(cfg.Worldview.Hints))
	for _, h := range cfg.Worldview.Hints {
		hints = append(hints, ingest.Hint{Match: h.Match, Worldview: h.Worldview})
	}
	return &project{
		cfg:   cfg,
		db:    db,
		alloc: ident.New(ident.WithMaxAttempts(cfg.Allocator.MaxAttempts)),
		opts: ingest.Options{
			Hints:            hints,
			DefaultWorldview: cfg.Worldview.Default,
			Exclude:          cfg.Exclude,
			Logger:           log,
		},
		log: log,
	}, nil
}

func (p *project) Close(ctx context.Context) {
	if err := p.db.Close(ctx); err != nil {
		logger.WithError(p.log, err).Warn("closing store")
	}
}

// dataset loads the stored dataset, repairing repeated IDs on the way.
func (p *project) dataset(ctx context.Context) (*dataset.Dataset, error) {
	d, repaired, err := ingest.Load(ctx, p.db, p.alloc, p.opts)
	if err != nil {
		return nil, err
	}
	if repaired != nil {
		p.log.Warn("duplicate ids repaired on load", "changes", len(repaired.Changes))
	}
	return d, nil
}

// session loads the saved selection and drops entries that no longer match d.
func (p *project) session(ctx context.Context, d *dataset.Dataset) (session.State, error) {
	state, err := p.db.LoadSession(ctx)
	if err != nil {
		return session.State{}, fmt.Errorf("loading session: %w", err)
	}
	state, notices := session.Reconcile(state, d, time.Now())
	for _, n := range notices {
		p.log.Warn(n)
	}
	if len(notices) > 0 {
		if err := p.db.SaveSession(ctx, state); err != nil {
			return session.State{}, fmt.Errorf("saving session: %w", err)
		}
	}
	return state, nil
}

func (p *project) resetSession(ctx context.Context) error {
	state, err := p.db.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if err := p.db.SaveSession(ctx, session.ResetSelection(state, time.Now())); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

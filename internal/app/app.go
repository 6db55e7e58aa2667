// Package app wires the journal's components together. The original design
// reached for ambient singletons; here everything is constructed explicitly
// so tests can substitute an in-memory store.
package app

import (
	"decidemate/internal/analytics"
	"decidemate/internal/config"
	"decidemate/internal/events"
	"decidemate/internal/kv"
	"decidemate/internal/premium"
	"decidemate/internal/repo"
)

// App holds a fully wired journal over a workspace database.
type App struct {
	Config    *config.Config
	Store     *kv.Store
	Repo      *repo.Repository
	Analytics *analytics.Engine
	Premium   *premium.Gate
	Events    *events.Writer
}

// Open ensures the workspace exists, opens and migrates its database, and
// wires the repository, analytics engine, and premium gate.
func Open(workspace, actorID string) (*App, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}
	store, err := kv.Open(kv.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	writer := &events.Writer{DB: store.DB}
	r := repo.New(store)
	r.Events = writer
	if actorID != "" {
		r.ActorID = actorID
	}
	gate := premium.New(store, r)
	gate.Limit = cfg.Limits.FreeTier
	return &App{
		Config:    cfg,
		Store:     store,
		Repo:      r,
		Analytics: analytics.New(r),
		Premium:   gate,
		Events:    writer,
	}, nil
}

// Close releases the underlying database.
func (a *App) Close() error {
	return a.Store.Close()
}

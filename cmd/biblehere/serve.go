package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/internal/api"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
	"github.com/FocuswithJustin/BibleHere/internal/reload"
)

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port  int  `help:"Port to listen on (overrides server.port)"`
	Watch bool `help:"Reload the corpus when the database changes (also storage.watch)"`
}

func (c *ServeCmd) Run() error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := a.engine(ctx)
	if err != nil {
		return err
	}

	cfg := api.FromConfig(a.cfg.Server, version)
	if c.Port != 0 {
		cfg.Port = c.Port
	}
	srv, err := api.New(cfg, eng)
	if err != nil {
		return err
	}
	defer srv.Close()

	if c.Watch || a.cfg.Storage.Watch {
		w, err := reload.New(reload.Config{
			Path:   a.db.Path(),
			Reload: reloader(a, eng, srv.Hub()),
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	return srv.ListenAndServe(ctx)
}

// reloader reloads the corpus into eng and tells websocket clients.
func reloader(a *app, eng *engine.Engine, hub *api.Hub) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		data, err := a.db.Load(ctx, a.canon)
		if err != nil {
			logging.Error("corpus reload failed", "error", err)
			return err
		}
		eng.Swap(data)
		hub.Broadcast(api.EventReload, eng.Stats().Corpus)
		return nil
	}
}

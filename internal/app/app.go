// Package app assembles the store, publisher, catalog and service from
// configuration. Both binaries start here.
package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/jobdesk/backend/internal/catalog"
	"github.com/example/jobdesk/backend/internal/config"
	"github.com/example/jobdesk/backend/internal/db"
	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/mq"
	"github.com/example/jobdesk/backend/internal/repository"
	"github.com/example/jobdesk/backend/internal/repository/memory"
	"github.com/example/jobdesk/backend/internal/service"
	"github.com/example/jobdesk/backend/internal/sqlite"
)

// App holds the wired collaborators.
type App struct {
	Config  config.Config
	Log     *logrus.Logger
	Store   service.Store
	Catalog *catalog.Catalog
	Service *service.RequestService

	closers []func() error
	ping    func(context.Context) error
}

// New opens the configured store, runs its migrations and builds the service.
func New(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = cat

	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	var policy models.TransitionPolicy = models.PermissiveTransitions{}
	if cfg.StrictTransitions {
		policy = models.StrictTransitions
	}

	a.Service = service.NewRequestService(store, a.openPublisher(), log, service.Settings{
		ReferencePrefix: cfg.ReferencePrefix,
		DecisionActor:   cfg.DecisionActor,
		TeamActor:       cfg.TeamActor,
		Policy:          policy,
		Location:        loc,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) (service.Store, error) {
	switch a.Config.StoreDriver {
	case config.DriverMemory:
		a.Log.Warn("using in-memory store, data is lost on exit")
		return memory.New(), nil
	case config.DriverPostgres:
		database, err := db.New(a.Config.DatabaseURL, a.Config.DBDebug)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := database.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		a.ping = func(ctx context.Context) error { return db.Ping(ctx, database) }
		repo := repository.NewRequestRepository(database)
		if err := repo.Migrate(ctx); err != nil {
			return nil, errors.Wrap(err, "migrate postgres")
		}
		return repo, nil
	case config.DriverSQLite:
		database, err := sqlite.New(a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		if err := database.Migrate(ctx); err != nil {
			return nil, errors.Wrap(err, "migrate sqlite")
		}
		a.Log.WithField("path", a.Config.SQLitePath).Info("opened sqlite store")
		return sqlite.NewRequestStore(database), nil
	default:
		return nil, errors.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}
}

// openPublisher returns nil when events are disabled or the broker is
// unreachable; the service runs without events in that case.
func (a *App) openPublisher() mq.Publisher {
	if !a.Config.EventsEnabled {
		return nil
	}
	publisher, err := mq.NewRabbitPublisher(a.Config.MQURL, a.Config.MQExchange)
	if err != nil {
		a.Log.WithError(err).Warn("rabbitmq unavailable, continuing without events")
		return nil
	}
	a.closers = append(a.closers, publisher.Close)
	return publisher
}

// Ping reports whether the backing database answers. Stores without a
// server connection are always healthy.
func (a *App) Ping(ctx context.Context) error {
	if a.ping == nil {
		return nil
	}
	return a.ping(ctx)
}

// Close releases the store and broker connections in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.WithError(err).Warn("close resource")
		}
	}
	a.closers = nil
}

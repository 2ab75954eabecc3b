package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/beanbocchi/portage/config"
	"github.com/beanbocchi/portage/internal/client/objectstore"
	"github.com/beanbocchi/portage/internal/client/objectstore/local"
	"github.com/beanbocchi/portage/internal/client/objectstore/stoj"
	syncstore "github.com/beanbocchi/portage/internal/client/objectstore/sync"
	"github.com/beanbocchi/portage/internal/obs/metrics"
	"github.com/beanbocchi/portage/internal/source"
	"github.com/beanbocchi/portage/internal/transfer"
	"github.com/beanbocchi/portage/pkg/sqlc"
)

type Service struct {
	storage     *sqlc.Storage
	registry    *transfer.Registry
	coordinator *transfer.Coordinator
	metrics     *metrics.Metrics

	jobs chan func()
}

func NewService(cfg *config.Config, sqliteDB *sql.DB) (*Service, error) {
	storage := sqlc.NewStorage(sqliteDB)

	var backend objectstore.Client
	switch cfg.Objectstore.Type {
	case "storj":
		storjStore, err := stoj.NewClient(context.Background(), stoj.StorjConfig{
			AccessGrant: cfg.Objectstore.Storj.AccessGrant,
			Bucket:      cfg.Objectstore.Storj.Bucket,
			Prefix:      cfg.Objectstore.Storj.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("create storj store: %w", err)
		}
		backend = storjStore
	default:
		localStore, err := local.NewClient(local.LocalConfig{
			Root: cfg.Objectstore.Local.Root,
		})
		if err != nil {
			return nil, fmt.Errorf("create local store: %w", err)
		}
		backend = localStore
	}

	// Per-key write locking: transfers for different owners may target the
	// same object name.
	store, err := syncstore.NewSyncClient(syncstore.SyncConfig{Client: backend})
	if err != nil {
		return nil, fmt.Errorf("create sync store: %w", err)
	}

	registry := transfer.NewRegistry()
	m := metrics.New()

	coordinator, err := transfer.NewCoordinator(transfer.CoordinatorConfig{
		Store:    store,
		Source:   source.NewHTTPProvider(source.HTTPConfig{Timeout: time.Duration(cfg.Source.TimeoutSeconds) * time.Second}),
		Registry: registry,
		Notifier: &logNotifier{log: slog.Default()},
		Journal:  &sqlJournal{storage: storage},
		Counters: m,
		Logger:   slog.Default(),

		StagingRoot:      cfg.Transfer.StagingRoot,
		HardCeiling:      cfg.Transfer.HardCeilingMiB * 1024 * 1024,
		ProgressInterval: time.Duration(cfg.Transfer.ProgressIntervalSeconds) * time.Second,
		RetryAttempts:    cfg.Transfer.RetryAttempts,
		RetryBaseDelay:   time.Duration(cfg.Transfer.RetryBaseDelaySeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create coordinator: %w", err)
	}

	// Create a job queue
	jobs := make(chan func(), cfg.App.JobBuffer)
	go func() {
		for job := range jobs {
			job()
		}
	}()

	return &Service{
		storage:     storage,
		registry:    registry,
		coordinator: coordinator,
		metrics:     m,
		jobs:        jobs,
	}, nil
}

// Metrics exposes the service's Prometheus registry for the HTTP layer.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

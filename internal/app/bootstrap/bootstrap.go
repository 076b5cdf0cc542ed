// Package bootstrap is the composition root. Keep construction and
// wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	auctionservice "turnstile/contexts/marketplace-core/auction-service"
	auctionpostgres "turnstile/contexts/marketplace-core/auction-service/adapters/postgres"
	auctionworkers "turnstile/contexts/marketplace-core/auction-service/application/workers"
	auctionports "turnstile/contexts/marketplace-core/auction-service/ports"
	listingservice "turnstile/contexts/marketplace-core/listing-service"
	listingpostgres "turnstile/contexts/marketplace-core/listing-service/adapters/postgres"
	listingworkers "turnstile/contexts/marketplace-core/listing-service/application/workers"
	listingports "turnstile/contexts/marketplace-core/listing-service/ports"
	royaltyservice "turnstile/contexts/marketplace-core/royalty-service"
	royaltypostgres "turnstile/contexts/marketplace-core/royalty-service/adapters/postgres"
	royaltyapp "turnstile/contexts/marketplace-core/royalty-service/application"
	"turnstile/internal/platform/config"
	"turnstile/internal/platform/db"
	"turnstile/internal/platform/httpserver"
	"turnstile/internal/platform/messaging"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	expirer      listingworkers.ListingExpirer
	closer       auctionworkers.AuctionCloser
	listingRelay listingworkers.OutboxRelay
	auctionRelay auctionworkers.OutboxRelay
	cfg          config.Config
	logger       *slog.Logger
}

// listingRoyaltySource and auctionRoyaltySource bridge the royalty
// module's config reads into each context's royalty port shape.
type listingRoyaltySource struct {
	royalty royaltyapp.Service
}

func (s listingRoyaltySource) Royalty(ctx context.Context, collectionID string) (listingports.RoyaltyInfo, error) {
	cfg, err := s.royalty.GetConfig(ctx, collectionID)
	if err != nil {
		return listingports.RoyaltyInfo{}, err
	}
	return listingports.RoyaltyInfo{
		Split:           cfg.Royalty(),
		CapMultiplierBP: cfg.CapMultiplierBP,
	}, nil
}

type auctionRoyaltySource struct {
	royalty royaltyapp.Service
}

func (s auctionRoyaltySource) Royalty(ctx context.Context, collectionID string) (auctionports.RoyaltyInfo, error) {
	cfg, err := s.royalty.GetConfig(ctx, collectionID)
	if err != nil {
		return auctionports.RoyaltyInfo{}, err
	}
	return auctionports.RoyaltyInfo{
		Split:           cfg.Royalty(),
		CapMultiplierBP: cfg.CapMultiplierBP,
	}, nil
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	royaltyModule, listingModule, auctionModule := buildModules(pg, nil, logger)
	server := httpserver.New(royaltyModule, listingModule, auctionModule, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	_, listingModule, auctionModule := buildModules(pg, kafka, logger)
	listingModule.Expirer.BatchSize = cfg.WorkerBatchSize
	listingModule.Relay.BatchSize = cfg.WorkerBatchSize
	auctionModule.Closer.BatchSize = cfg.WorkerBatchSize
	auctionModule.Relay.BatchSize = cfg.WorkerBatchSize

	return &WorkerApp{
		postgres:     pg,
		expirer:      listingModule.Expirer,
		closer:       auctionModule.Closer,
		listingRelay: listingModule.Relay,
		auctionRelay: auctionModule.Relay,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// buildModules wires the three marketplace modules over one database
// handle. The publisher is nil for the API process; only the worker
// relays outbox rows.
func buildModules(pg *db.Postgres, publisher *messaging.Kafka, logger *slog.Logger) (royaltyservice.Module, listingservice.Module, auctionservice.Module) {
	royaltyModule := royaltyservice.NewModule(royaltyservice.Dependencies{
		Repository: royaltypostgres.NewRepository(pg.DB, logger),
		Clock:      royaltypostgres.SystemClock{},
		Logger:     logger,
	})

	var listingPublisher listingports.EventPublisher
	var auctionPublisher auctionports.EventPublisher
	if publisher != nil {
		listingPublisher = publisher
		auctionPublisher = publisher
	}

	listingRepo := listingpostgres.NewRepository(pg.DB, logger)
	listingModule := listingservice.NewModule(listingservice.Dependencies{
		UnitOfWork:  listingRepo,
		Repository:  listingRepo,
		Outbox:      listingRepo,
		Tickets:     listingRepo,
		Royalties:   listingRoyaltySource{royalty: royaltyModule.Service},
		Publisher:   listingPublisher,
		Clock:       listingpostgres.SystemClock{},
		IDGenerator: listingpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	auctionRepo := auctionpostgres.NewRepository(pg.DB, logger)
	auctionModule := auctionservice.NewModule(auctionservice.Dependencies{
		UnitOfWork:  auctionRepo,
		Repository:  auctionRepo,
		Outbox:      auctionRepo,
		Tickets:     auctionRepo,
		Royalties:   auctionRoyaltySource{royalty: royaltyModule.Service},
		Publisher:   auctionPublisher,
		Clock:       auctionpostgres.SystemClock{},
		IDGenerator: auctionpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	return royaltyModule, listingModule, auctionModule
}

func (a *APIApp) Run(_ context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.WorkerInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.cfg.WorkerInterval.String(),
	)

	for {
		if err := w.runOnce(ctx); err != nil {
			w.logger.Error("worker pass failed",
				"event", "bootstrap_worker_pass_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) runOnce(ctx context.Context) error {
	if w.cfg.EnableListingExpirer {
		if _, err := w.expirer.RunOnce(ctx); err != nil {
			return err
		}
	}
	if w.cfg.EnableAuctionCloser {
		if _, err := w.closer.RunOnce(ctx); err != nil {
			return err
		}
	}
	if w.cfg.EnableOutboxRelay {
		if err := w.listingRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.auctionRelay.RunOnce(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

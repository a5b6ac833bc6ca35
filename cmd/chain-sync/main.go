package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/config"
	"github.com/feral-file/ff-chain-sync/internal/handlers"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/messaging"
	"github.com/feral-file/ff-chain-sync/internal/metadata"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
	"github.com/feral-file/ff-chain-sync/internal/providers/jetstream"
	"github.com/feral-file/ff-chain-sync/internal/store"
	"github.com/feral-file/ff-chain-sync/internal/sweeper"
	"github.com/feral-file/ff-chain-sync/internal/syncer"
	"github.com/feral-file/ff-chain-sync/internal/uri"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "chain-sync",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting chain sync", zap.Any("chains", cfg.EnabledChains()))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.Enricher.HTTPTimeout)

	// Initialize NATS publisher, publishing is optional
	var publisher messaging.Publisher
	if cfg.NATS.URL == "" {
		publisher = messaging.NewNopPublisher()
		logger.InfoCtx(ctx, "NATS URL not set, chain events are not published")
	} else {
		publisher, err = jetstream.NewPublisher(
			ctx,
			jetstream.Config{
				URL:            cfg.NATS.URL,
				StreamName:     cfg.NATS.StreamName,
				MaxReconnects:  cfg.NATS.MaxReconnects,
				ReconnectWait:  cfg.NATS.ReconnectWait,
				ConnectionName: cfg.NATS.ConnectionName,
			}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	}
	defer publisher.Close()

	// Initialize metadata fetcher
	uriResolver := uri.NewResolver(httpClient, &uri.Config{IPFSGateways: cfg.URI.IPFSGateways})
	fetcher := metadata.NewFetcher(uriResolver, httpClient, jsonAdapter)

	canonicalAdapter := canonical.NewAdapter(dataStore, clockAdapter, jsonAdapter, canonical.Config{
		ReconciliationDelay: cfg.Reconciliation.Delay,
	})

	manager := syncer.NewManager(dataStore, clockAdapter, syncer.Config{
		StepInterval:       cfg.Sync.StepInterval,
		WorkerRestartDelay: cfg.Sync.WorkerRestartDelay,
		ResubscribeDelay:   cfg.Sync.ResubscribeDelay,
		MaxLogAttempts:     cfg.Sync.MaxLogAttempts,
	})

	// Connect to every enabled chain
	ethDialer := adapter.NewEthClientDialer()
	for _, chain := range cfg.EnabledChains() {
		chainCfg := cfg.Chains[chain]

		ethClient, err := ethDialer.Dial(ctx, chainCfg.SubscriptionURL())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to dial chain RPC", zap.Error(err), zap.String("chain", chain.String()))
		}
		defer ethClient.Close()

		chainClient := ethereum.NewClient(ethereum.Config{
			Chain:           chain,
			RateLimit:       chainCfg.RPCRateLimit,
			Burst:           chainCfg.RPCBurst,
			HeadTTL:         chainCfg.BlockHeadTTL,
			HeadStaleWindow: chainCfg.BlockHeadStaleWindow,
		}, ethClient, clockAdapter)

		err = manager.AddChain(handlers.Deps{
			Chain:          chain,
			Contracts:      syncer.ContractsOf(chainCfg),
			Client:         chainClient,
			Canonical:      canonicalAdapter,
			Publisher:      publisher,
			Fetcher:        fetcher,
			JSON:           jsonAdapter,
			ProfileTimeout: cfg.Sync.ProfileTimeout,
		}, chainCfg)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to register chain", zap.Error(err), zap.String("chain", chain.String()))
		}
		logger.InfoCtx(ctx, "Connected to chain", zap.String("chain", chain.String()))
	}

	sweepers := []sweeper.Sweeper{
		sweeper.NewReconciliationSweeper(&sweeper.ReconciliationSweeperConfig{
			PollInterval:    cfg.Reconciliation.PollInterval,
			Delay:           cfg.Reconciliation.Delay,
			BatchSize:       cfg.Reconciliation.BatchSize,
			LeaseDuration:   cfg.Reconciliation.LeaseDuration,
			WorkerPoolSize:  cfg.Reconciliation.Worker.WorkerPoolSize,
			WorkerQueueSize: cfg.Reconciliation.Worker.WorkerQueueSize,
		}, dataStore, canonicalAdapter, clockAdapter),
		sweeper.NewMetadataEnricher(&sweeper.MetadataEnricherConfig{
			Interval:        cfg.Enricher.Interval,
			BatchSize:       cfg.Enricher.BatchSize,
			MaxRetries:      cfg.Enricher.MaxRetries,
			WorkerPoolSize:  cfg.Enricher.Worker.WorkerPoolSize,
			WorkerQueueSize: cfg.Enricher.Worker.WorkerQueueSize,
		}, dataStore, fetcher, jsonAdapter, clockAdapter),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return manager.Run(gctx)
	})
	for _, s := range sweepers {
		g.Go(func() error {
			return s.Start(gctx)
		})
	}
	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.Metrics.Listen)
		})
	}

	<-gctx.Done()
	logger.Info("Shutting down")

	// Give the sweepers time to finish their batch
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	for _, s := range sweepers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, fmt.Errorf("failed to stop %s: %w", s.Name(), err))
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err, zap.String("component", "chain-sync"))
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Chain sync stopped")
}

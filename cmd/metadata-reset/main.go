package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-chain-sync/internal/config"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/store"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	envPath     = flag.String("env", "config/", "Path to environment files")
	chainFlag   = flag.String("chain", "", "Reset parked tokens and collections of one chain (ela, eth, fsn, v1)")
	uniqueKey   = flag.String("unique-key", "", "Reset a single token")
	all         = flag.Bool("all", false, "Reset every parked token and collection")
	collections = flag.Bool("collections", true, "Also reset parked collections when resetting by chain or all")
)

func main() {
	flag.Parse()

	if err := validateFlags(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	config.ChdirRepoRoot()
	cfg, err := config.LoadAdminConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := logger.Initialize(logger.Config{Debug: cfg.Debug, SentryDSN: cfg.SentryDSN}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	filter := store.ResetRetriesFilter{}
	var chain *domain.Chain
	if *chainFlag != "" {
		c := domain.Chain(*chainFlag)
		chain = &c
		filter.Chain = chain
	}
	if *uniqueKey != "" {
		filter.UniqueKey = uniqueKey
	}

	tokens, err := dataStore.ResetTokenRetries(ctx, filter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to reset token retries", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Reset token retries", zap.Int64("tokens", tokens))

	if *uniqueKey == "" && *collections {
		count, err := dataStore.ResetCollectionRetries(ctx, chain)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to reset collection retries", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Reset collection retries", zap.Int64("collections", count))
	}
}

// validateFlags requires exactly one scope so that a bare invocation never resets everything
func validateFlags() error {
	scopes := 0
	if *chainFlag != "" {
		if !domain.IsValidChain(domain.Chain(*chainFlag)) {
			return fmt.Errorf("unknown chain %q", *chainFlag)
		}
		scopes++
	}
	if *uniqueKey != "" {
		scopes++
	}
	if *all {
		scopes++
	}
	if scopes != 1 {
		return fmt.Errorf("exactly one of -chain, -unique-key or -all is required")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-pulse/internal/config"
	dbpostgres "skill-pulse/internal/database/postgres"
	"skill-pulse/internal/infrastructure/cache"
	"skill-pulse/internal/repository"
	"skill-pulse/internal/usecase/scan"

	"go.uber.org/zap"
)

// One-shot staleness scan, for operators and cron-outside-the-process setups.
// The in-process scheduler and this binary share the same redis lock.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	redisCache := cache.NewRedis(cfg.Redis, logger)
	defer func() { _ = redisCache.Close() }()

	scanner := scan.NewScanner(
		repository.NewPostgresOrgRepository(db),
		repository.NewPostgresEmployeeSkillRepository(db),
		repository.NewPostgresSuggestionRepository(db),
		redisCache,
		logger,
		cfg.Scanner.StaleAfter,
		cfg.Scanner.LockTTL,
	)

	rep, err := scanner.Run(ctx)
	if err != nil {
		if errors.Is(err, scan.ErrScanInProgress) {
			logger.Info("scan skipped, another run holds the lock")
			return
		}
		logger.Fatal("scan failed", zap.Error(err))
	}

	logger.Info("scan done",
		zap.Int("suggestions_created", rep.SuggestionsCreated),
		zap.Int("stale_skills", rep.StaleSkills),
	)
}

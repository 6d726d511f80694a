package main

import (
	"context"
	"log"
	"os"
	"time"

	"skill-pulse/internal/config"
	"skill-pulse/internal/database/migration"
	dbpostgres "skill-pulse/internal/database/postgres"
	"skill-pulse/internal/database/seeder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	err = seeder.RunAll(ctx, db,
		seeder.SkillsSeeder{},
		seeder.OrgSeeder{DemoPassword: os.Getenv("SEED_DEMO_PASSWORD")},
	)
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("seed done")
}

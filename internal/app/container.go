package app

import (
	"context"
	"time"

	"skill-pulse/internal/config"
	"skill-pulse/internal/database"
	dbpostgres "skill-pulse/internal/database/postgres"
	"skill-pulse/internal/delivery/http/handler"
	"skill-pulse/internal/delivery/http/middleware"
	"skill-pulse/internal/delivery/http/routes"
	"skill-pulse/internal/infrastructure/cache"
	"skill-pulse/internal/pkg/jwt"
	"skill-pulse/internal/repository"
	"skill-pulse/internal/scheduler"
	"skill-pulse/internal/usecase"
	"skill-pulse/internal/usecase/scan"
	"skill-pulse/internal/ws"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Container wires every layer once at startup. Handlers only see usecase
// interfaces, usecases only see repositories.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis

	Hub       *ws.Hub
	Scanner   *scan.Scanner
	Scheduler *scheduler.Scheduler
	Registry  *routes.Registry
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger, err := newLogger(cfg.App.Environment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	validate := validator.New()

	skillRepo := repository.NewPostgresSkillRepository(db)
	employeeSkillRepo := repository.NewPostgresEmployeeSkillRepository(db)
	suggestionRepo := repository.NewPostgresSuggestionRepository(db)
	orgRepo := repository.NewPostgresOrgRepository(db)

	authUC := usecase.NewAuthUsecase(orgRepo, jwtSvc)
	catalogUC := usecase.NewCatalogUsecase(skillRepo)
	intakeUC := usecase.NewIntakeUsecase(skillRepo, employeeSkillRepo, suggestionRepo, redisCache)
	resolutionUC := usecase.NewResolutionUsecase(suggestionRepo, orgRepo, redisCache, logger)
	inboxUC := usecase.NewInboxUsecase(orgRepo, suggestionRepo, employeeSkillRepo, redisCache)

	hub := ws.NewHub(logger)
	ws.SetDefaultHub(hub)

	scanner := scan.NewScanner(
		orgRepo,
		employeeSkillRepo,
		suggestionRepo,
		redisCache,
		logger,
		cfg.Scanner.StaleAfter,
		cfg.Scanner.LockTTL,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)
	registry := routes.NewRegistry(
		handler.NewHealthHandler(db, redisCache),
		handler.NewAuthHandler(authUC, validate),
		handler.NewSkillHandler(catalogUC),
		handler.NewSuggestionHandler(intakeUC, validate),
		handler.NewReviewHandler(resolutionUC, inboxUC, validate),
		ws.NewHandler(hub, logger),
		authMw,
	)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Cache:     redisCache,
		Hub:       hub,
		Scanner:   scanner,
		Scheduler: scheduler.New(scanner, logger, cfg.Scanner.Cron),
		Registry:  registry,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

package app

import (
	"context"
	"fmt"
	"strings"

	"skill-pulse/internal/config"
	"skill-pulse/internal/database/migration"
	"skill-pulse/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, runs pending migrations, starts the ws hub
// and the scan scheduler, and returns the app plus a cleanup func.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware(c.Logger)
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	c.Registry.Register(f)

	go c.Hub.Run()

	if err := c.Scheduler.Start(); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	cleanup := func() error {
		c.Scheduler.Stop()
		c.Hub.Stop()
		return c.Close()
	}

	return &App{Fiber: f, Container: c}, cleanup, nil
}

// Migrate applies any pending schema migrations before the server listens.
func (a *App) Migrate(dir string) error {
	if a == nil || a.Container == nil {
		return fmt.Errorf("nil app")
	}
	return migration.Runner{Dir: dir}.Run(context.Background(), a.Container.DB)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

package handler

import (
	"context"
	"time"

	"skill-pulse/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus per-dependency status. Redis being down
// is reported but does not fail the probe since the server runs without it.
type HealthHandler struct {
	db    pinger
	cache pinger
}

func NewHealthHandler(db, cache pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	dbStatus := "ok"
	if h.db == nil || h.db.Ping(ctx) != nil {
		dbStatus = "down"
		status = fiber.StatusServiceUnavailable
	}

	cacheStatus := "ok"
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		cacheStatus = "down"
	}

	data := fiber.Map{
		"database": dbStatus,
		"cache":    cacheStatus,
		"time":     time.Now().UTC().Format(time.RFC3339),
	}
	if status != fiber.StatusOK {
		return response.Error(c, status, "Service unavailable", data)
	}
	return response.Success(c, status, response.MessageOK, data)
}

package routes

import (
	"skill-pulse/internal/delivery/http/handler"
	"skill-pulse/internal/delivery/http/middleware"
	"skill-pulse/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health     *handler.HealthHandler
	auth       *handler.AuthHandler
	skill      *handler.SkillHandler
	suggestion *handler.SuggestionHandler
	review     *handler.ReviewHandler
	wsHandler  *ws.Handler
	authMw     *middleware.AuthMiddleware
}

func NewRegistry(
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	skill *handler.SkillHandler,
	suggestion *handler.SuggestionHandler,
	review *handler.ReviewHandler,
	wsHandler *ws.Handler,
	authMw *middleware.AuthMiddleware,
) *Registry {
	return &Registry{
		health:     health,
		auth:       auth,
		skill:      skill,
		suggestion: suggestion,
		review:     review,
		wsHandler:  wsHandler,
		authMw:     authMw,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	if r.auth != nil {
		r.auth.RegisterRoutes(v1.Group("/auth"))
	}

	protected := v1.Group("", r.authMw.Middleware())

	if r.skill != nil {
		r.skill.RegisterRoutes(protected.Group("/skills"))
	}
	if r.suggestion != nil {
		r.suggestion.RegisterRoutes(protected.Group("/me"))
	}
	if r.review != nil {
		r.review.RegisterRoutes(protected.Group("/review"))
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.wsHandler == nil {
		return
	}
	app.Get("/ws/inbox", r.wsHandler.HandleInboxWS, r.authMw.Middleware())
}

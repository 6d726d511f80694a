package handler

import (
	"skill-pulse/internal/delivery/http/dto"
	"skill-pulse/internal/delivery/http/middleware"
	"skill-pulse/internal/pkg/response"
	"skill-pulse/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// SkillHandler serves the active skill catalog.
type SkillHandler struct {
	uc usecase.CatalogUsecase
}

func NewSkillHandler(uc usecase.CatalogUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.ListSkills)
}

func (h *SkillHandler) ListSkills(c fiber.Ctx) error {
	items, err := h.uc.ListActiveSkills(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := make([]dto.SkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.SkillResponse{ID: it.ID, Name: it.Name, Discipline: it.Discipline})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

package handler

import (
	"errors"

	"skill-pulse/internal/delivery/http/dto"
	"skill-pulse/internal/delivery/http/middleware"
	"skill-pulse/internal/domain/skill"
	"skill-pulse/internal/pkg/response"
	"skill-pulse/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// SuggestionHandler is the employee-facing self-service surface: submit a
// self-report and inspect own suggestions and validated skills.
type SuggestionHandler struct {
	uc       usecase.IntakeUsecase
	validate *validator.Validate
}

func NewSuggestionHandler(uc usecase.IntakeUsecase, validate *validator.Validate) *SuggestionHandler {
	return &SuggestionHandler{uc: uc, validate: validate}
}

func (h *SuggestionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.ListSkills)
	r.Get("/suggestions", h.ListSuggestions)
	r.Post("/suggestions", h.SubmitSelfReport)
}

func (h *SuggestionHandler) SubmitSelfReport(c fiber.Ctx) error {
	profileID, ok := c.Locals(middleware.CtxProfileIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.SelfReportRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.SubmitSelfReport(c.Context(), profileID, usecase.IntakeInput{
		SkillID:     req.SkillID,
		Proficiency: skill.Proficiency(req.ProficiencyLevel),
	})
	if err != nil {
		return mapIntakeError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, toSuggestionResponse(created))
}

func (h *SuggestionHandler) ListSuggestions(c fiber.Ctx) error {
	profileID, ok := c.Locals(middleware.CtxProfileIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListOwnSuggestions(c.Context(), profileID)
	if err != nil {
		return mapIntakeError(err)
	}

	res := make([]dto.SuggestionResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toSuggestionResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SuggestionHandler) ListSkills(c fiber.Ctx) error {
	profileID, ok := c.Locals(middleware.CtxProfileIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListOwnSkills(c.Context(), profileID)
	if err != nil {
		return mapIntakeError(err)
	}

	res := make([]dto.EmployeeSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.EmployeeSkillResponse{
			SkillID:         it.SkillID,
			SkillName:       it.SkillName,
			Proficiency:     it.Proficiency.String(),
			LastValidatedAt: it.LastValidatedAt,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func toSuggestionResponse(it usecase.SuggestionItem) dto.SuggestionResponse {
	return dto.SuggestionResponse{
		SuggestionID:         it.ID,
		Status:               string(it.Status),
		Source:               string(it.Source),
		SuggestedProficiency: it.SuggestedProficiency.String(),
		CreatedAt:            it.CreatedAt,
		ResolvedAt:           it.ResolvedAt,
		Skill: dto.SkillResponse{
			ID:         it.Skill.ID,
			Name:       it.Skill.Name,
			Discipline: it.Skill.Discipline,
		},
	}
}

func mapIntakeError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", errData("SKILL_NOT_FOUND"), err)
	case errors.Is(err, usecase.ErrSkillInactive):
		return middleware.NewAppError(fiber.StatusConflict, "Skill is inactive", errData("SKILL_INACTIVE"), err)
	case errors.Is(err, usecase.ErrSkillAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", errData("SKILL_ALREADY_EXISTS"), err)
	case errors.Is(err, usecase.ErrInvalidProficiency):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid proficiency level", errData("INVALID_PROFICIENCY"), err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func errData(code string) map[string]string {
	return map[string]string{"code": code}
}

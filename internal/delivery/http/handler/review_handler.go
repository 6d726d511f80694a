package handler

import (
	"errors"

	"skill-pulse/internal/delivery/http/dto"
	"skill-pulse/internal/delivery/http/middleware"
	"skill-pulse/internal/domain/org"
	"skill-pulse/internal/domain/suggestion"
	"skill-pulse/internal/pkg/response"
	"skill-pulse/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ReviewHandler is the reviewer surface: the validation inbox and batch
// resolution of pending suggestions.
type ReviewHandler struct {
	resolution usecase.ResolutionUsecase
	inbox      usecase.InboxUsecase
	validate   *validator.Validate
}

func NewReviewHandler(resolution usecase.ResolutionUsecase, inbox usecase.InboxUsecase, validate *validator.Validate) *ReviewHandler {
	return &ReviewHandler{resolution: resolution, inbox: inbox, validate: validate}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/inbox", h.GetInbox)
	r.Post("/resolutions", h.ResolveBatch)
}

func (h *ReviewHandler) ResolveBatch(c fiber.Ctx) error {
	actorID, actorRole, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.ResolveBatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	decisions := make([]usecase.Decision, 0, len(req.Decisions))
	for _, d := range req.Decisions {
		decisions = append(decisions, usecase.Decision{
			SuggestionID:        d.SuggestionID,
			Action:              suggestion.Action(d.Action),
			AdjustedProficiency: d.AdjustedProficiency,
		})
	}

	report, err := h.resolution.ResolveBatch(c.Context(), actorID, actorRole, decisions)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := dto.ResolveBatchResponse{
		Success:   report.Success,
		Processed: make([]dto.ProcessedDecisionResponse, 0, len(report.Processed)),
		Errors:    make([]dto.DecisionErrorResponse, 0, len(report.Errors)),
	}
	for _, p := range report.Processed {
		res.Processed = append(res.Processed, dto.ProcessedDecisionResponse{
			SuggestionID: p.SuggestionID,
			Action:       string(p.Action),
			EmployeeName: p.EmployeeName,
			SkillName:    p.SkillName,
			Proficiency:  p.Proficiency.String(),
		})
	}
	for _, e := range report.Errors {
		res.Errors = append(res.Errors, dto.DecisionErrorResponse{
			SuggestionID: e.SuggestionID,
			Message:      e.Message,
			Code:         e.Code,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ReviewHandler) GetInbox(c fiber.Ctx) error {
	actorID, actorRole, err := actor(c)
	if err != nil {
		return err
	}

	projects, err := h.inbox.GetInbox(c.Context(), actorID, actorRole)
	if err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", errData("FORBIDDEN"), err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := dto.InboxResponse{Projects: make([]dto.InboxProjectResponse, 0, len(projects))}
	for _, p := range projects {
		proj := dto.InboxProjectResponse{
			ID:           p.ID,
			Name:         p.Name,
			PendingCount: p.PendingCount,
			Employees:    make([]dto.InboxEmployeeResponse, 0, len(p.Employees)),
		}
		for _, e := range p.Employees {
			emp := dto.InboxEmployeeResponse{
				ID:           e.ID,
				Name:         e.Name,
				Email:        e.Email,
				PendingCount: e.PendingCount,
				Suggestions:  make([]dto.InboxSuggestionResponse, 0, len(e.Suggestions)),
			}
			for _, s := range e.Suggestions {
				item := dto.InboxSuggestionResponse{
					ID:                   s.ID,
					SkillName:            s.SkillName,
					Discipline:           s.Discipline,
					SuggestedProficiency: s.SuggestedProficiency.String(),
					Source:               string(s.Source),
					CreatedAt:            s.CreatedAt,
				}
				if s.CurrentProficiency != nil {
					cp := s.CurrentProficiency.String()
					item.CurrentProficiency = &cp
				}
				emp.Suggestions = append(emp.Suggestions, item)
			}
			proj.Employees = append(proj.Employees, emp)
		}
		res.Projects = append(res.Projects, proj)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func actor(c fiber.Ctx) (uuid.UUID, org.Role, error) {
	actorID, ok := c.Locals(middleware.CtxProfileIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	actorRole, ok := c.Locals(middleware.CtxRoleKey).(org.Role)
	if !ok {
		return uuid.Nil, "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return actorID, actorRole, nil
}

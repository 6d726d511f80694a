package dto

import "github.com/google/uuid"

type ResolutionDecisionRequest struct {
	SuggestionID        uuid.UUID `json:"suggestion_id" validate:"required"`
	Action              string    `json:"action" validate:"required"`
	AdjustedProficiency *string   `json:"adjusted_proficiency,omitempty"`
}

type ResolveBatchRequest struct {
	Decisions []ResolutionDecisionRequest `json:"decisions" validate:"required,min=1,dive"`
}

type ProcessedDecisionResponse struct {
	SuggestionID uuid.UUID `json:"suggestion_id"`
	Action       string    `json:"action"`
	EmployeeName string    `json:"employee_name"`
	SkillName    string    `json:"skill_name"`
	Proficiency  string    `json:"proficiency_level"`
}

type DecisionErrorResponse struct {
	SuggestionID uuid.UUID `json:"suggestion_id"`
	Message      string    `json:"message"`
	Code         string    `json:"code"`
}

type ResolveBatchResponse struct {
	Success   bool                        `json:"success"`
	Processed []ProcessedDecisionResponse `json:"processed"`
	Errors    []DecisionErrorResponse     `json:"errors"`
}

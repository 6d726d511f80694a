package dto

import (
	"time"

	"github.com/google/uuid"
)

type SelfReportRequest struct {
	SkillID          uuid.UUID `json:"skill_id" validate:"required"`
	ProficiencyLevel string    `json:"proficiency_level" validate:"required"`
}

type SkillResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Discipline string    `json:"discipline"`
}

type SuggestionResponse struct {
	SuggestionID         uuid.UUID     `json:"suggestion_id"`
	Status               string        `json:"status"`
	Source               string        `json:"source"`
	SuggestedProficiency string        `json:"suggested_proficiency"`
	CreatedAt            time.Time     `json:"created_at"`
	ResolvedAt           *time.Time    `json:"resolved_at,omitempty"`
	Skill                SkillResponse `json:"skill"`
}

type EmployeeSkillResponse struct {
	SkillID         uuid.UUID `json:"skill_id"`
	SkillName       string    `json:"skill_name"`
	Proficiency     string    `json:"proficiency"`
	LastValidatedAt time.Time `json:"last_validated_at"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type InboxSuggestionResponse struct {
	ID                   uuid.UUID `json:"id"`
	SkillName            string    `json:"skill_name"`
	Discipline           string    `json:"discipline"`
	SuggestedProficiency string    `json:"suggested_proficiency"`
	Source               string    `json:"source"`
	CreatedAt            time.Time `json:"created_at"`
	CurrentProficiency   *string   `json:"current_proficiency,omitempty"`
}

type InboxEmployeeResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Name         string                    `json:"name"`
	Email        string                    `json:"email"`
	PendingCount int                       `json:"pending_count"`
	Suggestions  []InboxSuggestionResponse `json:"suggestions"`
}

type InboxProjectResponse struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	PendingCount int                     `json:"pending_count"`
	Employees    []InboxEmployeeResponse `json:"employees"`
}

type InboxResponse struct {
	Projects []InboxProjectResponse `json:"projects"`
}

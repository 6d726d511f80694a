package suggestion

import (
	"time"

	"skill-pulse/internal/domain/skill"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Source string

const (
	SourceSelfReport Source = "SELF_REPORT"
	SourceSystemFlag Source = "SYSTEM_FLAG"
)

// Action is a reviewer decision on a pending suggestion. ADJUST_LEVEL still
// terminates the suggestion as APPROVED; the adjusted level only changes the
// proficiency written to the employee's record.
type Action string

const (
	ActionApprove     Action = "APPROVE"
	ActionAdjustLevel Action = "ADJUST_LEVEL"
	ActionReject      Action = "REJECT"
)

func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionAdjustLevel, ActionReject:
		return true
	}
	return false
}

// Suggestion is a proposed skill/proficiency pending reviewer resolution.
// It is created PENDING, transitions exactly once to APPROVED or REJECTED,
// and is never deleted. ResolvedAt is set at that single transition.
type Suggestion struct {
	ID                   uuid.UUID
	ProfileID            uuid.UUID
	SkillID              uuid.UUID
	SuggestedProficiency skill.Proficiency
	Status               Status
	Source               Source
	CreatedAt            time.Time
	ResolvedAt           *time.Time
}

func (s Suggestion) Terminal() bool {
	return s.Status != StatusPending
}

package usecase

import (
	"context"
	"errors"
	"time"

	"skill-pulse/internal/domain/skill"
	"skill-pulse/internal/domain/suggestion"
	"skill-pulse/internal/repository"
	"skill-pulse/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillInactive      = errors.New("skill inactive")
	ErrSkillAlreadyExists = errors.New("skill already exists")
	ErrInvalidProficiency = errors.New("invalid proficiency level")
)

type SkillInfo struct {
	ID         uuid.UUID
	Name       string
	Discipline string
}

type SuggestionItem struct {
	ID                   uuid.UUID
	Status               suggestion.Status
	Source               suggestion.Source
	SuggestedProficiency skill.Proficiency
	CreatedAt            time.Time
	ResolvedAt           *time.Time
	Skill                SkillInfo
}

type EmployeeSkillItem struct {
	SkillID         uuid.UUID
	SkillName       string
	Proficiency     skill.Proficiency
	LastValidatedAt time.Time
}

type IntakeInput struct {
	SkillID     uuid.UUID
	Proficiency skill.Proficiency
}

type IntakeUsecase interface {
	SubmitSelfReport(ctx context.Context, profileID uuid.UUID, in IntakeInput) (SuggestionItem, error)
	ListOwnSuggestions(ctx context.Context, profileID uuid.UUID) ([]SuggestionItem, error)
	ListOwnSkills(ctx context.Context, profileID uuid.UUID) ([]EmployeeSkillItem, error)
}

type inboxInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type Intake struct {
	skills         repository.SkillRepository
	employeeSkills repository.EmployeeSkillRepository
	suggestions    repository.SuggestionRepository
	cache          inboxInvalidator
	now            func() time.Time
}

func NewIntakeUsecase(
	skills repository.SkillRepository,
	employeeSkills repository.EmployeeSkillRepository,
	suggestions repository.SuggestionRepository,
	cache inboxInvalidator,
) *Intake {
	return &Intake{
		skills:         skills,
		employeeSkills: employeeSkills,
		suggestions:    suggestions,
		cache:          cache,
		now:            time.Now,
	}
}

// SubmitSelfReport files a PENDING self-report suggestion. A self-report for a
// (profile, skill) pair is one-shot: any earlier suggestion for the pair,
// whatever its status, blocks a new one. The periodic scanner is the only
// producer allowed to re-flag a pair after a rejection.
func (u *Intake) SubmitSelfReport(ctx context.Context, profileID uuid.UUID, in IntakeInput) (SuggestionItem, error) {
	if in.SkillID == uuid.Nil {
		return SuggestionItem{}, ErrInvalidInput
	}
	if !in.Proficiency.Valid() {
		return SuggestionItem{}, ErrInvalidProficiency
	}

	sk, err := u.skills.FindByID(ctx, in.SkillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return SuggestionItem{}, ErrSkillNotFound
		}
		return SuggestionItem{}, ErrInternal
	}
	if !sk.Active {
		return SuggestionItem{}, ErrSkillInactive
	}

	hasSkill, err := u.employeeSkills.ExistsForPair(ctx, profileID, in.SkillID)
	if err != nil {
		return SuggestionItem{}, ErrInternal
	}
	if hasSkill {
		return SuggestionItem{}, ErrSkillAlreadyExists
	}

	hasSuggestion, err := u.suggestions.ExistsForPair(ctx, profileID, in.SkillID)
	if err != nil {
		return SuggestionItem{}, ErrInternal
	}
	if hasSuggestion {
		return SuggestionItem{}, ErrSkillAlreadyExists
	}

	created, err := u.suggestions.Create(ctx, repository.Suggestion{
		ID:                   uuid.New(),
		ProfileID:            profileID,
		SkillID:              in.SkillID,
		SuggestedProficiency: in.Proficiency.String(),
		Status:               string(suggestion.StatusPending),
		Source:               string(suggestion.SourceSelfReport),
		CreatedAt:            u.now().UTC(),
	})
	if err != nil {
		return SuggestionItem{}, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, "inbox:*")
	}
	ws.NotifySuggestionCreated(sk.Name, string(suggestion.SourceSelfReport))

	return SuggestionItem{
		ID:                   created.ID,
		Status:               suggestion.Status(created.Status),
		Source:               suggestion.Source(created.Source),
		SuggestedProficiency: skill.Proficiency(created.SuggestedProficiency),
		CreatedAt:            created.CreatedAt,
		Skill:                SkillInfo{ID: sk.ID, Name: sk.Name, Discipline: sk.Discipline},
	}, nil
}

func (u *Intake) ListOwnSuggestions(ctx context.Context, profileID uuid.UUID) ([]SuggestionItem, error) {
	details, err := u.suggestions.ListByProfileID(ctx, profileID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SuggestionItem, 0, len(details))
	for _, d := range details {
		out = append(out, SuggestionItem{
			ID:                   d.ID,
			Status:               suggestion.Status(d.Status),
			Source:               suggestion.Source(d.Source),
			SuggestedProficiency: skill.Proficiency(d.SuggestedProficiency),
			CreatedAt:            d.CreatedAt,
			ResolvedAt:           d.ResolvedAt,
			Skill:                SkillInfo{ID: d.SkillID, Name: d.SkillName, Discipline: d.Discipline},
		})
	}
	return out, nil
}

func (u *Intake) ListOwnSkills(ctx context.Context, profileID uuid.UUID) ([]EmployeeSkillItem, error) {
	records, err := u.employeeSkills.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]EmployeeSkillItem, 0, len(records))
	for _, rec := range records {
		out = append(out, EmployeeSkillItem{
			SkillID:         rec.SkillID,
			SkillName:       rec.SkillName,
			Proficiency:     skill.Proficiency(rec.Proficiency),
			LastValidatedAt: rec.LastValidatedAt,
		})
	}
	return out, nil
}

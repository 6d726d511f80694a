package usecase

import (
	"context"
	"errors"
	"time"

	"skill-pulse/internal/domain/org"
	"skill-pulse/internal/domain/skill"
	"skill-pulse/internal/domain/suggestion"
	"skill-pulse/internal/repository"
	"skill-pulse/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stable machine codes for per-decision failures in the batch report.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyProcessed   = "ALREADY_PROCESSED"
	CodeMissingProficiency = "MISSING_PROFICIENCY"
	CodeInvalidProficiency = "INVALID_PROFICIENCY"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeValidationFailed   = "VALIDATION_FAILED"
)

type Decision struct {
	SuggestionID        uuid.UUID
	Action              suggestion.Action
	AdjustedProficiency *string
}

type ProcessedDecision struct {
	SuggestionID uuid.UUID
	Action       suggestion.Action
	EmployeeName string
	SkillName    string
	Proficiency  skill.Proficiency
}

type DecisionError struct {
	SuggestionID uuid.UUID
	Message      string
	Code         string
}

// BatchReport is the partial-success contract: both slices are always
// non-nil, Success means zero errors. Callers must inspect both.
type BatchReport struct {
	Success   bool
	Processed []ProcessedDecision
	Errors    []DecisionError
}

type ResolutionUsecase interface {
	ResolveBatch(ctx context.Context, actorID uuid.UUID, actorRole org.Role, decisions []Decision) (BatchReport, error)
}

// resolveAuthorizer answers whether the actor may resolve suggestions about
// the subject profile. One entry per role; unlisted roles are denied.
type resolveAuthorizer func(ctx context.Context, actorID, subjectProfileID uuid.UUID) (bool, error)

type Resolution struct {
	suggestions repository.SuggestionRepository
	orgs        repository.OrgRepository
	cache       inboxInvalidator
	logger      *zap.Logger
	authorizers map[org.Role]resolveAuthorizer
	now         func() time.Time
}

func NewResolutionUsecase(
	suggestions repository.SuggestionRepository,
	orgs repository.OrgRepository,
	cache inboxInvalidator,
	logger *zap.Logger,
) *Resolution {
	r := &Resolution{
		suggestions: suggestions,
		orgs:        orgs,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
	r.authorizers = map[org.Role]resolveAuthorizer{
		org.RoleAdmin: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
			return true, nil
		},
		org.RoleTechLead: func(ctx context.Context, actorID, subjectProfileID uuid.UUID) (bool, error) {
			return r.orgs.LeadsProfile(ctx, actorID, subjectProfileID)
		},
	}
	return r
}

// ResolveBatch applies reviewer decisions one at a time. A failing decision
// never aborts the rest of the batch; duplicate suggestion ids within one
// call are honored on first occurrence only and the rest silently skipped.
func (r *Resolution) ResolveBatch(ctx context.Context, actorID uuid.UUID, actorRole org.Role, decisions []Decision) (BatchReport, error) {
	report := BatchReport{
		Processed: make([]ProcessedDecision, 0, len(decisions)),
		Errors:    make([]DecisionError, 0),
	}

	seen := make(map[uuid.UUID]struct{}, len(decisions))
	for _, d := range decisions {
		if _, dup := seen[d.SuggestionID]; dup {
			continue
		}
		seen[d.SuggestionID] = struct{}{}

		item, decErr := r.resolveOne(ctx, actorID, actorRole, d)
		if decErr != nil {
			report.Errors = append(report.Errors, *decErr)
			continue
		}
		report.Processed = append(report.Processed, item)
	}

	report.Success = len(report.Errors) == 0

	if len(report.Processed) > 0 {
		if r.cache != nil {
			_ = r.cache.DeleteByPattern(ctx, "inbox:*")
		}
		ws.NotifyBatchResolved(len(report.Processed), len(report.Errors))
	}
	if r.logger != nil {
		r.logger.Info("resolution batch finished",
			zap.String("actor_id", actorID.String()),
			zap.String("actor_role", string(actorRole)),
			zap.Int("processed", len(report.Processed)),
			zap.Int("errors", len(report.Errors)),
		)
	}

	return report, nil
}

func (r *Resolution) resolveOne(ctx context.Context, actorID uuid.UUID, actorRole org.Role, d Decision) (ProcessedDecision, *DecisionError) {
	fail := func(code, message string) (ProcessedDecision, *DecisionError) {
		return ProcessedDecision{}, &DecisionError{SuggestionID: d.SuggestionID, Message: message, Code: code}
	}

	var adjusted skill.Proficiency
	switch d.Action {
	case suggestion.ActionApprove, suggestion.ActionReject:
	case suggestion.ActionAdjustLevel:
		if d.AdjustedProficiency == nil {
			return fail(CodeMissingProficiency, "adjusted proficiency is required for ADJUST_LEVEL")
		}
		adjusted = skill.Proficiency(*d.AdjustedProficiency)
		if !adjusted.Valid() {
			return fail(CodeInvalidProficiency, "unknown proficiency level: "+*d.AdjustedProficiency)
		}
	default:
		return fail(CodeValidationFailed, "unknown action: "+string(d.Action))
	}

	det, err := r.suggestions.FindByID(ctx, d.SuggestionID)
	if err != nil {
		if errors.Is(err, repository.ErrSuggestionNotFound) {
			return fail(CodeNotFound, "suggestion not found")
		}
		return fail(CodeValidationFailed, "failed to load suggestion")
	}
	if det.Status != string(suggestion.StatusPending) {
		return fail(CodeAlreadyProcessed, "suggestion already resolved")
	}

	authorize, ok := r.authorizers[actorRole]
	if !ok {
		return fail(CodeUnauthorized, "role may not resolve suggestions")
	}
	allowed, err := authorize(ctx, actorID, det.ProfileID)
	if err != nil {
		return fail(CodeValidationFailed, "authorization check failed")
	}
	if !allowed {
		return fail(CodeUnauthorized, "suggestion outside the actor's led projects")
	}

	now := r.now().UTC()
	applied := skill.Proficiency(det.SuggestedProficiency)

	switch d.Action {
	case suggestion.ActionApprove:
		err = r.suggestions.Approve(ctx, d.SuggestionID, applied.String(), actorID, now)
	case suggestion.ActionAdjustLevel:
		applied = adjusted
		err = r.suggestions.Approve(ctx, d.SuggestionID, applied.String(), actorID, now)
	case suggestion.ActionReject:
		err = r.suggestions.Reject(ctx, d.SuggestionID, now)
	}
	if err != nil {
		if errors.Is(err, repository.ErrSuggestionAlreadyResolved) {
			return fail(CodeAlreadyProcessed, "suggestion already resolved")
		}
		return fail(CodeValidationFailed, "failed to apply decision")
	}

	return ProcessedDecision{
		SuggestionID: d.SuggestionID,
		Action:       d.Action,
		EmployeeName: det.EmployeeName,
		SkillName:    det.SkillName,
		Proficiency:  applied,
	}, nil
}

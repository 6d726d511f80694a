package usecase

import (
	"context"
	"testing"

	"skill-pulse/internal/domain/org"
	"skill-pulse/internal/domain/suggestion"
	"skill-pulse/internal/repository"

	"github.com/google/uuid"
)

func pendingDetail(id, profileID uuid.UUID, proficiency string) repository.SuggestionDetail {
	return repository.SuggestionDetail{
		Suggestion: repository.Suggestion{
			ID:                   id,
			ProfileID:            profileID,
			SkillID:              uuid.New(),
			SuggestedProficiency: proficiency,
			Status:               string(suggestion.StatusPending),
			Source:               string(suggestion.SourceSelfReport),
		},
		EmployeeName: "Evan Engineer",
		SkillName:    "Go",
	}
}

func TestResolution_Approve_Admin(t *testing.T) {
	sugID := uuid.New()
	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{
		sugID: pendingDetail(sugID, uuid.New(), "ADVANCED"),
	}}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, &mockCache{}, nil)

	report, err := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionApprove},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !report.Success {
		t.Fatalf("expected success, errors: %v", report.Errors)
	}
	if len(report.Processed) != 1 {
		t.Fatalf("expected 1 processed, got %d", len(report.Processed))
	}
	if report.Processed[0].Proficiency != "ADVANCED" {
		t.Fatalf("expected suggested proficiency applied, got %s", report.Processed[0].Proficiency)
	}
	if len(repo.approved) != 1 || repo.approved[0] != sugID {
		t.Fatalf("expected Approve called with %s", sugID)
	}
}

func TestResolution_AdjustLevel_UsesAdjustedProficiency(t *testing.T) {
	sugID := uuid.New()
	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{
		sugID: pendingDetail(sugID, uuid.New(), "EXPERT"),
	}}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, nil, nil)

	adjusted := "INTERMEDIATE"
	report, err := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionAdjustLevel, AdjustedProficiency: &adjusted},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(report.Processed) != 1 {
		t.Fatalf("expected 1 processed, got %d errors %v", len(report.Processed), report.Errors)
	}
	if report.Processed[0].Proficiency != "INTERMEDIATE" {
		t.Fatalf("expected adjusted level, got %s", report.Processed[0].Proficiency)
	}
	if len(repo.approveProfs) != 1 || repo.approveProfs[0] != "INTERMEDIATE" {
		t.Fatalf("expected adjusted level written, got %v", repo.approveProfs)
	}
}

func TestResolution_AdjustLevel_MissingProficiency(t *testing.T) {
	sugID := uuid.New()
	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{
		sugID: pendingDetail(sugID, uuid.New(), "EXPERT"),
	}}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, nil, nil)

	report, err := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionAdjustLevel},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Success {
		t.Fatalf("expected failure")
	}
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeMissingProficiency {
		t.Fatalf("expected MISSING_PROFICIENCY, got %v", report.Errors)
	}
	if len(repo.approved) != 0 {
		t.Fatalf("expected no mutation")
	}
}

func TestResolution_AdjustLevel_InvalidProficiency(t *testing.T) {
	sugID := uuid.New()
	uc := NewResolutionUsecase(&mockSuggestionRepo{}, mockOrgRepo{}, nil, nil)

	bogus := "GURU"
	report, _ := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionAdjustLevel, AdjustedProficiency: &bogus},
	})
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeInvalidProficiency {
		t.Fatalf("expected INVALID_PROFICIENCY, got %v", report.Errors)
	}
}

func TestResolution_NotFound(t *testing.T) {
	uc := NewResolutionUsecase(&mockSuggestionRepo{}, mockOrgRepo{}, nil, nil)

	report, _ := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: uuid.New(), Action: suggestion.ActionApprove},
	})
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", report.Errors)
	}
}

func TestResolution_AlreadyProcessed(t *testing.T) {
	sugID := uuid.New()
	det := pendingDetail(sugID, uuid.New(), "ADVANCED")
	det.Status = string(suggestion.StatusApproved)
	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{sugID: det}}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, nil, nil)

	report, _ := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionReject},
	})
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeAlreadyProcessed {
		t.Fatalf("expected ALREADY_PROCESSED, got %v", report.Errors)
	}
	if len(repo.rejected) != 0 {
		t.Fatalf("expected no mutation on a resolved suggestion")
	}
}

// A concurrent resolver can win the race between the status read and the
// conditional update; that surfaces as ALREADY_PROCESSED too.
func TestResolution_ConcurrentlyResolved(t *testing.T) {
	sugID := uuid.New()
	repo := &mockSuggestionRepo{
		byID:       map[uuid.UUID]repository.SuggestionDetail{sugID: pendingDetail(sugID, uuid.New(), "ADVANCED")},
		approveErr: repository.ErrSuggestionAlreadyResolved,
	}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, nil, nil)

	report, _ := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionApprove},
	})
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeAlreadyProcessed {
		t.Fatalf("expected ALREADY_PROCESSED, got %v", report.Errors)
	}
}

func TestResolution_TechLeadScope(t *testing.T) {
	leadID := uuid.New()
	ledProfile := uuid.New()
	otherProfile := uuid.New()
	inScope := uuid.New()
	outOfScope := uuid.New()

	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{
		inScope:    pendingDetail(inScope, ledProfile, "ADVANCED"),
		outOfScope: pendingDetail(outOfScope, otherProfile, "ADVANCED"),
	}}
	orgs := mockOrgRepo{leads: map[pair]bool{{leadID, ledProfile}: true}}
	uc := NewResolutionUsecase(repo, orgs, nil, nil)

	report, err := uc.ResolveBatch(context.Background(), leadID, org.RoleTechLead, []Decision{
		{SuggestionID: inScope, Action: suggestion.ActionApprove},
		{SuggestionID: outOfScope, Action: suggestion.ActionApprove},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Success {
		t.Fatalf("expected partial failure")
	}
	if len(report.Processed) != 1 || report.Processed[0].SuggestionID != inScope {
		t.Fatalf("expected only the led profile's suggestion processed")
	}
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", report.Errors)
	}
}

func TestResolution_EmployeeRoleDenied(t *testing.T) {
	sugID := uuid.New()
	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{
		sugID: pendingDetail(sugID, uuid.New(), "ADVANCED"),
	}}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, nil, nil)

	report, _ := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleEmployee, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionApprove},
	})
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED for EMPLOYEE, got %v", report.Errors)
	}
}

// First occurrence of a duplicated suggestion id wins; the rest are silently
// skipped without producing an error entry.
func TestResolution_DuplicateDecisionsFirstWins(t *testing.T) {
	sugID := uuid.New()
	repo := &mockSuggestionRepo{byID: map[uuid.UUID]repository.SuggestionDetail{
		sugID: pendingDetail(sugID, uuid.New(), "ADVANCED"),
	}}
	uc := NewResolutionUsecase(repo, mockOrgRepo{}, nil, nil)

	report, err := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: sugID, Action: suggestion.ActionReject},
		{SuggestionID: sugID, Action: suggestion.ActionApprove},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !report.Success {
		t.Fatalf("expected success, got errors %v", report.Errors)
	}
	if len(report.Processed) != 1 || report.Processed[0].Action != suggestion.ActionReject {
		t.Fatalf("expected only the first decision applied, got %+v", report.Processed)
	}
	if len(repo.rejected) != 1 || len(repo.approved) != 0 {
		t.Fatalf("expected one reject and no approve")
	}
}

func TestResolution_UnknownAction(t *testing.T) {
	uc := NewResolutionUsecase(&mockSuggestionRepo{}, mockOrgRepo{}, nil, nil)

	report, _ := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: uuid.New(), Action: suggestion.Action("ESCALATE")},
	})
	if len(report.Errors) != 1 || report.Errors[0].Code != CodeValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %v", report.Errors)
	}
}

func TestResolution_InvalidatesInboxCacheOnlyWhenProcessed(t *testing.T) {
	cache := &mockCache{}
	uc := NewResolutionUsecase(&mockSuggestionRepo{}, mockOrgRepo{}, cache, nil)

	_, err := uc.ResolveBatch(context.Background(), uuid.New(), org.RoleAdmin, []Decision{
		{SuggestionID: uuid.New(), Action: suggestion.ActionApprove},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cache.deletedPatterns) != 0 {
		t.Fatalf("expected no cache invalidation for an all-failed batch")
	}
}

package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-pulse/internal/repository"

	"github.com/google/uuid"
)

type pairKey struct {
	profileID uuid.UUID
	skillID   uuid.UUID
}

type fakeOrgRepo struct {
	profiles []repository.AssignedProfile
	err      error
}

func (f fakeOrgRepo) FindProfileByEmail(context.Context, string) (repository.Profile, error) {
	return repository.Profile{}, repository.ErrProfileNotFound
}
func (f fakeOrgRepo) FindProfileByID(context.Context, uuid.UUID) (repository.Profile, error) {
	return repository.Profile{}, repository.ErrProfileNotFound
}
func (f fakeOrgRepo) ListAssignedProfiles(context.Context) ([]repository.AssignedProfile, error) {
	return f.profiles, f.err
}
func (f fakeOrgRepo) LeadsProfile(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}
func (f fakeOrgRepo) ListProjects(context.Context) ([]repository.Project, error) { return nil, nil }
func (f fakeOrgRepo) ListProjectsByLead(context.Context, uuid.UUID) ([]repository.Project, error) {
	return nil, nil
}
func (f fakeOrgRepo) ListMembersByProjectIDs(context.Context, []uuid.UUID) ([]repository.ProjectMember, error) {
	return nil, nil
}

type fakeEmployeeSkillRepo struct {
	byProfile map[uuid.UUID][]repository.EmployeeSkill
	failFor   map[uuid.UUID]error
}

func (f fakeEmployeeSkillRepo) FindByProfileID(_ context.Context, profileID uuid.UUID) ([]repository.EmployeeSkill, error) {
	if err, ok := f.failFor[profileID]; ok {
		return nil, err
	}
	return f.byProfile[profileID], nil
}
func (f fakeEmployeeSkillRepo) FindByProfileAndSkill(context.Context, uuid.UUID, uuid.UUID) (repository.EmployeeSkill, error) {
	return repository.EmployeeSkill{}, repository.ErrEmployeeSkillNotFound
}
func (f fakeEmployeeSkillRepo) ExistsForPair(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}
func (f fakeEmployeeSkillRepo) MapByProfileIDs(context.Context, []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]string, error) {
	return nil, nil
}

type fakeSuggestionRepo struct {
	pending   map[pairKey]bool
	created   []repository.Suggestion
	createErr map[pairKey]error
}

func (f *fakeSuggestionRepo) Create(_ context.Context, s repository.Suggestion) (repository.Suggestion, error) {
	if err, ok := f.createErr[pairKey{s.ProfileID, s.SkillID}]; ok {
		return repository.Suggestion{}, err
	}
	f.created = append(f.created, s)
	return s, nil
}
func (f *fakeSuggestionRepo) FindByID(context.Context, uuid.UUID) (repository.SuggestionDetail, error) {
	return repository.SuggestionDetail{}, repository.ErrSuggestionNotFound
}
func (f *fakeSuggestionRepo) ExistsForPair(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeSuggestionRepo) PendingExistsForPair(_ context.Context, profileID, skillID uuid.UUID) (bool, error) {
	return f.pending[pairKey{profileID, skillID}], nil
}
func (f *fakeSuggestionRepo) ListByProfileID(context.Context, uuid.UUID) ([]repository.SuggestionDetail, error) {
	return nil, nil
}
func (f *fakeSuggestionRepo) ListPendingByProfileIDs(context.Context, []uuid.UUID) ([]repository.SuggestionDetail, error) {
	return nil, nil
}
func (f *fakeSuggestionRepo) Approve(context.Context, uuid.UUID, string, uuid.UUID, time.Time) error {
	return nil
}
func (f *fakeSuggestionRepo) Reject(context.Context, uuid.UUID, time.Time) error { return nil }

type fakeCache struct {
	locked   bool
	patterns []string
}

func (f *fakeCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return !f.locked, nil
}
func (f *fakeCache) Delete(context.Context, string) error { return nil }
func (f *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func record(profileID uuid.UUID, name string, active bool, age time.Duration, now time.Time) repository.EmployeeSkill {
	return repository.EmployeeSkill{
		ID:              uuid.New(),
		ProfileID:       profileID,
		SkillID:         uuid.New(),
		SkillName:       name,
		SkillActive:     active,
		Proficiency:     "ADVANCED",
		LastValidatedAt: now.Add(-age),
	}
}

const day = 24 * time.Hour

func newTestScanner(orgs fakeOrgRepo, skills fakeEmployeeSkillRepo, sugs *fakeSuggestionRepo, cache Cache) *Scanner {
	return NewScanner(orgs, skills, sugs, cache, nil, 365*day, time.Hour)
}

func TestScanner_FlagsOnlyStaleCoreStackSkills(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()

	stale := record(profileID, "Go", true, 400*day, now)
	fresh := record(profileID, "PostgreSQL", true, 100*day, now)
	notCore := record(profileID, "Kubernetes", true, 400*day, now)

	sugs := &fakeSuggestionRepo{}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"Go", "PostgreSQL"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{
			profileID: {stale, fresh, notCore},
		}},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.CoreStackSkills != 2 {
		t.Fatalf("expected 2 core stack skills, got %d", rep.CoreStackSkills)
	}
	if rep.StaleSkills != 1 || rep.SuggestionsCreated != 1 {
		t.Fatalf("expected 1 stale flagged, got stale=%d created=%d", rep.StaleSkills, rep.SuggestionsCreated)
	}
	if len(sugs.created) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(sugs.created))
	}
	created := sugs.created[0]
	if created.SkillID != stale.SkillID {
		t.Fatalf("flagged the wrong skill")
	}
	if created.Source != "SYSTEM_FLAG" || created.Status != "PENDING" {
		t.Fatalf("unexpected suggestion %+v", created)
	}
	if created.SuggestedProficiency != "ADVANCED" {
		t.Fatalf("expected current proficiency carried over, got %s", created.SuggestedProficiency)
	}
}

// Staleness is strictly older-than: a skill validated exactly at the
// threshold is not flagged yet.
func TestScanner_StalenessBoundary(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()

	justUnder := record(profileID, "Go", true, 364*day, now)
	justOver := record(profileID, "PostgreSQL", true, 366*day, now)

	sugs := &fakeSuggestionRepo{}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"Go", "PostgreSQL"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{
			profileID: {justUnder, justOver},
		}},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.StaleSkills != 1 {
		t.Fatalf("expected only the 366-day skill stale, got %d", rep.StaleSkills)
	}
	if len(sugs.created) != 1 || sugs.created[0].SkillID != justOver.SkillID {
		t.Fatalf("flagged the wrong skill")
	}
}

// Tag matching is case-sensitive: a "react" tag does not cover the "React"
// skill.
func TestScanner_TagMatchIsCaseSensitive(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()

	sugs := &fakeSuggestionRepo{}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"react"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{
			profileID: {record(profileID, "React", true, 400*day, now)},
		}},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.CoreStackSkills != 0 || len(sugs.created) != 0 {
		t.Fatalf("expected no core stack match, got core=%d created=%d", rep.CoreStackSkills, len(sugs.created))
	}
}

func TestScanner_SkipsInactiveSkills(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()

	sugs := &fakeSuggestionRepo{}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"AngularJS"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{
			profileID: {record(profileID, "AngularJS", false, 400*day, now)},
		}},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.ExcludedInactive != 1 || len(sugs.created) != 0 {
		t.Fatalf("expected inactive exclusion, got excluded=%d created=%d", rep.ExcludedInactive, len(sugs.created))
	}
}

func TestScanner_SkipsExistingPendingSuggestion(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()
	rec := record(profileID, "Go", true, 400*day, now)

	sugs := &fakeSuggestionRepo{pending: map[pairKey]bool{{profileID, rec.SkillID}: true}}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"Go"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{profileID: {rec}}},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.SkippedExisting != 1 || rep.SuggestionsCreated != 0 {
		t.Fatalf("expected pending skip, got skipped=%d created=%d", rep.SkippedExisting, rep.SuggestionsCreated)
	}
}

// One failing candidate must not abort the rest of the run.
func TestScanner_ItemFailureIsIsolated(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()
	bad := record(profileID, "Go", true, 400*day, now)
	good := record(profileID, "PostgreSQL", true, 400*day, now)

	sugs := &fakeSuggestionRepo{createErr: map[pairKey]error{
		{profileID, bad.SkillID}: errors.New("insert failed"),
	}}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"Go", "PostgreSQL"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{profileID: {bad, good}}},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].SkillID != bad.SkillID {
		t.Fatalf("expected 1 isolated failure, got %+v", rep.Failures)
	}
	if rep.SuggestionsCreated != 1 || sugs.created[0].SkillID != good.SkillID {
		t.Fatalf("expected the healthy candidate still flagged")
	}
}

func TestScanner_ProfileFailureIsIsolated(t *testing.T) {
	now := time.Now().UTC()
	badProfile := uuid.New()
	goodProfile := uuid.New()
	rec := record(goodProfile, "Go", true, 400*day, now)

	sugs := &fakeSuggestionRepo{}
	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{
			{ProfileID: badProfile, Tags: []string{"Go"}},
			{ProfileID: goodProfile, Tags: []string{"Go"}},
		}},
		fakeEmployeeSkillRepo{
			byProfile: map[uuid.UUID][]repository.EmployeeSkill{goodProfile: {rec}},
			failFor:   map[uuid.UUID]error{badProfile: errors.New("query failed")},
		},
		sugs,
		nil,
	)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.EmployeesProcessed != 2 {
		t.Fatalf("expected both profiles visited, got %d", rep.EmployeesProcessed)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].ProfileID != badProfile {
		t.Fatalf("expected the bad profile recorded, got %+v", rep.Failures)
	}
	if rep.SuggestionsCreated != 1 {
		t.Fatalf("expected the good profile still flagged")
	}
}

func TestScanner_LockHeldSkipsRun(t *testing.T) {
	s := newTestScanner(fakeOrgRepo{}, fakeEmployeeSkillRepo{}, &fakeSuggestionRepo{}, &fakeCache{locked: true})

	_, err := s.Run(context.Background())
	if !errors.Is(err, ErrScanInProgress) {
		t.Fatalf("expected ErrScanInProgress, got %v", err)
	}
}

func TestScanner_InvalidatesInboxCacheAfterCreating(t *testing.T) {
	now := time.Now().UTC()
	profileID := uuid.New()
	cache := &fakeCache{}

	s := newTestScanner(
		fakeOrgRepo{profiles: []repository.AssignedProfile{{ProfileID: profileID, Tags: []string{"Go"}}}},
		fakeEmployeeSkillRepo{byProfile: map[uuid.UUID][]repository.EmployeeSkill{
			profileID: {record(profileID, "Go", true, 400*day, now)},
		}},
		&fakeSuggestionRepo{},
		cache,
	)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cache.patterns) != 1 || cache.patterns[0] != "inbox:*" {
		t.Fatalf("expected inbox invalidation, got %v", cache.patterns)
	}
}

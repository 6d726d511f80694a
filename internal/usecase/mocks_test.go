package usecase

import (
	"context"
	"time"

	"skill-pulse/internal/repository"

	"github.com/google/uuid"
)

type pair struct {
	profileID uuid.UUID
	skillID   uuid.UUID
}

type mockSkillRepo struct {
	skills map[uuid.UUID]repository.Skill
	err    error
}

func (m mockSkillRepo) FindByID(_ context.Context, id uuid.UUID) (repository.Skill, error) {
	if m.err != nil {
		return repository.Skill{}, m.err
	}
	s, ok := m.skills[id]
	if !ok {
		return repository.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (m mockSkillRepo) ListActive(context.Context) ([]repository.Skill, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]repository.Skill, 0)
	for _, s := range m.skills {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockEmployeeSkillRepo struct {
	records      []repository.EmployeeSkill
	existing     map[pair]bool
	byProfileMap map[uuid.UUID]map[uuid.UUID]string
	err          error
}

func (m mockEmployeeSkillRepo) FindByProfileID(_ context.Context, profileID uuid.UUID) ([]repository.EmployeeSkill, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]repository.EmployeeSkill, 0)
	for _, r := range m.records {
		if r.ProfileID == profileID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m mockEmployeeSkillRepo) FindByProfileAndSkill(_ context.Context, profileID, skillID uuid.UUID) (repository.EmployeeSkill, error) {
	for _, r := range m.records {
		if r.ProfileID == profileID && r.SkillID == skillID {
			return r, nil
		}
	}
	return repository.EmployeeSkill{}, repository.ErrEmployeeSkillNotFound
}

func (m mockEmployeeSkillRepo) ExistsForPair(_ context.Context, profileID, skillID uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[pair{profileID, skillID}], nil
}

func (m mockEmployeeSkillRepo) MapByProfileIDs(context.Context, []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.byProfileMap == nil {
		return map[uuid.UUID]map[uuid.UUID]string{}, nil
	}
	return m.byProfileMap, nil
}

type mockSuggestionRepo struct {
	byID     map[uuid.UUID]repository.SuggestionDetail
	existing map[pair]bool
	pending  map[pair]bool
	listed   []repository.SuggestionDetail

	created      []repository.Suggestion
	approved     []uuid.UUID
	rejected     []uuid.UUID
	approveProfs []string

	createErr  error
	findErr    error
	approveErr error
	rejectErr  error
}

func (m *mockSuggestionRepo) Create(_ context.Context, s repository.Suggestion) (repository.Suggestion, error) {
	if m.createErr != nil {
		return repository.Suggestion{}, m.createErr
	}
	m.created = append(m.created, s)
	return s, nil
}

func (m *mockSuggestionRepo) FindByID(_ context.Context, id uuid.UUID) (repository.SuggestionDetail, error) {
	if m.findErr != nil {
		return repository.SuggestionDetail{}, m.findErr
	}
	d, ok := m.byID[id]
	if !ok {
		return repository.SuggestionDetail{}, repository.ErrSuggestionNotFound
	}
	return d, nil
}

func (m *mockSuggestionRepo) ExistsForPair(_ context.Context, profileID, skillID uuid.UUID) (bool, error) {
	return m.existing[pair{profileID, skillID}], nil
}

func (m *mockSuggestionRepo) PendingExistsForPair(_ context.Context, profileID, skillID uuid.UUID) (bool, error) {
	return m.pending[pair{profileID, skillID}], nil
}

func (m *mockSuggestionRepo) ListByProfileID(context.Context, uuid.UUID) ([]repository.SuggestionDetail, error) {
	return m.listed, nil
}

func (m *mockSuggestionRepo) ListPendingByProfileIDs(context.Context, []uuid.UUID) ([]repository.SuggestionDetail, error) {
	return m.listed, nil
}

func (m *mockSuggestionRepo) Approve(_ context.Context, id uuid.UUID, proficiency string, _ uuid.UUID, _ time.Time) error {
	if m.approveErr != nil {
		return m.approveErr
	}
	m.approved = append(m.approved, id)
	m.approveProfs = append(m.approveProfs, proficiency)
	return nil
}

func (m *mockSuggestionRepo) Reject(_ context.Context, id uuid.UUID, _ time.Time) error {
	if m.rejectErr != nil {
		return m.rejectErr
	}
	m.rejected = append(m.rejected, id)
	return nil
}

type mockOrgRepo struct {
	profiles map[uuid.UUID]repository.Profile
	byEmail  map[string]repository.Profile
	leads    map[pair]bool
	leadsErr error
	projects []repository.Project
	members  []repository.ProjectMember
}

func (m mockOrgRepo) FindProfileByEmail(_ context.Context, email string) (repository.Profile, error) {
	p, ok := m.byEmail[email]
	if !ok {
		return repository.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m mockOrgRepo) FindProfileByID(_ context.Context, id uuid.UUID) (repository.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return repository.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m mockOrgRepo) ListAssignedProfiles(context.Context) ([]repository.AssignedProfile, error) {
	return nil, nil
}

func (m mockOrgRepo) LeadsProfile(_ context.Context, leadID, profileID uuid.UUID) (bool, error) {
	if m.leadsErr != nil {
		return false, m.leadsErr
	}
	return m.leads[pair{leadID, profileID}], nil
}

func (m mockOrgRepo) ListProjects(context.Context) ([]repository.Project, error) {
	return m.projects, nil
}

func (m mockOrgRepo) ListProjectsByLead(_ context.Context, leadID uuid.UUID) ([]repository.Project, error) {
	out := make([]repository.Project, 0)
	for _, p := range m.projects {
		if p.TechLeadID == leadID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m mockOrgRepo) ListMembersByProjectIDs(context.Context, []uuid.UUID) ([]repository.ProjectMember, error) {
	return m.members, nil
}

type mockCache struct {
	deletedPatterns []string
	stored          map[string][]byte
}

func (m *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	return nil
}

func (m *mockCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, _ any, _ time.Duration) error {
	if m.stored == nil {
		m.stored = map[string][]byte{}
	}
	m.stored[key] = []byte("set")
	return nil
}

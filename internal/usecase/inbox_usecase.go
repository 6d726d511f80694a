package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"skill-pulse/internal/domain/org"
	"skill-pulse/internal/domain/skill"
	"skill-pulse/internal/domain/suggestion"
	"skill-pulse/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrForbidden = errors.New("forbidden")

type InboxSuggestion struct {
	ID                   uuid.UUID
	SkillName            string
	Discipline           string
	SuggestedProficiency skill.Proficiency
	Source               suggestion.Source
	CreatedAt            time.Time
	CurrentProficiency   *skill.Proficiency
}

type InboxEmployee struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PendingCount int
	Suggestions  []InboxSuggestion
}

type InboxProject struct {
	ID           uuid.UUID
	Name         string
	PendingCount int
	Employees    []InboxEmployee
}

type InboxUsecase interface {
	GetInbox(ctx context.Context, actorID uuid.UUID, actorRole org.Role) ([]InboxProject, error)
}

type inboxCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Inbox is a pure read-side projection over projects, assignments, pending
// suggestions and existing employee skills. It never mutates anything.
type Inbox struct {
	orgs           repository.OrgRepository
	suggestions    repository.SuggestionRepository
	employeeSkills repository.EmployeeSkillRepository
	cache          inboxCache
	cacheTTL       time.Duration
}

func NewInboxUsecase(
	orgs repository.OrgRepository,
	suggestions repository.SuggestionRepository,
	employeeSkills repository.EmployeeSkillRepository,
	cache inboxCache,
) *Inbox {
	return &Inbox{
		orgs:           orgs,
		suggestions:    suggestions,
		employeeSkills: employeeSkills,
		cache:          cache,
		cacheTTL:       30 * time.Second,
	}
}

func (u *Inbox) GetInbox(ctx context.Context, actorID uuid.UUID, actorRole org.Role) ([]InboxProject, error) {
	if actorRole != org.RoleAdmin && actorRole != org.RoleTechLead {
		return nil, ErrForbidden
	}

	cacheKey := fmt.Sprintf("inbox:%s:%s", actorRole, actorID)
	if u.cache != nil {
		var cached []InboxProject
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	var projects []repository.Project
	var err error
	if actorRole == org.RoleAdmin {
		projects, err = u.orgs.ListProjects(ctx)
	} else {
		projects, err = u.orgs.ListProjectsByLead(ctx, actorID)
	}
	if err != nil {
		return nil, ErrInternal
	}

	projectIDs := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	members, err := u.orgs.ListMembersByProjectIDs(ctx, projectIDs)
	if err != nil {
		return nil, ErrInternal
	}

	profileSet := make(map[uuid.UUID]struct{})
	profileIDs := make([]uuid.UUID, 0)
	for _, m := range members {
		if _, ok := profileSet[m.ProfileID]; !ok {
			profileSet[m.ProfileID] = struct{}{}
			profileIDs = append(profileIDs, m.ProfileID)
		}
	}

	pending, err := u.suggestions.ListPendingByProfileIDs(ctx, profileIDs)
	if err != nil {
		return nil, ErrInternal
	}
	pendingByProfile := make(map[uuid.UUID][]repository.SuggestionDetail)
	for _, p := range pending {
		pendingByProfile[p.ProfileID] = append(pendingByProfile[p.ProfileID], p)
	}

	currentByProfile, err := u.employeeSkills.MapByProfileIDs(ctx, profileIDs)
	if err != nil {
		return nil, ErrInternal
	}

	membersByProject := make(map[uuid.UUID][]repository.ProjectMember)
	for _, m := range members {
		membersByProject[m.ProjectID] = append(membersByProject[m.ProjectID], m)
	}

	out := make([]InboxProject, 0, len(projects))
	for _, p := range projects {
		proj := InboxProject{ID: p.ID, Name: p.Name, Employees: make([]InboxEmployee, 0)}

		for _, m := range membersByProject[p.ID] {
			details := pendingByProfile[m.ProfileID]
			if len(details) == 0 {
				continue
			}

			emp := InboxEmployee{
				ID:          m.ProfileID,
				Name:        m.ProfileName,
				Email:       m.ProfileEmail,
				Suggestions: make([]InboxSuggestion, 0, len(details)),
			}
			for _, d := range details {
				item := InboxSuggestion{
					ID:                   d.ID,
					SkillName:            d.SkillName,
					Discipline:           d.Discipline,
					SuggestedProficiency: skill.Proficiency(d.SuggestedProficiency),
					Source:               suggestion.Source(d.Source),
					CreatedAt:            d.CreatedAt,
				}
				if current, ok := currentByProfile[m.ProfileID][d.SkillID]; ok {
					cp := skill.Proficiency(current)
					item.CurrentProficiency = &cp
				}
				emp.Suggestions = append(emp.Suggestions, item)
			}
			emp.PendingCount = len(emp.Suggestions)
			proj.PendingCount += emp.PendingCount
			proj.Employees = append(proj.Employees, emp)
		}

		// Projects without any pending work are dropped from the view.
		if len(proj.Employees) == 0 {
			continue
		}
		out = append(out, proj)
	}

	sortInbox(out)

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, out, u.cacheTTL)
	}
	return out, nil
}

func sortInbox(projects []InboxProject) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(projects, func(i, j int) bool {
		return col.CompareString(projects[i].Name, projects[j].Name) < 0
	})
	for i := range projects {
		emps := projects[i].Employees
		sort.SliceStable(emps, func(a, b int) bool {
			return col.CompareString(emps[a].Name, emps[b].Name) < 0
		})
	}
}

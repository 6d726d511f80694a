package repository

import (
	"context"
	"errors"

	"skill-pulse/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

type Project struct {
	ID         uuid.UUID
	Name       string
	TechLeadID uuid.UUID
}

// AssignedProfile is a profile with the union of tags across all of its
// assignments. Tags keep their original casing.
type AssignedProfile struct {
	ProfileID uuid.UUID
	Tags      []string
}

// ProjectMember is one (project, profile) edge produced by an assignment,
// deduplicated per project.
type ProjectMember struct {
	ProjectID    uuid.UUID
	ProfileID    uuid.UUID
	ProfileName  string
	ProfileEmail string
}

type OrgRepository interface {
	FindProfileByEmail(ctx context.Context, email string) (Profile, error)
	FindProfileByID(ctx context.Context, id uuid.UUID) (Profile, error)
	ListAssignedProfiles(ctx context.Context) ([]AssignedProfile, error)
	LeadsProfile(ctx context.Context, leadID, profileID uuid.UUID) (bool, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListProjectsByLead(ctx context.Context, leadID uuid.UUID) ([]Project, error)
	ListMembersByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]ProjectMember, error)
}

type PostgresOrgRepository struct {
	db database.DB
}

func NewPostgresOrgRepository(db database.DB) *PostgresOrgRepository {
	return &PostgresOrgRepository{db: db}
}

func (r *PostgresOrgRepository) FindProfileByEmail(ctx context.Context, email string) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, role, password_hash FROM profiles WHERE email = $1`,
		email,
	)
	return scanProfile(row)
}

func (r *PostgresOrgRepository) FindProfileByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, role, password_hash FROM profiles WHERE id = $1`,
		id,
	)
	return scanProfile(row)
}

func scanProfile(row database.Row) (Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresOrgRepository) ListAssignedProfiles(ctx context.Context) ([]AssignedProfile, error) {
	rows, err := r.db.Query(ctx, `SELECT profile_id, tags FROM assignments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagsByProfile := make(map[uuid.UUID]map[string]struct{})
	order := make([]uuid.UUID, 0)
	for rows.Next() {
		var profileID uuid.UUID
		var tags []string
		if err := rows.Scan(&profileID, &tags); err != nil {
			return nil, err
		}
		set, ok := tagsByProfile[profileID]
		if !ok {
			set = make(map[string]struct{})
			tagsByProfile[profileID] = set
			order = append(order, profileID)
		}
		for _, t := range tags {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]AssignedProfile, 0, len(order))
	for _, id := range order {
		tags := make([]string, 0, len(tagsByProfile[id]))
		for t := range tagsByProfile[id] {
			tags = append(tags, t)
		}
		out = append(out, AssignedProfile{ProfileID: id, Tags: tags})
	}
	return out, nil
}

func (r *PostgresOrgRepository) LeadsProfile(ctx context.Context, leadID, profileID uuid.UUID) (bool, error) {
	var leads bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1
			FROM assignments a
			JOIN projects p ON p.id = a.project_id
			WHERE p.tech_lead_id = $1 AND a.profile_id = $2
		)`,
		leadID, profileID,
	)
	if err := row.Scan(&leads); err != nil {
		return false, err
	}
	return leads, nil
}

func (r *PostgresOrgRepository) ListProjects(ctx context.Context) ([]Project, error) {
	return r.listProjects(ctx, `SELECT id, name, tech_lead_id FROM projects`)
}

func (r *PostgresOrgRepository) ListProjectsByLead(ctx context.Context, leadID uuid.UUID) ([]Project, error) {
	return r.listProjects(ctx, `SELECT id, name, tech_lead_id FROM projects WHERE tech_lead_id = $1`, leadID)
}

func (r *PostgresOrgRepository) listProjects(ctx context.Context, query string, args ...any) ([]Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.TechLeadID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOrgRepository) ListMembersByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]ProjectMember, error) {
	if len(projectIDs) == 0 {
		return []ProjectMember{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT a.project_id, a.profile_id, p.name, p.email
		 FROM assignments a
		 JOIN profiles p ON p.id = a.profile_id
		 WHERE a.project_id = ANY($1)`,
		projectIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectMember, 0)
	for rows.Next() {
		var m ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.ProfileID, &m.ProfileName, &m.ProfileEmail); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

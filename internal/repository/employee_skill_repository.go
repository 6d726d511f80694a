package repository

import (
	"context"
	"errors"
	"time"

	"skill-pulse/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrEmployeeSkillNotFound = errors.New("employee skill not found")

type EmployeeSkill struct {
	ID              uuid.UUID
	ProfileID       uuid.UUID
	SkillID         uuid.UUID
	SkillName       string
	SkillActive     bool
	Proficiency     string
	LastValidatedAt time.Time
	LastValidatedBy *uuid.UUID
}

type EmployeeSkillRepository interface {
	FindByProfileID(ctx context.Context, profileID uuid.UUID) ([]EmployeeSkill, error)
	FindByProfileAndSkill(ctx context.Context, profileID, skillID uuid.UUID) (EmployeeSkill, error)
	ExistsForPair(ctx context.Context, profileID, skillID uuid.UUID) (bool, error)
	MapByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]string, error)
}

type PostgresEmployeeSkillRepository struct {
	db database.DB
}

func NewPostgresEmployeeSkillRepository(db database.DB) *PostgresEmployeeSkillRepository {
	return &PostgresEmployeeSkillRepository{db: db}
}

func (r *PostgresEmployeeSkillRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) ([]EmployeeSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT es.id, es.profile_id, es.skill_id, s.name, s.active, es.proficiency, es.last_validated_at, es.last_validated_by
		 FROM employee_skills es
		 JOIN skills s ON s.id = es.skill_id
		 WHERE es.profile_id = $1
		 ORDER BY s.name ASC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]EmployeeSkill, 0)
	for rows.Next() {
		var es EmployeeSkill
		if err := rows.Scan(&es.ID, &es.ProfileID, &es.SkillID, &es.SkillName, &es.SkillActive, &es.Proficiency, &es.LastValidatedAt, &es.LastValidatedBy); err != nil {
			return nil, err
		}
		out = append(out, es)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEmployeeSkillRepository) FindByProfileAndSkill(ctx context.Context, profileID, skillID uuid.UUID) (EmployeeSkill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT es.id, es.profile_id, es.skill_id, s.name, s.active, es.proficiency, es.last_validated_at, es.last_validated_by
		 FROM employee_skills es
		 JOIN skills s ON s.id = es.skill_id
		 WHERE es.profile_id = $1 AND es.skill_id = $2`,
		profileID, skillID,
	)

	var es EmployeeSkill
	if err := row.Scan(&es.ID, &es.ProfileID, &es.SkillID, &es.SkillName, &es.SkillActive, &es.Proficiency, &es.LastValidatedAt, &es.LastValidatedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EmployeeSkill{}, ErrEmployeeSkillNotFound
		}
		return EmployeeSkill{}, err
	}
	return es, nil
}

func (r *PostgresEmployeeSkillRepository) ExistsForPair(ctx context.Context, profileID, skillID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employee_skills WHERE profile_id = $1 AND skill_id = $2)`,
		profileID, skillID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MapByProfileIDs returns proficiency keyed by profile then skill, used by the
// inbox to attach the current level to each pending suggestion.
func (r *PostgresEmployeeSkillRepository) MapByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]map[uuid.UUID]string)
	if len(profileIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT profile_id, skill_id, proficiency FROM employee_skills WHERE profile_id = ANY($1)`,
		profileIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var profileID, skillID uuid.UUID
		var prof string
		if err := rows.Scan(&profileID, &skillID, &prof); err != nil {
			return nil, err
		}
		m, ok := out[profileID]
		if !ok {
			m = make(map[uuid.UUID]string)
			out[profileID] = m
		}
		m[skillID] = prof
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

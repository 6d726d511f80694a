package repository

import (
	"context"
	"errors"

	"skill-pulse/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type Skill struct {
	ID         uuid.UUID
	Name       string
	Discipline string
	Active     bool
}

type SkillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Skill, error)
	ListActive(ctx context.Context) ([]Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(discipline, ''), active FROM skills WHERE id = $1`,
		id,
	)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Discipline, &s.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) ListActive(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(discipline, ''), active
		 FROM skills
		 WHERE active
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Discipline, &s.Active); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

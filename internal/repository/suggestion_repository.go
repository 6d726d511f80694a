package repository

import (
	"context"
	"errors"
	"time"

	"skill-pulse/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	// ErrSuggestionAlreadyResolved is returned when the conditional
	// PENDING->terminal transition affects zero rows, including the case
	// where a concurrent resolver won the race after our existence check.
	ErrSuggestionAlreadyResolved = errors.New("suggestion already resolved")
)

type Suggestion struct {
	ID                   uuid.UUID
	ProfileID            uuid.UUID
	SkillID              uuid.UUID
	SuggestedProficiency string
	Status               string
	Source               string
	CreatedAt            time.Time
	ResolvedAt           *time.Time
}

type SuggestionDetail struct {
	Suggestion
	EmployeeName  string
	EmployeeEmail string
	SkillName     string
	Discipline    string
}

type SuggestionRepository interface {
	Create(ctx context.Context, s Suggestion) (Suggestion, error)
	FindByID(ctx context.Context, id uuid.UUID) (SuggestionDetail, error)
	ExistsForPair(ctx context.Context, profileID, skillID uuid.UUID) (bool, error)
	PendingExistsForPair(ctx context.Context, profileID, skillID uuid.UUID) (bool, error)
	ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]SuggestionDetail, error)
	ListPendingByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) ([]SuggestionDetail, error)
	Approve(ctx context.Context, id uuid.UUID, proficiency string, actorID uuid.UUID, now time.Time) error
	Reject(ctx context.Context, id uuid.UUID, now time.Time) error
}

type PostgresSuggestionRepository struct {
	db database.DB
}

func NewPostgresSuggestionRepository(db database.DB) *PostgresSuggestionRepository {
	return &PostgresSuggestionRepository{db: db}
}

const suggestionDetailSelect = `
	SELECT sg.id, sg.profile_id, sg.skill_id, sg.suggested_proficiency, sg.status, sg.source, sg.created_at, sg.resolved_at,
	       p.name, p.email, s.name, COALESCE(s.discipline, '')
	FROM suggestions sg
	JOIN profiles p ON p.id = sg.profile_id
	JOIN skills s ON s.id = sg.skill_id`

func scanSuggestionDetail(row database.Row) (SuggestionDetail, error) {
	var d SuggestionDetail
	err := row.Scan(
		&d.ID, &d.ProfileID, &d.SkillID, &d.SuggestedProficiency, &d.Status, &d.Source, &d.CreatedAt, &d.ResolvedAt,
		&d.EmployeeName, &d.EmployeeEmail, &d.SkillName, &d.Discipline,
	)
	return d, err
}

func (r *PostgresSuggestionRepository) Create(ctx context.Context, s Suggestion) (Suggestion, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO suggestions (id, profile_id, skill_id, suggested_proficiency, status, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.ProfileID, s.SkillID, s.SuggestedProficiency, s.Status, s.Source, s.CreatedAt,
	)
	if err != nil {
		return Suggestion{}, err
	}
	return s, nil
}

func (r *PostgresSuggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (SuggestionDetail, error) {
	row := r.db.QueryRow(ctx, suggestionDetailSelect+` WHERE sg.id = $1`, id)
	d, err := scanSuggestionDetail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SuggestionDetail{}, ErrSuggestionNotFound
		}
		return SuggestionDetail{}, err
	}
	return d, nil
}

func (r *PostgresSuggestionRepository) ExistsForPair(ctx context.Context, profileID, skillID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM suggestions WHERE profile_id = $1 AND skill_id = $2)`,
		profileID, skillID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSuggestionRepository) PendingExistsForPair(ctx context.Context, profileID, skillID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM suggestions WHERE profile_id = $1 AND skill_id = $2 AND status = 'PENDING')`,
		profileID, skillID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSuggestionRepository) ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]SuggestionDetail, error) {
	rows, err := r.db.Query(ctx,
		suggestionDetailSelect+` WHERE sg.profile_id = $1 ORDER BY sg.created_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	return collectSuggestionDetails(rows)
}

func (r *PostgresSuggestionRepository) ListPendingByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) ([]SuggestionDetail, error) {
	if len(profileIDs) == 0 {
		return []SuggestionDetail{}, nil
	}
	rows, err := r.db.Query(ctx,
		suggestionDetailSelect+` WHERE sg.status = 'PENDING' AND sg.profile_id = ANY($1) ORDER BY sg.created_at ASC`,
		profileIDs,
	)
	if err != nil {
		return nil, err
	}
	return collectSuggestionDetails(rows)
}

func collectSuggestionDetails(rows database.Rows) ([]SuggestionDetail, error) {
	defer rows.Close()

	out := make([]SuggestionDetail, 0)
	for rows.Next() {
		d, err := scanSuggestionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve transitions the suggestion to APPROVED and upserts the employee's
// skill record in one transaction. The transition is conditional on the row
// still being PENDING so two reviewers cannot both apply it.
func (r *PostgresSuggestionRepository) Approve(ctx context.Context, id uuid.UUID, proficiency string, actorID uuid.UUID, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	row := tx.QueryRow(ctx,
		`UPDATE suggestions
		 SET status = 'APPROVED', resolved_at = $2
		 WHERE id = $1 AND status = 'PENDING'
		 RETURNING profile_id, skill_id`,
		id, now,
	)

	var profileID, skillID uuid.UUID
	if err := row.Scan(&profileID, &skillID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSuggestionAlreadyResolved
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO employee_skills (id, profile_id, skill_id, proficiency, last_validated_at, last_validated_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (profile_id, skill_id) DO UPDATE
		 SET proficiency = EXCLUDED.proficiency,
		     last_validated_at = EXCLUDED.last_validated_at,
		     last_validated_by = EXCLUDED.last_validated_by`,
		uuid.New(), profileID, skillID, proficiency, now, actorID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reject transitions the suggestion to REJECTED. No employee skill record is
// touched.
func (r *PostgresSuggestionRepository) Reject(ctx context.Context, id uuid.UUID, now time.Time) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE suggestions
		 SET status = 'REJECTED', resolved_at = $2
		 WHERE id = $1 AND status = 'PENDING'`,
		id, now,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSuggestionAlreadyResolved
	}
	return nil
}

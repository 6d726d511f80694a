package seeder

import (
	"context"
	"fmt"

	"skill-pulse/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "discipline", "active", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name       string
		Discipline string
		Active     bool
	}{
		{Name: "Go", Discipline: "Backend", Active: true},
		{Name: "PostgreSQL", Discipline: "Database", Active: true},
		{Name: "Redis", Discipline: "Database", Active: true},
		{Name: "React", Discipline: "Frontend", Active: true},
		{Name: "TypeScript", Discipline: "Frontend", Active: true},
		{Name: "Kubernetes", Discipline: "DevOps", Active: true},
		{Name: "Terraform", Discipline: "DevOps", Active: true},
		{Name: "AngularJS", Discipline: "Frontend", Active: false},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, discipline, active)
			 VALUES (gen_random_uuid(), $1, $2, $3)
			 ON CONFLICT DO NOTHING`,
			it.Name,
			it.Discipline,
			it.Active,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

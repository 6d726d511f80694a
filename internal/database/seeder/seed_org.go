package seeder

import (
	"context"
	"fmt"

	"skill-pulse/internal/database"

	"golang.org/x/crypto/bcrypt"
)

// OrgSeeder creates a small demo org: one admin, one tech lead with a
// project, and two employees assigned to it with core-stack tags.
type OrgSeeder struct {
	// DemoPassword is shared by every seeded account. Empty skips seeding.
	DemoPassword string
}

func (OrgSeeder) Name() string { return "org" }

func (s OrgSeeder) Run(ctx context.Context, db database.DB) error {
	if s.DemoPassword == "" {
		return nil
	}

	if err := EnsureTableColumns(ctx, db, "profiles", "id", "name", "email", "role", "password_hash"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "projects", "id", "name", "tech_lead_id"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "assignments", "id", "profile_id", "project_id", "tags"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	profiles := []struct {
		Name  string
		Email string
		Role  string
	}{
		{Name: "Ada Admin", Email: "admin@skillpulse.local", Role: "ADMIN"},
		{Name: "Lena Lead", Email: "lead@skillpulse.local", Role: "TECH_LEAD"},
		{Name: "Evan Engineer", Email: "evan@skillpulse.local", Role: "EMPLOYEE"},
		{Name: "Rita Rivera", Email: "rita@skillpulse.local", Role: "EMPLOYEE"},
	}
	for _, p := range profiles {
		_, err := tx.Exec(ctx,
			`INSERT INTO profiles (id, name, email, role, password_hash)
			 VALUES (gen_random_uuid(), $1, $2, $3, $4)
			 ON CONFLICT (email) DO NOTHING`,
			p.Name, p.Email, p.Role, string(hash),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO projects (id, name, tech_lead_id)
		 SELECT gen_random_uuid(), 'Platform', p.id
		 FROM profiles p
		 WHERE p.email = 'lead@skillpulse.local'
		   AND NOT EXISTS (SELECT 1 FROM projects WHERE name = 'Platform')`,
	)
	if err != nil {
		return err
	}

	assignments := []struct {
		Email string
		Tags  string
	}{
		{Email: "evan@skillpulse.local", Tags: `{"Go","PostgreSQL"}`},
		{Email: "rita@skillpulse.local", Tags: `{"React","TypeScript"}`},
	}
	for _, a := range assignments {
		_, err := tx.Exec(ctx,
			`INSERT INTO assignments (id, profile_id, project_id, tags)
			 SELECT gen_random_uuid(), p.id, pr.id, $2::TEXT[]
			 FROM profiles p, projects pr
			 WHERE p.email = $1
			   AND pr.name = 'Platform'
			   AND NOT EXISTS (
			       SELECT 1 FROM assignments a WHERE a.profile_id = p.id AND a.project_id = pr.id
			   )`,
			a.Email, a.Tags,
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

package usecase

import (
	"context"

	"skill-pulse/internal/repository"
)

// CatalogUsecase exposes the active skill catalog employees pick from when
// filing a self-report.
type CatalogUsecase interface {
	ListActiveSkills(ctx context.Context) ([]SkillInfo, error)
}

type Catalog struct {
	skills repository.SkillRepository
}

func NewCatalogUsecase(skills repository.SkillRepository) *Catalog {
	return &Catalog{skills: skills}
}

func (u *Catalog) ListActiveSkills(ctx context.Context) ([]SkillInfo, error) {
	items, err := u.skills.ListActive(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillInfo, 0, len(items))
	for _, s := range items {
		out = append(out, SkillInfo{ID: s.ID, Name: s.Name, Discipline: s.Discipline})
	}
	return out, nil
}

package skill

import (
	"time"

	"github.com/google/uuid"
)

// Proficiency is the ordered proficiency scale. The string values are the
// wire contract and are stored as-is.
type Proficiency string

const (
	Novice       Proficiency = "NOVICE"
	Intermediate Proficiency = "INTERMEDIATE"
	Advanced     Proficiency = "ADVANCED"
	Expert       Proficiency = "EXPERT"
)

var proficiencyRank = map[Proficiency]int{
	Novice:       1,
	Intermediate: 2,
	Advanced:     3,
	Expert:       4,
}

func (p Proficiency) Valid() bool {
	_, ok := proficiencyRank[p]
	return ok
}

// Rank returns the position on the scale, 0 for unknown values.
func (p Proficiency) Rank() int {
	return proficiencyRank[p]
}

func (p Proficiency) String() string {
	return string(p)
}

type Skill struct {
	ID         uuid.UUID
	Name       string
	Discipline string
	Active     bool
	CreatedAt  time.Time
}

// EmployeeSkill is a validated skill on a profile. At most one row exists
// per (profile, skill) pair; only the resolution engine writes these.
type EmployeeSkill struct {
	ID              uuid.UUID
	ProfileID       uuid.UUID
	SkillID         uuid.UUID
	Proficiency     Proficiency
	LastValidatedAt time.Time
	LastValidatedBy *uuid.UUID
}

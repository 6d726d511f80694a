package org

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleTechLead Role = "TECH_LEAD"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleTechLead, RoleAdmin:
		return true
	}
	return false
}

type Profile struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

type Project struct {
	ID         uuid.UUID
	Name       string
	TechLeadID uuid.UUID
}

// Assignment places a profile on a project. Tags are free-form strings; a
// skill whose name exactly matches a tag (case-sensitive) is part of the
// profile's core stack.
type Assignment struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	ProjectID uuid.UUID
	Tags      []string
}

package project

import (
	"strings"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
)

// Assignment links an engineer to a project
type Assignment struct {
	ProjectID  uuid.UUID
	EngineerID uuid.UUID
	Role       string
	AssignedOn shared.Date
}

// NewAssignment creates an assignment effective on the given date
func NewAssignment(projectID, engineerID uuid.UUID, role string, on shared.Date) (*Assignment, error) {
	if projectID == uuid.Nil || engineerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNMENT", "Project and engineer are required")
	}
	role = strings.TrimSpace(role)
	if len(role) > 50 {
		return nil, shared.NewDomainError("INVALID_ASSIGNMENT", "Role cannot exceed 50 characters")
	}
	return &Assignment{
		ProjectID:  projectID,
		EngineerID: engineerID,
		Role:       role,
		AssignedOn: on,
	}, nil
}

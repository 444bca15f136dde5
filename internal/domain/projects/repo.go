package projects

import (
	"context"

	"santiye/internal/core/id"
)

// Repository defines persistence for projects and their poz assignments.
type Repository interface {
	// Projects

	// Create inserts a new project.
	Create(ctx context.Context, project *Project) error

	// GetByID retrieves a project. NotFound when absent.
	GetByID(ctx context.Context, projectID id.ID) (*Project, error)

	// GetForUpdate retrieves a project with a row lock, so concurrent
	// assignment changes serialize on the parent's running totals.
	GetForUpdate(ctx context.Context, projectID id.ID) (*Project, error)

	// Update overwrites mutable project fields including the totals.
	Update(ctx context.Context, project *Project) error

	// Delete removes a project.
	Delete(ctx context.Context, projectID id.ID) error

	// List returns projects, optionally filtered by status.
	List(ctx context.Context, filter ListFilter) ([]Project, error)

	// Assignments

	// CreateAssignment inserts a project-poz assignment.
	CreateAssignment(ctx context.Context, assignment *Assignment) error

	// GetAssignment retrieves an assignment. NotFound when absent.
	GetAssignment(ctx context.Context, assignmentID id.ID) (*Assignment, error)

	// DeleteAssignment removes an assignment.
	DeleteAssignment(ctx context.Context, assignmentID id.ID) error

	// ListAssignments returns all assignments of one project.
	ListAssignments(ctx context.Context, projectID id.ID) ([]Assignment, error)
}

// ListFilter narrows project listings.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

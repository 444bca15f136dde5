// Package project_repo provides PostgreSQL persistence for projects and
// their poz assignments.
package project_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/domain/projects"
	"santiye/internal/infrastructure/storage/postgres"
)

const (
	projectTable    = "projects"
	assignmentTable = "project_assignments"

	pgUniqueViolation = "23505"
)

var projectColumns = []string{
	"id", "code", "name", "customer_name", "address", "contractor_id",
	"status", "total_price", "total_contractor_price",
	"created_by", "created_at", "updated_at",
}

var assignmentColumns = []string{
	"id", "project_id", "poz_id", "quantity",
	"price", "contractor_price", "price_type",
	"created_by", "created_at",
}

// ProjectRepo implements projects.Repository.
type ProjectRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ projects.Repository = (*ProjectRepo)(nil)

// NewProjectRepo creates a new project repository.
func NewProjectRepo(txManager *postgres.TxManager) *ProjectRepo {
	return &ProjectRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// --- Projects ---

// Create inserts a new project.
func (r *ProjectRepo) Create(ctx context.Context, project *projects.Project) error {
	q := r.builder.Insert(projectTable).
		Columns(projectColumns...).
		Values(project.ID, project.Code, project.Name, project.CustomerName, project.Address,
			project.ContractorID, project.Status, project.TotalPrice, project.TotalContractorPrice,
			project.CreatedBy, project.CreatedAt, project.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("project", "code", project.Code)
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project.
func (r *ProjectRepo) GetByID(ctx context.Context, projectID id.ID) (*projects.Project, error) {
	q := r.builder.Select(projectColumns...).
		From(projectTable).
		Where(squirrel.Eq{"id": projectID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var project projects.Project
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &project, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project", projectID)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// GetForUpdate retrieves a project with a row lock. Concurrent assignment
// changes serialize here before touching the running totals.
func (r *ProjectRepo) GetForUpdate(ctx context.Context, projectID id.ID) (*projects.Project, error) {
	sql := `
		SELECT id, code, name, customer_name, address, contractor_id,
		       status, total_price, total_contractor_price,
		       created_by, created_at, updated_at
		FROM projects
		WHERE id = $1
		FOR UPDATE
	`

	var project projects.Project
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &project, sql, projectID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project", projectID)
		}
		return nil, fmt.Errorf("get project for update: %w", err)
	}

	return &project, nil
}

// Update overwrites the mutable project fields including the totals.
func (r *ProjectRepo) Update(ctx context.Context, project *projects.Project) error {
	q := r.builder.Update(projectTable).
		Set("code", project.Code).
		Set("name", project.Name).
		Set("customer_name", project.CustomerName).
		Set("address", project.Address).
		Set("contractor_id", project.ContractorID).
		Set("status", project.Status).
		Set("total_price", project.TotalPrice).
		Set("total_contractor_price", project.TotalContractorPrice).
		Set("updated_at", project.UpdatedAt).
		Where(squirrel.Eq{"id": project.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("project", "code", project.Code)
		}
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("project", project.ID)
	}

	return nil
}

// Delete removes a project.
func (r *ProjectRepo) Delete(ctx context.Context, projectID id.ID) error {
	q := r.builder.Delete(projectTable).Where(squirrel.Eq{"id": projectID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("project", projectID)
	}

	return nil
}

// List returns projects newest first, optionally filtered by status.
func (r *ProjectRepo) List(ctx context.Context, filter projects.ListFilter) ([]projects.Project, error) {
	q := r.builder.Select(projectColumns...).
		From(projectTable).
		OrderBy("created_at DESC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []projects.Project
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return list, nil
}

// --- Assignments ---

// CreateAssignment inserts a project-poz assignment.
func (r *ProjectRepo) CreateAssignment(ctx context.Context, assignment *projects.Assignment) error {
	q := r.builder.Insert(assignmentTable).
		Columns(assignmentColumns...).
		Values(assignment.ID, assignment.ProjectID, assignment.PozID,
			assignment.Quantity.Int64Scaled(),
			assignment.Price, assignment.ContractorPrice, assignment.PriceType,
			assignment.CreatedBy, assignment.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}

	return nil
}

// GetAssignment retrieves an assignment.
func (r *ProjectRepo) GetAssignment(ctx context.Context, assignmentID id.ID) (*projects.Assignment, error) {
	q := r.builder.Select(assignmentColumns...).
		From(assignmentTable).
		Where(squirrel.Eq{"id": assignmentID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var assignment projects.Assignment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &assignment, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("assignment", assignmentID)
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	return &assignment, nil
}

// DeleteAssignment removes an assignment.
func (r *ProjectRepo) DeleteAssignment(ctx context.Context, assignmentID id.ID) error {
	q := r.builder.Delete(assignmentTable).Where(squirrel.Eq{"id": assignmentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("assignment", assignmentID)
	}

	return nil
}

// ListAssignments returns all assignments of one project in creation order.
func (r *ProjectRepo) ListAssignments(ctx context.Context, projectID id.ID) ([]projects.Assignment, error) {
	q := r.builder.Select(assignmentColumns...).
		From(assignmentTable).
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []projects.Assignment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	return list, nil
}

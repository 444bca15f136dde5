package projects

import (
	"context"
	"fmt"
	"time"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/tx"
	"santiye/internal/core/types"
	"santiye/internal/domain/audit"
	"santiye/internal/domain/catalogs/contractorprice"
	"santiye/internal/domain/catalogs/poz"
	"santiye/pkg/logger"
)

// StockConsumer is the slice of the stock ledger the assignment lifecycle
// needs: consumption on create, compensation on delete.
type StockConsumer interface {
	ConsumeForProjectPoz(ctx context.Context, userID, pozID id.ID, amount types.Quantity) error
	ReverseConsumeForProjectPoz(ctx context.Context, userID, pozID id.ID, amount types.Quantity) error
}

// Service provides business logic for projects and poz assignments.
type Service struct {
	repo      Repository
	pozRepo   poz.Repository
	prices    contractorprice.Repository
	stock     StockConsumer
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new project service.
func NewService(
	repo Repository,
	pozRepo poz.Repository,
	prices contractorprice.Repository,
	stock StockConsumer,
	txManager tx.Manager,
	auditor audit.Recorder,
) *Service {
	return &Service{
		repo:      repo,
		pozRepo:   pozRepo,
		prices:    prices,
		stock:     stock,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Create inserts a new project.
func (s *Service) Create(ctx context.Context, project *Project) error {
	if err := project.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		_ = s.auditor.Record(ctx, "project", project.ID, audit.ActionCreate, project)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "project created", "id", project.ID, "name", project.Name)
	return nil
}

// Update edits project header fields. Totals are never set directly here;
// they only move with assignments.
func (s *Service) Update(ctx context.Context, projectID id.ID, mutate func(*Project) error) (*Project, error) {
	var result *Project
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		project, err := s.repo.GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if err := mutate(project); err != nil {
			return err
		}
		if err := project.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, project); err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		result = project
		_ = s.auditor.Record(ctx, "project", project.ID, audit.ActionUpdate, project)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetStatus moves the project to a new workflow state.
func (s *Service) SetStatus(ctx context.Context, projectID id.ID, status Status) (*Project, error) {
	if !IsValidStatus(status) {
		return nil, apperror.NewValidation("invalid project status").
			WithDetail("value", string(status))
	}
	return s.Update(ctx, projectID, func(p *Project) error {
		p.Status = status
		return nil
	})
}

// Delete removes a project. Projects with assignments must shed them first
// so the compensating stock adjustments run through RemovePoz.
func (s *Service) Delete(ctx context.Context, projectID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		project, err := s.repo.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		assignments, err := s.repo.ListAssignments(ctx, projectID)
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}
		if len(assignments) > 0 {
			return apperror.NewConflict("project still has poz assignments").
				WithDetail("count", len(assignments))
		}
		if err := s.repo.Delete(ctx, projectID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		_ = s.auditor.Record(ctx, "project", project.ID, audit.ActionDelete, project)
		return nil
	})
}

// GetByID retrieves a project.
func (s *Service) GetByID(ctx context.Context, projectID id.ID) (*Project, error) {
	return s.repo.GetByID(ctx, projectID)
}

// List returns projects matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// ListAssignments returns the poz assignments of one project.
func (s *Service) ListAssignments(ctx context.Context, projectID id.ID) ([]Assignment, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(ctx, projectID)
}

// AddPoz attaches a poz to a project: snapshots the internal and contractor
// prices, consumes the creating user's stock for material items and adds the
// assignment's contribution to the parent's running totals. One transaction.
func (s *Service) AddPoz(ctx context.Context, projectID, pozID id.ID, quantity types.Quantity, actorID id.ID) (*Assignment, error) {
	if !quantity.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	var result *Assignment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.pozRepo.GetByID(ctx, pozID)
		if err != nil {
			return err
		}

		project, err := s.repo.GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		contractorPrice := item.Price
		if project.ContractorID != nil {
			if override, err := s.prices.Get(ctx, *project.ContractorID, pozID); err == nil {
				contractorPrice = override.Price
			} else if !apperror.IsNotFound(err) {
				return err
			}
		}

		assignment := &Assignment{
			ID:              id.New(),
			ProjectID:       project.ID,
			PozID:           item.ID,
			Quantity:        quantity,
			Price:           item.Price,
			ContractorPrice: contractorPrice,
			PriceType:       item.PriceType,
			CreatedBy:       actorID,
			CreatedAt:       time.Now().UTC(),
		}

		if item.IsMaterial() {
			if err := s.stock.ConsumeForProjectPoz(ctx, actorID, item.ID, quantity); err != nil {
				return fmt.Errorf("consume stock: %w", err)
			}
		}

		if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}

		project.TotalPrice = project.TotalPrice.Add(assignment.InternalTotal())
		project.TotalContractorPrice = project.TotalContractorPrice.Add(assignment.ContractorTotal())
		if err := s.repo.Update(ctx, project); err != nil {
			return fmt.Errorf("update project totals: %w", err)
		}

		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "poz assigned to project",
		"project_id", projectID,
		"poz_id", pozID,
		"quantity", quantity,
	)
	return result, nil
}

// RemovePoz detaches an assignment: reverses the stock consumption for
// material items and subtracts the assignment's contribution from the
// parent's running totals. One transaction.
func (s *Service) RemovePoz(ctx context.Context, assignmentID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		assignment, err := s.repo.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}

		project, err := s.repo.GetForUpdate(ctx, assignment.ProjectID)
		if err != nil {
			return err
		}

		if assignment.IsMaterial() {
			if err := s.stock.ReverseConsumeForProjectPoz(ctx, assignment.CreatedBy, assignment.PozID, assignment.Quantity); err != nil {
				return fmt.Errorf("reverse consume stock: %w", err)
			}
		}

		project.TotalPrice = project.TotalPrice.Sub(assignment.InternalTotal())
		project.TotalContractorPrice = project.TotalContractorPrice.Sub(assignment.ContractorTotal())
		if err := s.repo.Update(ctx, project); err != nil {
			return fmt.Errorf("update project totals: %w", err)
		}

		if err := s.repo.DeleteAssignment(ctx, assignmentID); err != nil {
			return fmt.Errorf("delete assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "poz assignment removed", "assignment_id", assignmentID)
	return nil
}

package poz

import (
	"context"
	"fmt"
	"strings"

	"santiye/internal/core/apperror"
	appctx "santiye/internal/core/context"
	"santiye/internal/core/id"
	"santiye/internal/core/tx"
	"santiye/internal/core/types"
	"santiye/internal/domain/audit"
	"santiye/pkg/logger"
)

// Service provides business logic for the poz catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new poz catalog service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		auditor:   auditor,
	}
}

// UpsertInput carries the editable fields of a poz, keyed by code.
type UpsertInput struct {
	Code      string
	Name      string
	Unit      string
	PriceType string
	Price     types.Money
}

// Upsert creates the poz for input.Code or updates it in place.
// Code is the immutable identity: an update never changes it.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (*Poz, error) {
	input.Code = strings.TrimSpace(input.Code)

	var result *Poz
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByCode(ctx, input.Code)
		switch {
		case err == nil:
			existing.Name = input.Name
			existing.Unit = input.Unit
			existing.PriceType = input.PriceType
			existing.Price = input.Price
			if err := existing.Validate(ctx); err != nil {
				return err
			}
			if err := s.repo.Update(ctx, existing); err != nil {
				return fmt.Errorf("update poz: %w", err)
			}
			result = existing
			_ = s.auditor.Record(ctx, "poz", existing.ID, audit.ActionUpdate, existing)
			return nil
		case apperror.IsNotFound(err):
			item := NewPoz(input.Code, input.Name, input.Unit, input.PriceType, input.Price)
			if err := item.Validate(ctx); err != nil {
				return err
			}
			if err := s.repo.Create(ctx, item); err != nil {
				return fmt.Errorf("create poz: %w", err)
			}
			result = item
			_ = s.auditor.Record(ctx, "poz", item.ID, audit.ActionCreate, item)
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkUpsert upserts a list of catalog items (Excel import path).
// The whole list is applied in one transaction.
func (s *Service) BulkUpsert(ctx context.Context, inputs []UpsertInput) (int, error) {
	if len(inputs) == 0 {
		return 0, apperror.NewValidation("empty poz list")
	}

	count := 0
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i, input := range inputs {
			if _, err := s.Upsert(ctx, input); err != nil {
				return fmt.Errorf("row %d (%s): %w", i+1, input.Code, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "poz catalog bulk upsert", "count", count)
	return count, nil
}

// Update edits a poz by ID. The code stays unchanged.
func (s *Service) Update(ctx context.Context, pozID id.ID, input UpsertInput) (*Poz, error) {
	var result *Poz
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetByID(ctx, pozID)
		if err != nil {
			return err
		}
		item.Name = input.Name
		item.Unit = input.Unit
		item.PriceType = input.PriceType
		item.Price = input.Price
		if err := item.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, item); err != nil {
			return fmt.Errorf("update poz: %w", err)
		}
		result = item
		_ = s.auditor.Record(ctx, "poz", item.ID, audit.ActionUpdate, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a poz from the catalog.
func (s *Service) Delete(ctx context.Context, pozID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetByID(ctx, pozID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, pozID); err != nil {
			return fmt.Errorf("delete poz: %w", err)
		}
		_ = s.auditor.Record(ctx, "poz", item.ID, audit.ActionDelete, item)
		return nil
	})
}

// GetByID retrieves a poz by ID.
func (s *Service) GetByID(ctx context.Context, pozID id.ID) (*Poz, error) {
	return s.repo.GetByID(ctx, pozID)
}

// GetByCode retrieves a poz by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Poz, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns the catalog for the calling actor. Contractor users see
// their own override prices as the effective price.
func (s *Service) List(ctx context.Context) ([]ListedPoz, error) {
	if appctx.IsContractor(ctx) {
		return s.repo.ListWithContractorPrices(ctx, appctx.GetUserID(ctx))
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	listed := make([]ListedPoz, len(items))
	for i, item := range items {
		listed[i] = ListedPoz{Poz: item, EffectivePrice: item.Price}
	}
	return listed, nil
}

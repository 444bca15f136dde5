package contractorprice

import (
	"context"
	"fmt"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/tx"
	"santiye/internal/core/types"
	"santiye/pkg/logger"
)

// Service provides business logic for contractor pricing.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new contractor pricing service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// PriceInput is one override row.
type PriceInput struct {
	PozID id.ID
	Price types.Money
}

// SetPrice creates or replaces the override for (contractor, poz).
func (s *Service) SetPrice(ctx context.Context, contractorID, pozID id.ID, price types.Money) (*ContractorPrice, error) {
	record := NewContractorPrice(contractorID, pozID, price)
	if err := record.Validate(ctx); err != nil {
		return nil, err
	}

	var stored *ContractorPrice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		stored, err = s.repo.Upsert(ctx, record)
		if err != nil {
			return fmt.Errorf("upsert contractor price: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// BulkSetPrices applies a list of overrides for one contractor in a single
// transaction (manual entry and Excel import both land here).
func (s *Service) BulkSetPrices(ctx context.Context, contractorID id.ID, inputs []PriceInput) (int, error) {
	if len(inputs) == 0 {
		return 0, apperror.NewValidation("empty price list")
	}

	count := 0
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i, input := range inputs {
			record := NewContractorPrice(contractorID, input.PozID, input.Price)
			if err := record.Validate(ctx); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			if _, err := s.repo.Upsert(ctx, record); err != nil {
				return fmt.Errorf("row %d: upsert: %w", i+1, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "contractor prices set",
		"contractor_id", contractorID,
		"count", count,
	)
	return count, nil
}

// GetPricesFor returns all overrides for one contractor.
func (s *Service) GetPricesFor(ctx context.Context, contractorID id.ID) ([]ContractorPrice, error) {
	return s.repo.ListByContractor(ctx, contractorID)
}

// GetPrice returns the override for (contractor, poz). NotFound when absent.
func (s *Service) GetPrice(ctx context.Context, contractorID, pozID id.ID) (*ContractorPrice, error) {
	return s.repo.Get(ctx, contractorID, pozID)
}

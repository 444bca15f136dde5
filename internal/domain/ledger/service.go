package ledger

import (
	"context"
	"fmt"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/tx"
	"santiye/internal/core/types"
	"santiye/pkg/logger"
)

// Service owns every mutation of central stock, user stock and the movement
// log, plus the stock side effects of project-poz assignments.
//
// Each operation is one unit of work wrapped in a database transaction. The
// transfer and refund paths lock the source record before the availability
// check, so two concurrent transfers against the same central record
// serialize and the loser is rejected with InsufficientStock rather than
// over-issuing (reject-on-race policy).
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Replenish adds amount to the central stock of a poz and logs the movement.
// The record is created on first replenishment. A negative amount is accepted
// as a stock correction; the central quantity may go negative through
// corrections alone (preserved behavior).
func (s *Service) Replenish(ctx context.Context, pozID id.ID, amount types.Quantity, actorID id.ID) (CentralStock, error) {
	if id.IsNil(pozID) {
		return CentralStock{}, apperror.NewValidation("poz is required")
	}
	if amount.IsZero() {
		return CentralStock{}, apperror.NewValidation("amount must not be zero")
	}

	var updated CentralStock
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.ApplyCentralDelta(ctx, pozID, amount)
		if err != nil {
			return fmt.Errorf("apply central delta: %w", err)
		}

		entry := NewMovementLogEntry(actorID, pozID, TransactionReplenish, amount)
		if err := s.repo.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("append log: %w", err)
		}
		return nil
	})
	if err != nil {
		return CentralStock{}, err
	}

	logger.Info(ctx, "central stock replenished",
		"poz_id", pozID,
		"amount", amount,
		"quantity", updated.Quantity,
	)

	return updated, nil
}

// TransferToUser moves amount from central stock to the target user's stock
// ("Satın Alım"). Fails with InsufficientStock and performs no writes when
// the central quantity is below amount.
func (s *Service) TransferToUser(ctx context.Context, pozID, targetUserID id.ID, amount types.Quantity, actorID id.ID, documentURL string) (UserStock, error) {
	if id.IsNil(pozID) || id.IsNil(targetUserID) {
		return UserStock{}, apperror.NewValidation("poz and user are required")
	}
	if !amount.IsPositive() {
		return UserStock{}, apperror.NewValidation("amount must be positive")
	}

	var updated UserStock
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		central, err := s.repo.GetCentralForUpdate(ctx, pozID)
		if err != nil {
			return fmt.Errorf("lock central stock: %w", err)
		}
		if central.Quantity < amount {
			return apperror.NewInsufficientStock(pozID.String(), amount.Float64(), central.Quantity.Float64())
		}

		if _, err := s.repo.ApplyCentralDelta(ctx, pozID, amount.Neg()); err != nil {
			return fmt.Errorf("decrement central stock: %w", err)
		}

		updated, err = s.repo.ApplyUserDelta(ctx, targetUserID, pozID, amount)
		if err != nil {
			return fmt.Errorf("increment user stock: %w", err)
		}

		entry := NewMovementLogEntry(actorID, pozID, TransactionIssue, amount).
			WithUser(targetUserID).
			WithDocument(documentURL)
		if err := s.repo.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("append log: %w", err)
		}
		return nil
	})
	if err != nil {
		return UserStock{}, err
	}

	logger.Info(ctx, "stock transferred to user",
		"poz_id", pozID,
		"user_id", targetUserID,
		"amount", amount,
	)

	return updated, nil
}

// RefundFromUser moves amount from a user's stock back to central stock
// ("İade"). Fails with InsufficientStock when the user holds less than amount.
func (s *Service) RefundFromUser(ctx context.Context, fromUserID, pozID id.ID, amount types.Quantity, actorID id.ID, documentURL string) (CentralStock, error) {
	if id.IsNil(pozID) || id.IsNil(fromUserID) {
		return CentralStock{}, apperror.NewValidation("poz and user are required")
	}
	if !amount.IsPositive() {
		return CentralStock{}, apperror.NewValidation("amount must be positive")
	}

	var updated CentralStock
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		userStock, err := s.repo.GetUserStockForUpdate(ctx, fromUserID, pozID)
		if err != nil {
			return fmt.Errorf("lock user stock: %w", err)
		}
		if userStock.Quantity < amount {
			return apperror.NewInsufficientStock(pozID.String(), amount.Float64(), userStock.Quantity.Float64())
		}

		if _, err := s.repo.ApplyUserDelta(ctx, fromUserID, pozID, amount.Neg()); err != nil {
			return fmt.Errorf("decrement user stock: %w", err)
		}

		updated, err = s.repo.ApplyCentralDelta(ctx, pozID, amount)
		if err != nil {
			return fmt.Errorf("increment central stock: %w", err)
		}

		entry := NewMovementLogEntry(actorID, pozID, TransactionRefund, amount).
			WithUser(fromUserID).
			WithDocument(documentURL)
		if err := s.repo.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("append log: %w", err)
		}
		return nil
	})
	if err != nil {
		return CentralStock{}, err
	}

	logger.Info(ctx, "stock refunded from user",
		"poz_id", pozID,
		"user_id", fromUserID,
		"amount", amount,
	)

	return updated, nil
}

// ConsumeForProjectPoz decrements the user's stock when a material poz is
// attached to a project. The record is created with a negative balance when
// absent, and no validation error is raised on a negative result: material
// may be requisitioned before it is physically transferred. No movement log
// entry is written on this path, unlike transfers and refunds.
func (s *Service) ConsumeForProjectPoz(ctx context.Context, userID, pozID id.ID, amount types.Quantity) error {
	if !amount.IsPositive() {
		return apperror.NewValidation("amount must be positive")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.repo.ApplyUserDelta(ctx, userID, pozID, amount.Neg())
		if err != nil {
			return fmt.Errorf("consume user stock: %w", err)
		}
		if updated.Quantity.IsNegative() {
			logger.Warn(ctx, "user stock went negative on project consumption",
				"user_id", userID,
				"poz_id", pozID,
				"quantity", updated.Quantity,
			)
		}
		return nil
	})
	return err
}

// ReverseConsumeForProjectPoz increments the user's stock back when a
// material project-poz assignment is deleted. The record is recreated when
// the original consumption record is gone.
func (s *Service) ReverseConsumeForProjectPoz(ctx context.Context, userID, pozID id.ID, amount types.Quantity) error {
	if !amount.IsPositive() {
		return apperror.NewValidation("amount must be positive")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.ApplyUserDelta(ctx, userID, pozID, amount); err != nil {
			return fmt.Errorf("reverse consume user stock: %w", err)
		}
		return nil
	})
}

// --- Read side ---

// GetCentralStock returns all central stock records.
func (s *Service) GetCentralStock(ctx context.Context) ([]CentralStock, error) {
	return s.repo.ListCentral(ctx)
}

// GetUserStock returns all stock records for a user.
func (s *Service) GetUserStock(ctx context.Context, userID id.ID) ([]UserStock, error) {
	return s.repo.ListUserStock(ctx, userID)
}

// GetMovementLog returns log entries matching the filter.
func (s *Service) GetMovementLog(ctx context.Context, filter LogFilter) ([]MovementLogEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.ListLog(ctx, filter)
}

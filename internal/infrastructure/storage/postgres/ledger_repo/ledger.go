// Package ledger_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/ledger"
	"santiye/internal/infrastructure/storage/postgres"
)

const (
	centralStockTable = "central_stock"
	userStockTable    = "user_stock"
	movementLogTable  = "stock_movement_log"
)

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// --- Central stock ---

// GetCentral returns the central record for a poz; zero-quantity value when absent.
func (r *LedgerRepo) GetCentral(ctx context.Context, pozID id.ID) (ledger.CentralStock, error) {
	var record ledger.CentralStock

	q := r.builder.Select("poz_id", "quantity", "updated_at").
		From(centralStockTable).
		Where(squirrel.Eq{"poz_id": pozID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return record, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.CentralStock{PozID: pozID, Quantity: 0}, nil
		}
		return record, fmt.Errorf("get central stock: %w", err)
	}

	return record, nil
}

// GetCentralForUpdate returns the central record with a row lock.
// An absent record cannot be locked; the returned zero value makes any
// positive transfer fail the availability check, which is the wanted outcome.
func (r *LedgerRepo) GetCentralForUpdate(ctx context.Context, pozID id.ID) (ledger.CentralStock, error) {
	var record ledger.CentralStock

	sql := `
		SELECT poz_id, quantity, updated_at
		FROM central_stock
		WHERE poz_id = $1
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, pozID); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.CentralStock{PozID: pozID, Quantity: 0}, nil
		}
		return record, fmt.Errorf("get central stock for update: %w", err)
	}

	return record, nil
}

// ApplyCentralDelta upserts the central record, adding delta to its quantity.
func (r *LedgerRepo) ApplyCentralDelta(ctx context.Context, pozID id.ID, delta types.Quantity) (ledger.CentralStock, error) {
	var record ledger.CentralStock

	sql := `
		INSERT INTO central_stock (poz_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (poz_id)
		DO UPDATE SET quantity = central_stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING poz_id, quantity, updated_at
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, pozID, delta.Int64Scaled()); err != nil {
		return record, fmt.Errorf("apply central delta: %w", err)
	}

	return record, nil
}

// ListCentral returns all central stock records ordered by poz.
func (r *LedgerRepo) ListCentral(ctx context.Context) ([]ledger.CentralStock, error) {
	q := r.builder.Select("poz_id", "quantity", "updated_at").
		From(centralStockTable).
		OrderBy("poz_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []ledger.CentralStock
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list central stock: %w", err)
	}

	return records, nil
}

// --- User stock ---

// GetUserStock returns the (user, poz) record; zero-quantity value when absent.
func (r *LedgerRepo) GetUserStock(ctx context.Context, userID, pozID id.ID) (ledger.UserStock, error) {
	var record ledger.UserStock

	q := r.builder.Select("user_id", "poz_id", "quantity", "updated_at").
		From(userStockTable).
		Where(squirrel.Eq{"user_id": userID, "poz_id": pozID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return record, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.UserStock{UserID: userID, PozID: pozID, Quantity: 0}, nil
		}
		return record, fmt.Errorf("get user stock: %w", err)
	}

	return record, nil
}

// GetUserStockForUpdate returns the (user, poz) record with a row lock.
func (r *LedgerRepo) GetUserStockForUpdate(ctx context.Context, userID, pozID id.ID) (ledger.UserStock, error) {
	var record ledger.UserStock

	sql := `
		SELECT user_id, poz_id, quantity, updated_at
		FROM user_stock
		WHERE user_id = $1 AND poz_id = $2
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, userID, pozID); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.UserStock{UserID: userID, PozID: pozID, Quantity: 0}, nil
		}
		return record, fmt.Errorf("get user stock for update: %w", err)
	}

	return record, nil
}

// ApplyUserDelta upserts the (user, poz) record, adding delta to its quantity.
func (r *LedgerRepo) ApplyUserDelta(ctx context.Context, userID, pozID id.ID, delta types.Quantity) (ledger.UserStock, error) {
	var record ledger.UserStock

	sql := `
		INSERT INTO user_stock (user_id, poz_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, poz_id)
		DO UPDATE SET quantity = user_stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING user_id, poz_id, quantity, updated_at
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, userID, pozID, delta.Int64Scaled()); err != nil {
		return record, fmt.Errorf("apply user delta: %w", err)
	}

	return record, nil
}

// ListUserStock returns all stock records of one user ordered by poz.
func (r *LedgerRepo) ListUserStock(ctx context.Context, userID id.ID) ([]ledger.UserStock, error) {
	q := r.builder.Select("user_id", "poz_id", "quantity", "updated_at").
		From(userStockTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("poz_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []ledger.UserStock
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list user stock: %w", err)
	}

	return records, nil
}

// --- Movement log ---

// AppendLog inserts an immutable movement log entry.
func (r *LedgerRepo) AppendLog(ctx context.Context, entry ledger.MovementLogEntry) error {
	q := r.builder.Insert(movementLogTable).
		Columns("id", "creator_id", "user_id", "poz_id", "transaction_type", "quantity", "document_url", "created_at").
		Values(entry.ID, entry.CreatorID, entry.UserID, entry.PozID, entry.TransactionType,
			entry.Quantity.Int64Scaled(), entry.DocumentURL, entry.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("append movement log: %w", err)
	}

	return nil
}

// ListLog returns log entries matching the filter, newest first.
func (r *LedgerRepo) ListLog(ctx context.Context, filter ledger.LogFilter) ([]ledger.MovementLogEntry, error) {
	q := r.builder.Select("id", "creator_id", "user_id", "poz_id", "transaction_type", "quantity", "document_url", "created_at").
		From(movementLogTable).
		OrderBy("created_at DESC")

	if filter.TransactionType != nil {
		q = q.Where(squirrel.Eq{"transaction_type": *filter.TransactionType})
	}
	if filter.PozID != nil {
		q = q.Where(squirrel.Eq{"poz_id": *filter.PozID})
	}
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
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

	var entries []ledger.MovementLogEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list movement log: %w", err)
	}

	return entries, nil
}

// Package catalog_repo provides PostgreSQL persistence for the poz catalog
// and contractor price overrides.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/domain/catalogs/poz"
	"santiye/internal/infrastructure/storage/postgres"
)

const pozTable = "poz"

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PozRepo implements poz.Repository.
type PozRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ poz.Repository = (*PozRepo)(nil)

// NewPozRepo creates a new poz catalog repository.
func NewPozRepo(txManager *postgres.TxManager) *PozRepo {
	return &PozRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var pozColumns = []string{"id", "code", "name", "unit", "price_type", "price", "created_at", "updated_at"}

// GetByID retrieves a poz by ID.
func (r *PozRepo) GetByID(ctx context.Context, pozID id.ID) (*poz.Poz, error) {
	q := r.builder.Select(pozColumns...).
		From(pozTable).
		Where(squirrel.Eq{"id": pozID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item poz.Poz
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("poz", pozID)
		}
		return nil, fmt.Errorf("get poz: %w", err)
	}

	return &item, nil
}

// GetByCode retrieves a poz by its unique catalog code.
func (r *PozRepo) GetByCode(ctx context.Context, code string) (*poz.Poz, error) {
	q := r.builder.Select(pozColumns...).
		From(pozTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item poz.Poz
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("poz", code)
		}
		return nil, fmt.Errorf("get poz by code: %w", err)
	}

	return &item, nil
}

// Create inserts a new poz.
func (r *PozRepo) Create(ctx context.Context, item *poz.Poz) error {
	q := r.builder.Insert(pozTable).
		Columns(pozColumns...).
		Values(item.ID, item.Code, item.Name, item.Unit, item.PriceType, item.Price,
			item.CreatedAt, item.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("poz", "code", item.Code)
		}
		return fmt.Errorf("create poz: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing poz.
func (r *PozRepo) Update(ctx context.Context, item *poz.Poz) error {
	q := r.builder.Update(pozTable).
		Set("code", item.Code).
		Set("name", item.Name).
		Set("unit", item.Unit).
		Set("price_type", item.PriceType).
		Set("price", item.Price).
		Set("updated_at", item.UpdatedAt).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("poz", "code", item.Code)
		}
		return fmt.Errorf("update poz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("poz", item.ID)
	}

	return nil
}

// Delete removes a poz from the catalog.
func (r *PozRepo) Delete(ctx context.Context, pozID id.ID) error {
	q := r.builder.Delete(pozTable).Where(squirrel.Eq{"id": pozID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete poz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("poz", pozID)
	}

	return nil
}

// List returns the whole catalog ordered by code.
func (r *PozRepo) List(ctx context.Context) ([]poz.Poz, error) {
	q := r.builder.Select(pozColumns...).
		From(pozTable).
		OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []poz.Poz
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list poz: %w", err)
	}

	return items, nil
}

// ListWithContractorPrices returns the catalog with the contractor's override
// substituted as the effective price where one exists.
func (r *PozRepo) ListWithContractorPrices(ctx context.Context, contractorID id.ID) ([]poz.ListedPoz, error) {
	sql := `
		SELECT
			p.id, p.code, p.name, p.unit, p.price_type, p.price,
			p.created_at, p.updated_at,
			COALESCE(cp.price, p.price) AS effective_price
		FROM poz p
		LEFT JOIN contractor_prices cp
			ON cp.poz_id = p.id AND cp.contractor_id = $1
		ORDER BY p.code
	`

	var items []poz.ListedPoz
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, contractorID); err != nil {
		return nil, fmt.Errorf("list poz with contractor prices: %w", err)
	}

	return items, nil
}

package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/domain/catalogs/contractorprice"
	"santiye/internal/infrastructure/storage/postgres"
)

const contractorPriceTable = "contractor_prices"

// ContractorPriceRepo implements contractorprice.Repository.
type ContractorPriceRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ contractorprice.Repository = (*ContractorPriceRepo)(nil)

// NewContractorPriceRepo creates a new contractor price repository.
func NewContractorPriceRepo(txManager *postgres.TxManager) *ContractorPriceRepo {
	return &ContractorPriceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts the override or updates the price in place on the
// (contractor, poz) key.
func (r *ContractorPriceRepo) Upsert(ctx context.Context, price *contractorprice.ContractorPrice) (*contractorprice.ContractorPrice, error) {
	sql := `
		INSERT INTO contractor_prices (id, contractor_id, poz_id, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (contractor_id, poz_id)
		DO UPDATE SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at
		RETURNING id, contractor_id, poz_id, price, created_at, updated_at
	`

	var stored contractorprice.ContractorPrice
	querier := r.txManager.GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &stored, sql,
		price.ID, price.ContractorID, price.PozID, price.Price, price.CreatedAt, price.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert contractor price: %w", err)
	}

	return &stored, nil
}

// Get returns the override for (contractor, poz).
func (r *ContractorPriceRepo) Get(ctx context.Context, contractorID, pozID id.ID) (*contractorprice.ContractorPrice, error) {
	q := r.builder.Select("id", "contractor_id", "poz_id", "price", "created_at", "updated_at").
		From(contractorPriceTable).
		Where(squirrel.Eq{"contractor_id": contractorID, "poz_id": pozID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stored contractorprice.ContractorPrice
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &stored, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("contractor price", pozID)
		}
		return nil, fmt.Errorf("get contractor price: %w", err)
	}

	return &stored, nil
}

// ListByContractor returns all overrides for one contractor ordered by poz.
func (r *ContractorPriceRepo) ListByContractor(ctx context.Context, contractorID id.ID) ([]contractorprice.ContractorPrice, error) {
	q := r.builder.Select("id", "contractor_id", "poz_id", "price", "created_at", "updated_at").
		From(contractorPriceTable).
		Where(squirrel.Eq{"contractor_id": contractorID}).
		OrderBy("poz_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var prices []contractorprice.ContractorPrice
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &prices, sql, args...); err != nil {
		return nil, fmt.Errorf("list contractor prices: %w", err)
	}

	return prices, nil
}

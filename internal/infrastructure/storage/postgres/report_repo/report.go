// Package report_repo provides the read-side report queries.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/reports"
	"santiye/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// projectHeader is the scan target for the report's project fields.
type projectHeader struct {
	ID                   id.ID       `db:"id"`
	Code                 string      `db:"code"`
	Name                 string      `db:"name"`
	CustomerName         string      `db:"customer_name"`
	Status               string      `db:"status"`
	TotalPrice           types.Money `db:"total_price"`
	TotalContractorPrice types.Money `db:"total_contractor_price"`
}

// GetProjectReport loads a project together with its assignment lines joined
// against the poz catalog.
func (r *ReportRepo) GetProjectReport(ctx context.Context, projectID id.ID) (*reports.ProjectReport, error) {
	querier := r.txManager.GetQuerier(ctx)

	headSQL := `
		SELECT id, code, name, customer_name, status, total_price, total_contractor_price
		FROM projects
		WHERE id = $1
	`
	var head projectHeader
	if err := pgxscan.Get(ctx, querier, &head, headSQL, projectID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project", projectID)
		}
		return nil, fmt.Errorf("get project header: %w", err)
	}

	report := reports.ProjectReport{
		ProjectID:            head.ID,
		ProjectCode:          head.Code,
		ProjectName:          head.Name,
		CustomerName:         head.CustomerName,
		Status:               head.Status,
		TotalPrice:           head.TotalPrice,
		TotalContractorPrice: head.TotalContractorPrice,
	}

	linesSQL := `
		SELECT
			a.id AS assignment_id,
			p.code AS poz_code,
			p.name AS poz_name,
			p.unit,
			a.price_type,
			a.quantity,
			a.price,
			a.contractor_price,
			a.created_at
		FROM project_assignments a
		JOIN poz p ON p.id = a.poz_id
		WHERE a.project_id = $1
		ORDER BY p.code
	`

	if err := pgxscan.Select(ctx, querier, &report.Lines, linesSQL, projectID); err != nil {
		return nil, fmt.Errorf("get project report lines: %w", err)
	}

	return &report, nil
}

// GetStockReport loads all central stock lines with their poz fields.
func (r *ReportRepo) GetStockReport(ctx context.Context) ([]reports.StockReportLine, error) {
	sql := `
		SELECT
			p.code AS poz_code,
			p.name AS poz_name,
			p.unit,
			s.quantity
		FROM central_stock s
		JOIN poz p ON p.id = s.poz_id
		ORDER BY p.code
	`

	var lines []reports.StockReportLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql); err != nil {
		return nil, fmt.Errorf("get stock report: %w", err)
	}

	return lines, nil
}

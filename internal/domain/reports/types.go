// Package reports provides read-side report models and Excel export.
package reports

import (
	"context"
	"time"

	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// ProjectReportLine is one poz assignment joined with its catalog fields.
type ProjectReportLine struct {
	AssignmentID    id.ID          `db:"assignment_id" json:"assignmentId"`
	PozCode         string         `db:"poz_code" json:"pozCode"`
	PozName         string         `db:"poz_name" json:"pozName"`
	Unit            string         `db:"unit" json:"unit"`
	PriceType       string         `db:"price_type" json:"priceType"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
	Price           types.Money    `db:"price" json:"price"`
	ContractorPrice types.Money    `db:"contractor_price" json:"contractorPrice"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}

// ProjectReport is the full read model of one project for export.
type ProjectReport struct {
	ProjectID            id.ID               `json:"projectId"`
	ProjectCode          string              `json:"projectCode"`
	ProjectName          string              `json:"projectName"`
	CustomerName         string              `json:"customerName"`
	Status               string              `json:"status"`
	TotalPrice           types.Money         `json:"totalPrice"`
	TotalContractorPrice types.Money         `json:"totalContractorPrice"`
	Lines                []ProjectReportLine `json:"lines"`
}

// StockReportLine is one central stock record joined with its poz.
type StockReportLine struct {
	PozCode  string         `db:"poz_code" json:"pozCode"`
	PozName  string         `db:"poz_name" json:"pozName"`
	Unit     string         `db:"unit" json:"unit"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// Repository provides the read models. Pure read side, no mutation.
type Repository interface {
	// GetProjectReport loads a project with its assignment lines.
	GetProjectReport(ctx context.Context, projectID id.ID) (*ProjectReport, error)

	// GetStockReport loads all central stock lines with poz fields.
	GetStockReport(ctx context.Context) ([]StockReportLine, error)
}

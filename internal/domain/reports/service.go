package reports

import (
	"context"
	"fmt"

	"santiye/internal/core/id"
)

// Service provides report generation.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProjectReport returns the project read model.
func (s *Service) GetProjectReport(ctx context.Context, projectID id.ID) (*ProjectReport, error) {
	report, err := s.repo.GetProjectReport(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project report: %w", err)
	}
	return report, nil
}

// ExportProjectReport renders the project report as an .xlsx workbook.
func (s *Service) ExportProjectReport(ctx context.Context, projectID id.ID) ([]byte, string, error) {
	report, err := s.GetProjectReport(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	data, err := buildProjectWorkbook(report)
	if err != nil {
		return nil, "", fmt.Errorf("build workbook: %w", err)
	}

	name := fmt.Sprintf("proje-%s.xlsx", report.ProjectCode)
	return data, name, nil
}

// ExportStockReport renders the central stock summary as an .xlsx workbook.
func (s *Service) ExportStockReport(ctx context.Context) ([]byte, string, error) {
	lines, err := s.repo.GetStockReport(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("get stock report: %w", err)
	}

	data, err := buildStockWorkbook(lines)
	if err != nil {
		return nil, "", fmt.Errorf("build workbook: %w", err)
	}

	return data, "stok-durumu.xlsx", nil
}

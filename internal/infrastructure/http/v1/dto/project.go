package dto

import (
	"time"

	"santiye/internal/domain/projects"
)

// CreateProjectRequest for creating projects.
type CreateProjectRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	CustomerName string `json:"customerName"`
	Address      string `json:"address"`
	ContractorID string `json:"contractorId"`
}

// UpdateProjectRequest edits project header fields. Nil fields stay unchanged.
type UpdateProjectRequest struct {
	Code         *string `json:"code"`
	Name         *string `json:"name"`
	CustomerName *string `json:"customerName"`
	Address      *string `json:"address"`
	ContractorID *string `json:"contractorId"`
}

// SetProjectStatusRequest moves the project to a new workflow state.
type SetProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddPozRequest attaches a poz to a project.
type AddPozRequest struct {
	PozID    string  `json:"pozId" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID                   string    `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	CustomerName         string    `json:"customerName"`
	Address              string    `json:"address"`
	ContractorID         *string   `json:"contractorId,omitempty"`
	Status               string    `json:"status"`
	TotalPrice           float64   `json:"totalPrice"`
	TotalContractorPrice float64   `json:"totalContractorPrice"`
	CreatedBy            string    `json:"createdBy"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// FromProject converts entity to response DTO.
func FromProject(p *projects.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                   p.ID.String(),
		Code:                 p.Code,
		Name:                 p.Name,
		CustomerName:         p.CustomerName,
		Address:              p.Address,
		Status:               string(p.Status),
		TotalPrice:           p.TotalPrice.InexactFloat64(),
		TotalContractorPrice: p.TotalContractorPrice.InexactFloat64(),
		CreatedBy:            p.CreatedBy.String(),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if p.ContractorID != nil {
		s := p.ContractorID.String()
		resp.ContractorID = &s
	}
	return resp
}

// ProjectListResponse represents a list of projects.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
}

// AssignmentResponse represents a project-poz assignment.
type AssignmentResponse struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	PozID           string    `json:"pozId"`
	Quantity        float64   `json:"quantity"`
	Price           float64   `json:"price"`
	ContractorPrice float64   `json:"contractorPrice"`
	PriceType       string    `json:"priceType"`
	Material        bool      `json:"material"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromAssignment converts entity to response DTO.
func FromAssignment(a *projects.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              a.ID.String(),
		ProjectID:       a.ProjectID.String(),
		PozID:           a.PozID.String(),
		Quantity:        a.Quantity.Float64(),
		Price:           a.Price.InexactFloat64(),
		ContractorPrice: a.ContractorPrice.InexactFloat64(),
		PriceType:       a.PriceType,
		Material:        a.IsMaterial(),
		CreatedBy:       a.CreatedBy.String(),
		CreatedAt:       a.CreatedAt,
	}
}

// AssignmentListResponse represents a list of assignments.
type AssignmentListResponse struct {
	Items []AssignmentResponse `json:"items"`
}

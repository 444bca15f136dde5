// Package projects provides construction project tracking: status workflow,
// running price totals and poz assignments with their stock side effects.
package projects

import (
	"context"
	"strings"
	"time"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// Status is the project workflow state.
type Status string

const (
	StatusInProgress  Status = "İşlemde"
	StatusInApproval  Status = "Onayda"
	StatusReviewed    Status = "İncelendi"
	StatusInstalled   Status = "Montaj Tamam"
	StatusCompleted   Status = "Tamamlandı"
	StatusRework      Status = "Islah ve Düzenleme"
	StatusOnHold      Status = "Beklemede"
	StatusArchived    Status = "Arşivde"
)

// Statuses lists every valid workflow state.
var Statuses = []Status{
	StatusInProgress, StatusInApproval, StatusReviewed, StatusInstalled,
	StatusCompleted, StatusRework, StatusOnHold, StatusArchived,
}

// IsValidStatus reports whether s is a known workflow state.
func IsValidStatus(s Status) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project tracks one construction job. TotalPrice and TotalContractorPrice
// are running totals derived from the project's poz assignments.
type Project struct {
	ID id.ID `db:"id" json:"id"`

	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	// Customer fields
	CustomerName string `db:"customer_name" json:"customerName"`
	Address      string `db:"address" json:"address"`

	// ContractorID is the subcontractor assigned to the project, if any.
	// Its price overrides feed the contractor price snapshots.
	ContractorID *id.ID `db:"contractor_id" json:"contractorId,omitempty"`

	Status Status `db:"status" json:"status"`

	TotalPrice           types.Money `db:"total_price" json:"totalPrice"`
	TotalContractorPrice types.Money `db:"total_contractor_price" json:"totalContractorPrice"`

	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewProject creates a project in the initial workflow state.
func NewProject(code, name string, createdBy id.ID) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:                   id.New(),
		Code:                 code,
		Name:                 name,
		Status:               StatusInProgress,
		TotalPrice:           types.ZeroMoney(),
		TotalContractorPrice: types.ZeroMoney(),
		CreatedBy:            createdBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Validate checks project invariants.
func (p *Project) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !IsValidStatus(p.Status) {
		return apperror.NewValidation("invalid project status").
			WithDetail("field", "status").
			WithDetail("value", string(p.Status))
	}
	return nil
}

// Assignment links a poz to a project with a quantity and price snapshots
// captured at assignment time. Deleting an assignment reverses the stock
// consumption it caused.
type Assignment struct {
	ID        id.ID `db:"id" json:"id"`
	ProjectID id.ID `db:"project_id" json:"projectId"`
	PozID     id.ID `db:"poz_id" json:"pozId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Price snapshots taken at assignment time; later catalog edits do not
	// change them.
	Price           types.Money `db:"price" json:"price"`
	ContractorPrice types.Money `db:"contractor_price" json:"contractorPrice"`

	// PriceType snapshot decides whether deletion must reverse stock
	// consumption even if the catalog entry changed in the meantime.
	PriceType string `db:"price_type" json:"priceType"`

	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// IsMaterial reports whether the assignment consumed physical stock.
func (a *Assignment) IsMaterial() bool {
	return strings.Contains(a.PriceType, "M")
}

// InternalTotal is quantity × internal price.
func (a *Assignment) InternalTotal() types.Money {
	return a.Price.Mul(a.Quantity.Decimal())
}

// ContractorTotal is quantity × contractor price.
func (a *Assignment) ContractorTotal() types.Money {
	return a.ContractorPrice.Mul(a.Quantity.Decimal())
}

package dto

import (
	"time"

	"santiye/internal/domain/ledger"
)

// ReplenishRequest adds stock to the central store. A negative amount is a
// stock correction.
type ReplenishRequest struct {
	PozID  string  `json:"pozId" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// TransferRequest moves central stock to a user.
type TransferRequest struct {
	PozID       string  `json:"pozId" binding:"required"`
	UserID      string  `json:"userId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	DocumentURL string  `json:"documentUrl"`
}

// RefundRequest moves user stock back to the central store.
type RefundRequest struct {
	PozID       string  `json:"pozId" binding:"required"`
	UserID      string  `json:"userId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	DocumentURL string  `json:"documentUrl"`
}

// CentralStockResponse represents a central stock record.
type CentralStockResponse struct {
	PozID     string    `json:"pozId"`
	Quantity  float64   `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromCentralStock converts entity to response DTO.
func FromCentralStock(s ledger.CentralStock) CentralStockResponse {
	return CentralStockResponse{
		PozID:     s.PozID.String(),
		Quantity:  s.Quantity.Float64(),
		UpdatedAt: s.UpdatedAt,
	}
}

// UserStockResponse represents a per-user stock record.
type UserStockResponse struct {
	UserID    string    `json:"userId"`
	PozID     string    `json:"pozId"`
	Quantity  float64   `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUserStock converts entity to response DTO.
func FromUserStock(s ledger.UserStock) UserStockResponse {
	return UserStockResponse{
		UserID:    s.UserID.String(),
		PozID:     s.PozID.String(),
		Quantity:  s.Quantity.Float64(),
		UpdatedAt: s.UpdatedAt,
	}
}

// MovementLogResponse represents one movement log entry.
type MovementLogResponse struct {
	ID              string    `json:"id"`
	CreatorID       string    `json:"creatorId"`
	UserID          *string   `json:"userId,omitempty"`
	PozID           string    `json:"pozId"`
	TransactionType string    `json:"transactionType"`
	Quantity        float64   `json:"quantity"`
	DocumentURL     *string   `json:"documentUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromMovementLogEntry converts entity to response DTO.
func FromMovementLogEntry(e ledger.MovementLogEntry) MovementLogResponse {
	resp := MovementLogResponse{
		ID:              e.ID.String(),
		CreatorID:       e.CreatorID.String(),
		PozID:           e.PozID.String(),
		TransactionType: string(e.TransactionType),
		Quantity:        e.Quantity.Float64(),
		DocumentURL:     e.DocumentURL,
		CreatedAt:       e.CreatedAt,
	}
	if e.UserID != nil {
		s := e.UserID.String()
		resp.UserID = &s
	}
	return resp
}

// CentralStockListResponse represents the central stock listing.
type CentralStockListResponse struct {
	Items []CentralStockResponse `json:"items"`
}

// UserStockListResponse represents a user's stock listing.
type UserStockListResponse struct {
	Items []UserStockResponse `json:"items"`
}

// MovementLogListResponse represents a movement log listing.
type MovementLogListResponse struct {
	Items []MovementLogResponse `json:"items"`
}

// Package ledger provides the stock ledger: central warehouse stock,
// per-user stock and the append-only movement log.
package ledger

import (
	"time"

	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// TransactionType labels a movement log entry.
type TransactionType string

const (
	// TransactionIssue moves quantity from central stock to a user ("Satın Alım").
	TransactionIssue TransactionType = "Satın Alım"
	// TransactionRefund moves quantity from a user back to central stock ("İade").
	TransactionRefund TransactionType = "İade"
	// TransactionReplenish restocks central stock ("Stok Girişi").
	TransactionReplenish TransactionType = "Stok Girişi"
)

// CentralStock is the shared warehouse quantity for one poz.
// At most one record per poz; created lazily on first replenishment.
type CentralStock struct {
	PozID     id.ID          `db:"poz_id" json:"pozId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// UserStock is the quantity checked out to one user for one poz.
// Created lazily on first transfer or consumption. Quantity may be negative:
// project consumption is allowed to requisition material before it is
// physically transferred (preserved behavior, see ConsumeForProjectPoz).
type UserStock struct {
	UserID    id.ID          `db:"user_id" json:"userId"`
	PozID     id.ID          `db:"poz_id" json:"pozId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// MovementLogEntry records one replenishment, transfer or refund.
// Entries are immutable: they are never updated or deleted.
type MovementLogEntry struct {
	ID id.ID `db:"id" json:"id"`

	// CreatorID is the actor who performed the operation.
	CreatorID id.ID `db:"creator_id" json:"creatorId"`

	// UserID is the counterparty user for transfers and refunds.
	UserID *id.ID `db:"user_id" json:"userId,omitempty"`

	PozID id.ID `db:"poz_id" json:"pozId"`

	TransactionType TransactionType `db:"transaction_type" json:"transactionType"`

	// Quantity is the movement delta. Positive for issues/refunds; a
	// replenishment may carry a negative quantity (stock correction).
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// DocumentURL is an opaque reference to an attached document on the CDN.
	DocumentURL *string `db:"document_url" json:"documentUrl,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementLogEntry creates a log entry with a generated ID.
func NewMovementLogEntry(creatorID, pozID id.ID, txType TransactionType, qty types.Quantity) MovementLogEntry {
	return MovementLogEntry{
		ID:              id.New(),
		CreatorID:       creatorID,
		PozID:           pozID,
		TransactionType: txType,
		Quantity:        qty,
		CreatedAt:       time.Now().UTC(),
	}
}

// WithUser sets the counterparty user.
func (e MovementLogEntry) WithUser(userID id.ID) MovementLogEntry {
	e.UserID = &userID
	return e
}

// WithDocument sets the attached document reference.
func (e MovementLogEntry) WithDocument(url string) MovementLogEntry {
	if url != "" {
		e.DocumentURL = &url
	}
	return e
}

package ledger

import (
	"context"
	"time"

	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// Repository defines persistence operations for the stock ledger.
//
// Absent balance records are returned as zero-quantity values, never as
// errors: stock rows are created lazily on first write.
type Repository interface {
	// Central stock

	// GetCentral returns the central stock record for a poz.
	GetCentral(ctx context.Context, pozID id.ID) (CentralStock, error)

	// GetCentralForUpdate returns the central record with a row lock.
	// Must be called inside a transaction.
	GetCentralForUpdate(ctx context.Context, pozID id.ID) (CentralStock, error)

	// ApplyCentralDelta upserts the central record and adds delta to its
	// quantity, returning the updated record.
	ApplyCentralDelta(ctx context.Context, pozID id.ID, delta types.Quantity) (CentralStock, error)

	// ListCentral returns all central stock records.
	ListCentral(ctx context.Context) ([]CentralStock, error)

	// User stock

	// GetUserStock returns the stock record for (user, poz).
	GetUserStock(ctx context.Context, userID, pozID id.ID) (UserStock, error)

	// GetUserStockForUpdate returns the record with a row lock.
	GetUserStockForUpdate(ctx context.Context, userID, pozID id.ID) (UserStock, error)

	// ApplyUserDelta upserts the (user, poz) record and adds delta to its
	// quantity, returning the updated record.
	ApplyUserDelta(ctx context.Context, userID, pozID id.ID, delta types.Quantity) (UserStock, error)

	// ListUserStock returns all stock records for one user.
	ListUserStock(ctx context.Context, userID id.ID) ([]UserStock, error)

	// Movement log

	// AppendLog inserts an immutable movement log entry.
	AppendLog(ctx context.Context, entry MovementLogEntry) error

	// ListLog returns log entries matching the filter, newest first.
	ListLog(ctx context.Context, filter LogFilter) ([]MovementLogEntry, error)
}

// LogFilter narrows movement log queries.
type LogFilter struct {
	TransactionType *TransactionType
	PozID           *id.ID
	UserID          *id.ID
	FromDate        *time.Time
	ToDate          *time.Time
	Limit           int
	Offset          int
}

// Package audit defines the audit trail contract used by domain services.
// The trail is write-only: entries are recorded, never replayed.
package audit

import (
	"context"

	"santiye/internal/core/id"
)

// Action is the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Recorder persists audit entries. Implementations must not fail the
// business operation: recording errors are logged by the implementation.
type Recorder interface {
	// Record stores an audit entry for a mutation of entityType/entityID.
	// changes is serialized to JSON by the implementation.
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes any) error
}

// Noop is a Recorder that discards entries. Used in tests and tooling.
type Noop struct{}

// Record implements Recorder.
func (Noop) Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes any) error {
	return nil
}

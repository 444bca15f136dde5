package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"santiye/internal/core/id"
	appctx "santiye/internal/core/context"
	"santiye/internal/domain/audit"
	"santiye/pkg/logger"
)

const auditTable = "audit_entries"

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// defaultCompressThreshold is the payload size above which changes are
// stored zstd-compressed instead of as plain JSONB.
const defaultCompressThreshold = 10 * 1024

// AuditEntry is a single stored audit record. Append-only: entries are
// written once and never replayed or mutated.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            audit.Action    `db:"action"`
	UserID            *id.ID          `db:"user_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService persists audit entries, compressing large change payloads.
// Implements audit.Recorder.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	compressThreshold int
}

var _ audit.Recorder = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

// Record stores an audit entry. Recording failures are logged and swallowed:
// the audit trail must never fail the business operation it documents.
func (s *AuditService) Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, changes any) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		logger.Warn(ctx, "audit payload marshal failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
		return nil
	}

	entry := AuditEntry{
		ID:              id.New(),
		EntityType:      entityType,
		EntityID:        entityID,
		Action:          action,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if user := appctx.GetUser(ctx); user != nil {
		uid := user.UserID
		entry.UserID = &uid
	}

	if len(payload) > s.compressThreshold {
		entry.ChangesCompressed = s.encoder.EncodeAll(payload, nil)
		entry.CompressionAlgo = CompressionZstd
	} else {
		entry.Changes = payload
	}

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, `
		INSERT INTO `+auditTable+`
			(id, entity_type, entity_id, action, user_id, changes, changes_compressed, compression_algo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.UserID,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		logger.Warn(ctx, "audit insert failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
	return nil
}

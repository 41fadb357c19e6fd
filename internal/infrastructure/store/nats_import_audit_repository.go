// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/utils"
)

// NatsImportAuditRepository is the NATS KV store repository for
// reconciliation run audits. Audits are append-only; each run gets its own
// key compounded from session UID and audit UID.
type NatsImportAuditRepository struct {
	*NatsBaseRepository[models.AttendanceImportAudit]
	keyBuilder *KeyBuilder
}

// NewNatsImportAuditRepository creates a new NATS KV import audit repository.
func NewNatsImportAuditRepository(kvStore INatsKeyValue) *NatsImportAuditRepository {
	return &NatsImportAuditRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.AttendanceImportAudit](kvStore, "import audit"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// Create stores a new audit entry, assigning its UID and creation timestamp.
func (r *NatsImportAuditRepository) Create(ctx context.Context, audit *models.AttendanceImportAudit) error {
	if audit == nil || audit.SessionUID == "" {
		return domain.NewValidationError("session UID is required")
	}

	if audit.UID == "" {
		audit.UID = uuid.New().String()
	}
	if audit.CreatedAt == nil {
		audit.CreatedAt = utils.TimePtr(time.Now().UTC())
	}

	return r.Put(ctx, r.keyBuilder.ImportAuditKey(audit.SessionUID, audit.UID), audit)
}

// ListBySession lists every audit entry of a session.
func (r *NatsImportAuditRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceImportAudit, error) {
	return r.ListEntitiesEncoded(ctx, r.keyBuilder.SessionRecordsPattern(sessionUID), r.keyBuilder)
}

var _ domain.ImportAuditRepository = (*NatsImportAuditRepository)(nil)

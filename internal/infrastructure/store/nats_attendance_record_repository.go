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

// NatsAttendanceRecordRepository is the NATS KV store repository for
// attendance records. The key is the base64-encoded compound of session UID
// and participant email, so re-running reconciliation for a session
// overwrites each participant's record in place.
type NatsAttendanceRecordRepository struct {
	*NatsBaseRepository[models.AttendanceRecord]
	keyBuilder *KeyBuilder
}

// NewNatsAttendanceRecordRepository creates a new NATS KV attendance record
// repository.
func NewNatsAttendanceRecordRepository(kvStore INatsKeyValue) *NatsAttendanceRecordRepository {
	return &NatsAttendanceRecordRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.AttendanceRecord](kvStore, "attendance record"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// Upsert writes a record under its session/email key. When a record already
// exists for the pair, its UID and creation timestamp are preserved so the
// record's identity is stable across re-imports.
func (r *NatsAttendanceRecordRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	if record == nil || record.SessionUID == "" || record.Email == "" {
		return domain.NewValidationError("session UID and email are required")
	}

	key := r.keyBuilder.AttendanceRecordKey(record.SessionUID, record.Email)
	now := time.Now().UTC()

	existing, err := r.Get(ctx, key)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return err
	}
	if existing != nil {
		record.UID = existing.UID
		record.CreatedAt = existing.CreatedAt
	}
	if record.UID == "" {
		record.UID = uuid.New().String()
	}
	if record.CreatedAt == nil {
		record.CreatedAt = utils.TimePtr(now)
	}
	record.UpdatedAt = utils.TimePtr(now)

	return r.Put(ctx, key, record)
}

// GetBySessionAndEmail retrieves the record for a session/email pair.
func (r *NatsAttendanceRecordRepository) GetBySessionAndEmail(ctx context.Context, sessionUID, email string) (*models.AttendanceRecord, error) {
	return r.Get(ctx, r.keyBuilder.AttendanceRecordKey(sessionUID, email))
}

// ListBySession lists every attendance record of a session.
func (r *NatsAttendanceRecordRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceRecord, error) {
	return r.ListEntitiesEncoded(ctx, r.keyBuilder.SessionRecordsPattern(sessionUID), r.keyBuilder)
}

var _ domain.AttendanceRecordRepository = (*NatsAttendanceRecordRepository)(nil)

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// NatsSessionRepository is the NATS KV store repository for scheduled
// sessions. Sessions are provisioned by the scheduling service and read-only
// here; the key is the session UID.
type NatsSessionRepository struct {
	*NatsBaseRepository[models.Session]
}

// NewNatsSessionRepository creates a new NATS KV sessions repository.
func NewNatsSessionRepository(kvStore INatsKeyValue) *NatsSessionRepository {
	return &NatsSessionRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Session](kvStore, "session"),
	}
}

// Get retrieves a session by UID.
func (r *NatsSessionRepository) Get(ctx context.Context, sessionUID string) (*models.Session, error) {
	return r.NatsBaseRepository.Get(ctx, sessionUID)
}

// Exists checks whether a session exists.
func (r *NatsSessionRepository) Exists(ctx context.Context, sessionUID string) (bool, error) {
	return r.NatsBaseRepository.Exists(ctx, sessionUID)
}

// ListAll lists every session in the bucket.
func (r *NatsSessionRepository) ListAll(ctx context.Context) ([]*models.Session, error) {
	return r.ListEntities(ctx)
}

var _ domain.SessionRepository = (*NatsSessionRepository)(nil)

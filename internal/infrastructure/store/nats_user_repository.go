// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV store repository for registered users.
// The user table is provisioned by the identity service and read-only here;
// the key is the base64-encoded registered email.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
	keyBuilder *KeyBuilder
}

// NewNatsUserRepository creates a new NATS KV users repository.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// GetByEmail retrieves a user by registered email.
func (r *NatsUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.Get(ctx, r.keyBuilder.UserEmailKey(email))
}

// ListByEmails batch-resolves the given emails. Emails with no registered
// user are absent from the returned map; lookup failures other than
// not-found fail the batch.
func (r *NatsUserRepository) ListByEmails(ctx context.Context, emails []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(emails))
	for _, email := range emails {
		user, err := r.GetByEmail(ctx, email)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				continue
			}
			return nil, err
		}
		users[email] = user
	}
	return users, nil
}

var _ domain.UserRepository = (*NatsUserRepository)(nil)

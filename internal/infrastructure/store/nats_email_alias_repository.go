// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/redaction"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/utils"
)

// NatsEmailAliasRepository is the NATS KV store repository for email aliases.
// The key is the base64-encoded alias email, so each alias email maps to at
// most one user.
type NatsEmailAliasRepository struct {
	*NatsBaseRepository[models.EmailAlias]
	keyBuilder *KeyBuilder
}

// NewNatsEmailAliasRepository creates a new NATS KV email alias repository.
func NewNatsEmailAliasRepository(kvStore INatsKeyValue) *NatsEmailAliasRepository {
	return &NatsEmailAliasRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.EmailAlias](kvStore, "email alias"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// GetByAliasEmail retrieves an alias by alias email.
func (r *NatsEmailAliasRepository) GetByAliasEmail(ctx context.Context, email string) (*models.EmailAlias, error) {
	return r.Get(ctx, r.keyBuilder.AliasEmailKey(email))
}

// ListByAliasEmails batch-resolves the given alias emails. Emails with no
// alias are absent from the returned map; lookup failures other than
// not-found fail the batch.
func (r *NatsEmailAliasRepository) ListByAliasEmails(ctx context.Context, emails []string) (map[string]*models.EmailAlias, error) {
	aliases := make(map[string]*models.EmailAlias, len(emails))
	for _, email := range emails {
		alias, err := r.GetByAliasEmail(ctx, email)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				continue
			}
			return nil, err
		}
		aliases[email] = alias
	}
	return aliases, nil
}

// Create stores a new alias. An alias email can only ever point at one user,
// so creating over an existing alias is a conflict.
func (r *NatsEmailAliasRepository) Create(ctx context.Context, alias *models.EmailAlias) error {
	if alias == nil || alias.AliasEmail == "" || alias.UserUID == "" {
		return domain.NewValidationError("alias email and user UID are required")
	}

	key := r.keyBuilder.AliasEmailKey(alias.AliasEmail)
	exists, err := r.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflictError(
			fmt.Sprintf("alias '%s' already exists", redaction.RedactEmail(alias.AliasEmail)))
	}

	if alias.CreatedAt == nil {
		alias.CreatedAt = utils.TimePtr(time.Now().UTC())
	}

	return r.Put(ctx, key, alias)
}

var _ domain.EmailAliasRepository = (*NatsEmailAliasRepository)(nil)

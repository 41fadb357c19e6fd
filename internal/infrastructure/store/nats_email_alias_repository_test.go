// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

func TestEmailAliasCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and retrieves alias", func(t *testing.T) {
		repo := NewNatsEmailAliasRepository(newMockKeyValue())

		alias := &models.EmailAlias{
			AliasEmail: "jdoe@personal.example.com",
			UserUID:    "user-1",
			CreatedBy:  "admin",
		}
		require.NoError(t, repo.Create(ctx, alias))
		assert.NotNil(t, alias.CreatedAt)

		stored, err := repo.GetByAliasEmail(ctx, "jdoe@personal.example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", stored.UserUID)
	})

	t.Run("rejects duplicate alias", func(t *testing.T) {
		repo := NewNatsEmailAliasRepository(newMockKeyValue())

		require.NoError(t, repo.Create(ctx, &models.EmailAlias{
			AliasEmail: "jdoe@personal.example.com",
			UserUID:    "user-1",
		}))

		err := repo.Create(ctx, &models.EmailAlias{
			AliasEmail: "jdoe@personal.example.com",
			UserUID:    "user-2",
		})
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		repo := NewNatsEmailAliasRepository(newMockKeyValue())

		err := repo.Create(ctx, &models.EmailAlias{AliasEmail: "jdoe@personal.example.com"})
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

func TestEmailAliasListByAliasEmails(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsEmailAliasRepository(newMockKeyValue())

	require.NoError(t, repo.Create(ctx, &models.EmailAlias{
		AliasEmail: "jdoe@personal.example.com",
		UserUID:    "user-1",
	}))
	require.NoError(t, repo.Create(ctx, &models.EmailAlias{
		AliasEmail: "asmith@personal.example.com",
		UserUID:    "user-2",
	}))

	aliases, err := repo.ListByAliasEmails(ctx, []string{
		"jdoe@personal.example.com",
		"unknown@example.com",
		"asmith@personal.example.com",
	})
	require.NoError(t, err)
	require.Len(t, aliases, 2)
	assert.Equal(t, "user-1", aliases["jdoe@personal.example.com"].UserUID)
	assert.Equal(t, "user-2", aliases["asmith@personal.example.com"].UserUID)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

func seedUser(t *testing.T, kv *mockKeyValue, user *models.User) {
	t.Helper()
	data, err := json.Marshal(user)
	require.NoError(t, err)
	key := NewKeyBuilder().UserEmailKey(user.Email)
	_, err = kv.Put(context.Background(), key, data)
	require.NoError(t, err)
}

func TestUserGetByEmail(t *testing.T) {
	ctx := context.Background()
	kv := newMockKeyValue()
	repo := NewNatsUserRepository(kv)

	seedUser(t, kv, &models.User{UID: "user-1", Email: "jdoe@example.com"})

	user, err := repo.GetByEmail(ctx, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UID)

	_, err = repo.GetByEmail(ctx, "unknown@example.com")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestUserListByEmails(t *testing.T) {
	ctx := context.Background()
	kv := newMockKeyValue()
	repo := NewNatsUserRepository(kv)

	seedUser(t, kv, &models.User{UID: "user-1", Email: "jdoe@example.com"})
	seedUser(t, kv, &models.User{UID: "user-2", Email: "asmith@example.com"})

	users, err := repo.ListByEmails(ctx, []string{
		"jdoe@example.com",
		"unknown@example.com",
		"asmith@example.com",
	})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user-1", users["jdoe@example.com"].UID)
	assert.Equal(t, "user-2", users["asmith@example.com"].UID)
	assert.NotContains(t, users, "unknown@example.com")
}

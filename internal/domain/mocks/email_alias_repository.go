// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MockEmailAliasRepository implements EmailAliasRepository for testing
type MockEmailAliasRepository struct {
	mock.Mock
}

func (m *MockEmailAliasRepository) GetByAliasEmail(ctx context.Context, email string) (*models.EmailAlias, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAlias), args.Error(1)
}

func (m *MockEmailAliasRepository) ListByAliasEmails(ctx context.Context, emails []string) (map[string]*models.EmailAlias, error) {
	args := m.Called(ctx, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.EmailAlias), args.Error(1)
}

func (m *MockEmailAliasRepository) Create(ctx context.Context, alias *models.EmailAlias) error {
	args := m.Called(ctx, alias)
	return args.Error(0)
}

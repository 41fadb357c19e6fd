// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MockImportAuditRepository implements ImportAuditRepository for testing
type MockImportAuditRepository struct {
	mock.Mock
}

func (m *MockImportAuditRepository) Create(ctx context.Context, audit *models.AttendanceImportAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockImportAuditRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceImportAudit, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceImportAudit), args.Error(1)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MockAttendanceRecordRepository implements AttendanceRecordRepository for testing
type MockAttendanceRecordRepository struct {
	mock.Mock
}

func (m *MockAttendanceRecordRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRecordRepository) GetBySessionAndEmail(ctx context.Context, sessionUID, email string) (*models.AttendanceRecord, error) {
	args := m.Called(ctx, sessionUID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRecordRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceRecord, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceRecord), args.Error(1)
}

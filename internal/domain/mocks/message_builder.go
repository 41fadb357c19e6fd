// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, record models.AttendanceRecord) error {
	args := m.Called(ctx, action, record)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendAttendanceImportCompleted(ctx context.Context, message models.AttendanceImportCompletedMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MockMeetingProvider implements MeetingProvider for testing
type MockMeetingProvider struct {
	mock.Mock
}

func (m *MockMeetingProvider) GetPastMeetingDetails(ctx context.Context, meetingUID string) (*models.PastMeetingDetails, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PastMeetingDetails), args.Error(1)
}

func (m *MockMeetingProvider) GetParticipantEvents(ctx context.Context, meetingUID string) ([]models.RawParticipantEvent, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawParticipantEvent), args.Error(1)
}

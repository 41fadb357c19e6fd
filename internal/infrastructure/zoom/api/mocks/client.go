// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mocks contains testify mocks for the Zoom API client.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/zoom/api"
)

// MockClientAPI is a mock implementation of the api.ClientAPI interface.
type MockClientAPI struct {
	mock.Mock
}

// GetPastMeeting mocks the GetPastMeeting method.
func (m *MockClientAPI) GetPastMeeting(ctx context.Context, meetingUID string) (*api.PastMeeting, error) {
	args := m.Called(ctx, meetingUID)
	if meeting, ok := args.Get(0).(*api.PastMeeting); ok {
		return meeting, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetMeetingParticipants mocks the GetMeetingParticipants method.
func (m *MockClientAPI) GetMeetingParticipants(ctx context.Context, meetingUID string) ([]api.ReportParticipant, error) {
	args := m.Called(ctx, meetingUID)
	if participants, ok := args.Get(0).([]api.ReportParticipant); ok {
		return participants, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ api.ClientAPI = (*MockClientAPI)(nil)

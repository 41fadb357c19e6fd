// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/zoom/api/mocks"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/utils"
)

func TestGetPastMeetingDetails(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	t.Run("maps meeting fields", func(t *testing.T) {
		client := &mocks.MockClientAPI{}
		client.On("GetPastMeeting", ctx, "meeting-1").Return(&api.PastMeeting{
			UUID:      "meeting-1",
			Topic:     "Distributed Systems 101",
			StartTime: start,
			EndTime:   start.Add(55 * time.Minute),
			Duration:  55,
		}, nil)

		provider := NewProvider(client)
		details, err := provider.GetPastMeetingDetails(ctx, "meeting-1")
		require.NoError(t, err)

		assert.Equal(t, "meeting-1", details.MeetingUID)
		assert.Equal(t, "Distributed Systems 101", details.Topic)
		assert.Equal(t, 55, details.DurationMinutes)
		assert.True(t, details.EndTime.Equal(start.Add(55*time.Minute)))
		client.AssertExpectations(t)
	})

	t.Run("wraps client errors as unavailable", func(t *testing.T) {
		client := &mocks.MockClientAPI{}
		client.On("GetPastMeeting", ctx, "meeting-1").Return(nil, errors.New("boom"))

		provider := NewProvider(client)
		_, err := provider.GetPastMeetingDetails(ctx, "meeting-1")
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	})
}

func TestGetParticipantEvents(t *testing.T) {
	ctx := context.Background()
	join := time.Date(2026, 3, 10, 14, 2, 0, 0, time.UTC)

	t.Run("maps report entries including open leave times", func(t *testing.T) {
		client := &mocks.MockClientAPI{}
		client.On("GetMeetingParticipants", ctx, "meeting-1").Return([]api.ReportParticipant{
			{
				UserEmail: "jdoe@example.com",
				Name:      "Jo Doe",
				JoinTime:  join,
				LeaveTime: utils.TimePtr(join.Add(40 * time.Minute)),
			},
			{
				UserEmail: "asmith@example.com",
				Name:      "A. Smith",
				JoinTime:  join.Add(5 * time.Minute),
				LeaveTime: nil,
			},
		}, nil)

		provider := NewProvider(client)
		events, err := provider.GetParticipantEvents(ctx, "meeting-1")
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, "jdoe@example.com", events[0].Email)
		require.NotNil(t, events[0].LeaveTime)
		assert.Nil(t, events[1].LeaveTime)
		client.AssertExpectations(t)
	})

	t.Run("wraps client errors as unavailable", func(t *testing.T) {
		client := &mocks.MockClientAPI{}
		client.On("GetMeetingParticipants", ctx, "meeting-1").Return(nil, errors.New("boom"))

		provider := NewProvider(client)
		_, err := provider.GetParticipantEvents(ctx, "meeting-1")
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	})
}

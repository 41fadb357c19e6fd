// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MeetingProvider is the meeting platform client the attendance engine pulls
// raw participant data from. Implementations wrap provider API clients and
// are treated as black boxes by the engine.
type MeetingProvider interface {
	// GetPastMeetingDetails returns the provider-reported start, end and
	// duration of a finished meeting.
	GetPastMeetingDetails(ctx context.Context, meetingUID string) (*models.PastMeetingDetails, error)
	// GetParticipantEvents returns the raw join/leave records of a finished
	// meeting. Participants that joined multiple times appear multiple times.
	GetParticipantEvents(ctx context.Context, meetingUID string) ([]models.RawParticipantEvent, error)
}

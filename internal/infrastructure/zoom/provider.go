// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package zoom adapts the Zoom API client to the meeting provider port of
// the attendance engine.
package zoom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
)

// Provider implements the meeting provider port on top of the Zoom API.
type Provider struct {
	client api.ClientAPI
}

// NewProvider creates a new Zoom-backed meeting provider.
func NewProvider(client api.ClientAPI) *Provider {
	return &Provider{client: client}
}

var _ domain.MeetingProvider = (*Provider)(nil)

// GetPastMeetingDetails returns the provider-reported facts about a finished
// meeting.
func (p *Provider) GetPastMeetingDetails(ctx context.Context, meetingUID string) (*models.PastMeetingDetails, error) {
	meeting, err := p.client.GetPastMeeting(ctx, meetingUID)
	if err != nil {
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("failed to fetch past meeting '%s' from Zoom", meetingUID), err)
	}

	return &models.PastMeetingDetails{
		MeetingUID:      meetingUID,
		Topic:           meeting.Topic,
		StartTime:       meeting.StartTime,
		EndTime:         meeting.EndTime,
		DurationMinutes: meeting.Duration,
	}, nil
}

// GetParticipantEvents returns every raw join/leave entry of a finished
// meeting. Entries with no email are passed through; the engine decides how
// to treat malformed events.
func (p *Provider) GetParticipantEvents(ctx context.Context, meetingUID string) ([]models.RawParticipantEvent, error) {
	participants, err := p.client.GetMeetingParticipants(ctx, meetingUID)
	if err != nil {
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("failed to fetch participant report for meeting '%s' from Zoom", meetingUID), err)
	}

	events := make([]models.RawParticipantEvent, 0, len(participants))
	for _, participant := range participants {
		events = append(events, models.RawParticipantEvent{
			Email:       participant.UserEmail,
			DisplayName: participant.Name,
			JoinTime:    participant.JoinTime,
			LeaveTime:   participant.LeaveTime,
		})
	}

	slog.DebugContext(logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID)),
		"fetched participant report from Zoom",
		"event_count", len(events),
	)

	return events, nil
}

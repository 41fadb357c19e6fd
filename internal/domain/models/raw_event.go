// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// RawParticipantEvent is one join/leave pair reported by the meeting provider
// for one participant instance within one meeting. A nil LeaveTime means the
// participant was still connected when the data was pulled.
type RawParticipantEvent struct {
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	JoinTime    time.Time  `json:"join_time"`
	LeaveTime   *time.Time `json:"leave_time,omitempty"`
}

// PastMeetingDetails holds the provider-reported facts about a finished
// meeting that the reconciliation run needs.
type PastMeetingDetails struct {
	MeetingUID      string    `json:"meeting_uid"`
	Topic           string    `json:"topic"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

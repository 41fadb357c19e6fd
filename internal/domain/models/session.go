// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Session represents a scheduled session whose attendance gets reconciled
// against the meeting provider's participant data.
type Session struct {
	UID                      string     `json:"uid"`
	MeetingUID               string     `json:"meeting_uid"`
	Title                    string     `json:"title,omitempty"`
	ScheduledStart           time.Time  `json:"scheduled_start"`
	ScheduledDurationMinutes int        `json:"scheduled_duration_minutes"`
	CreatedAt                *time.Time `json:"created_at,omitempty"`
	UpdatedAt                *time.Time `json:"updated_at,omitempty"`
}

// ScheduledEnd returns the scheduled end time of the session.
func (s *Session) ScheduledEnd() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.ScheduledStart.Add(time.Duration(s.ScheduledDurationMinutes) * time.Minute)
}

// SessionWindow is the time bounds used by one reconciliation run. The
// actual bounds come from the meeting provider when available; the scheduled
// bounds are kept for fallback and audit.
type SessionWindow struct {
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	ActualStart    time.Time `json:"actual_start"`
	ActualEnd      time.Time `json:"actual_end"`
}

// ActualDuration returns the length of the actual window.
func (w SessionWindow) ActualDuration() time.Duration {
	return w.ActualEnd.Sub(w.ActualStart)
}

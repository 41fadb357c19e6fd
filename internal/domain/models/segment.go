// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Segment is a single contiguous interval [JoinTime, LeaveTime) during which
// one participant was connected. Segments belonging to the same participant
// are non-overlapping and join-time ascending once merged.
type Segment struct {
	JoinTime  time.Time `json:"join_time"`
	LeaveTime time.Time `json:"leave_time"`
}

// Duration returns the length of the segment.
func (s Segment) Duration() time.Duration {
	return s.LeaveTime.Sub(s.JoinTime)
}

// ClippedDuration returns the segment length truncated to the given end time.
// A segment entirely past the end contributes zero.
func (s Segment) ClippedDuration(end time.Time) time.Duration {
	if !s.JoinTime.Before(end) {
		return 0
	}
	leave := s.LeaveTime
	if leave.After(end) {
		leave = end
	}
	return leave.Sub(s.JoinTime)
}

// ParticipantRecord aggregates all merged segments for one resolved identity,
// or for one unresolved email, within one reconciliation run.
type ParticipantRecord struct {
	UserUID     string    `json:"user_uid,omitempty"` // empty means unmatched
	Email       string    `json:"email"`              // representative (first-seen) normalized email
	DisplayName string    `json:"display_name,omitempty"`
	Segments    []Segment `json:"segments"` // join-time ascending, non-overlapping
}

// FirstJoin returns the earliest join time across the participant's segments.
func (p *ParticipantRecord) FirstJoin() time.Time {
	if p == nil || len(p.Segments) == 0 {
		return time.Time{}
	}
	return p.Segments[0].JoinTime
}

// LastLeave returns the latest leave time across the participant's segments.
func (p *ParticipantRecord) LastLeave() time.Time {
	if p == nil || len(p.Segments) == 0 {
		return time.Time{}
	}
	return p.Segments[len(p.Segments)-1].LeaveTime
}

// TotalDuration returns the sum of the participant's segment durations.
func (p *ParticipantRecord) TotalDuration() time.Duration {
	if p == nil {
		return 0
	}
	var total time.Duration
	for _, segment := range p.Segments {
		total += segment.Duration()
	}
	return total
}

// ClippedDuration returns the sum of segment durations truncated to the given
// end time. Segments extending past the end are truncated, not dropped.
func (p *ParticipantRecord) ClippedDuration(end time.Time) time.Duration {
	if p == nil {
		return 0
	}
	var total time.Duration
	for _, segment := range p.Segments {
		total += segment.ClippedDuration(end)
	}
	return total
}

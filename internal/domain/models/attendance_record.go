// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// AttendanceRecord is the persisted outcome of one participant's attendance
// in one session. One record exists per session and
// resolved-or-unresolved participant; re-running reconciliation with
// unchanged inputs overwrites it with identical values.
type AttendanceRecord struct {
	UID        string `json:"uid"`
	SessionUID string `json:"session_uid"`
	MeetingUID string `json:"meeting_uid"`
	// UserUID is empty for unmatched participants awaiting manual aliasing.
	UserUID     string `json:"user_uid,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	// JoinTime is the earliest segment start; LeaveTime is the latest segment
	// end before clipping, kept for audit.
	JoinTime  time.Time `json:"join_time"`
	LeaveTime time.Time `json:"leave_time"`
	// DurationSeconds is clipped to the session's effective end.
	DurationSeconds      int `json:"duration_seconds"`
	AttendancePercentage int `json:"attendance_percentage"`
	// Segments are the merged pre-clip segments, kept for display and audit.
	Segments  []Segment  `json:"segments,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsMatched reports whether the record resolved to a registered user.
func (r *AttendanceRecord) IsMatched() bool {
	return r != nil && r.UserUID != ""
}

// Tags generates a consistent set of tags for the attendance record, used by
// the indexer messages for searching.
func (r *AttendanceRecord) Tags() []string {
	if r == nil {
		return nil
	}

	tags := []string{}

	if r.UID != "" {
		// without prefix
		tags = append(tags, r.UID)
		// with prefix
		tags = append(tags, fmt.Sprintf("attendance_record_uid:%s", r.UID))
	}

	if r.SessionUID != "" {
		tags = append(tags, fmt.Sprintf("session_uid:%s", r.SessionUID))
	}

	if r.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", r.MeetingUID))
	}

	if r.UserUID != "" {
		tags = append(tags, fmt.Sprintf("user_uid:%s", r.UserUID))
	}

	if r.Email != "" {
		tags = append(tags, fmt.Sprintf("email:%s", r.Email))
	}

	return tags
}

// Import audit statuses.
const (
	ImportStatusCompleted = "completed"
	ImportStatusPartial   = "partial"
	ImportStatusFailed    = "failed"
)

// Sources of the actual duration used by a reconciliation run.
const (
	DurationSourceCaller            = "caller"
	DurationSourceProvider          = "provider"
	DurationSourceScheduledFallback = "scheduled_fallback"
)

// AttendanceImportAudit records the outcome of one reconciliation run so a
// caller can detect silent duration fallback and partial failures later.
type AttendanceImportAudit struct {
	UID                   string     `json:"uid"`
	SessionUID            string     `json:"session_uid"`
	MeetingUID            string     `json:"meeting_uid"`
	Status                string     `json:"status"`
	ImportedCount         int        `json:"imported_count"`
	UnmatchedCount        int        `json:"unmatched_count"`
	FailedWriteCount      int        `json:"failed_write_count"`
	ActualDurationMinutes int        `json:"actual_duration_minutes"`
	DurationSource        string     `json:"duration_source"`
	CliffDetected         bool       `json:"cliff_detected"`
	EffectiveEndMinutes   int        `json:"effective_end_minutes,omitempty"`
	Error                 string     `json:"error,omitempty"`
	CreatedAt             *time.Time `json:"created_at,omitempty"`
}

// AttendanceImportResult is returned to the caller of a reconciliation run.
// Counts reflect only successfully persisted records.
type AttendanceImportResult struct {
	Imported                 int    `json:"imported"`
	Unmatched                int    `json:"unmatched"`
	FailedWrites             int    `json:"failed_writes"`
	ActualDurationUsed       int    `json:"actual_duration_used"` // minutes
	DurationSource           string `json:"duration_source"`
	CliffDetected            bool   `json:"cliff_detected"`
	EffectiveDurationMinutes int    `json:"effective_duration_minutes"`
}

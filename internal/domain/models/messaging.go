// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the attendance service sends messages about.
const (
	// IndexAttendanceRecordSubject is the subject for the attendance record indexing.
	// The subject is of the form: lfx.index.attendance_record
	IndexAttendanceRecordSubject = "lfx.index.attendance_record"

	// AttendanceImportCompletedSubject is the subject for reconciliation run completion events.
	// The subject is of the form: lfx.attendance-api.import_completed
	AttendanceImportCompletedSubject = "lfx.attendance-api.import_completed"
)

// MessageAction is the action of an indexer message.
type MessageAction string

// MessageAction constants.
const (
	ActionCreated MessageAction = "created"
	ActionUpdated MessageAction = "updated"
	ActionDeleted MessageAction = "deleted"
)

// AttendanceIndexerMessage is the envelope sent to the indexing service for
// attendance records.
type AttendanceIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers,omitempty"`
	Data    any               `json:"data"`
	Tags    []string          `json:"tags"`
}

// AttendanceImportCompletedMessage announces the end of a reconciliation run.
type AttendanceImportCompletedMessage struct {
	SessionUID            string `json:"session_uid"`
	MeetingUID            string `json:"meeting_uid"`
	Status                string `json:"status"`
	ImportedCount         int    `json:"imported_count"`
	UnmatchedCount        int    `json:"unmatched_count"`
	FailedWriteCount      int    `json:"failed_write_count"`
	ActualDurationMinutes int    `json:"actual_duration_minutes"`
	CliffDetected         bool   `json:"cliff_detected"`
}

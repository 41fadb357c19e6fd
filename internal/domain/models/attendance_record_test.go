// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceRecordTags(t *testing.T) {
	tests := []struct {
		name     string
		record   *AttendanceRecord
		expected []string
	}{
		{
			name: "full record",
			record: &AttendanceRecord{
				UID:        "record-1",
				SessionUID: "session-1",
				MeetingUID: "meeting-1",
				UserUID:    "user-1",
				Email:      "jdoe@example.com",
			},
			expected: []string{
				"record-1",
				"attendance_record_uid:record-1",
				"session_uid:session-1",
				"meeting_uid:meeting-1",
				"user_uid:user-1",
				"email:jdoe@example.com",
			},
		},
		{
			name: "unmatched record has no user tag",
			record: &AttendanceRecord{
				UID:        "record-1",
				SessionUID: "session-1",
				Email:      "ghost@example.com",
			},
			expected: []string{
				"record-1",
				"attendance_record_uid:record-1",
				"session_uid:session-1",
				"email:ghost@example.com",
			},
		},
		{
			name:     "nil record",
			record:   nil,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.Tags())
		})
	}
}

func TestAttendanceRecordIsMatched(t *testing.T) {
	assert.True(t, (&AttendanceRecord{UserUID: "user-1"}).IsMatched())
	assert.False(t, (&AttendanceRecord{}).IsMatched())

	var record *AttendanceRecord
	assert.False(t, record.IsMatched())
}

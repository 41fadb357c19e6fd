// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/redaction"
)

// SegmentMerger collapses raw join/leave events into non-overlapping,
// time-ordered attendance segments per participant. Pure computation over
// in-memory data.
type SegmentMerger struct{}

// NewSegmentMerger creates a new SegmentMerger.
func NewSegmentMerger() *SegmentMerger {
	return &SegmentMerger{}
}

// MergeParticipantSegments groups raw events by participant and merges each
// group's intervals. The participant key is the resolved user UID when the
// event's normalized email appears in the resolution map, else the
// normalized email itself, so events reported under a registered email and
// an aliased email of the same user end up in one record.
//
// Events still open at data-pull time (nil leave) are closed at actualEnd.
// Zero-length segments are discarded as clock artifacts; participants left
// with no valid segments are dropped entirely.
func (m *SegmentMerger) MergeParticipantSegments(
	ctx context.Context,
	events []models.RawParticipantEvent,
	resolved map[string]string,
	actualEnd time.Time,
) map[string]*models.ParticipantRecord {
	records := make(map[string]*models.ParticipantRecord)

	for _, event := range events {
		email := NormalizeEmail(event.Email)
		if email == "" || event.JoinTime.IsZero() {
			slog.DebugContext(ctx, "skipping malformed participant event",
				"email", redaction.RedactEmail(event.Email),
				"join_time", event.JoinTime)
			continue
		}

		key := email
		if userUID, ok := resolved[email]; ok {
			key = userUID
		}

		record, ok := records[key]
		if !ok {
			record = &models.ParticipantRecord{
				UserUID: resolved[email],
				Email:   email,
			}
			records[key] = record
		}
		if record.DisplayName == "" {
			record.DisplayName = event.DisplayName
		}

		leave := actualEnd
		if event.LeaveTime != nil {
			leave = *event.LeaveTime
		}
		if !leave.After(event.JoinTime) {
			// Zero or negative length, a clock artifact.
			continue
		}

		record.Segments = append(record.Segments, models.Segment{
			JoinTime:  event.JoinTime,
			LeaveTime: leave,
		})
	}

	for key, record := range records {
		if len(record.Segments) == 0 {
			delete(records, key)
			continue
		}
		record.Segments = mergeSegments(record.Segments)
	}

	return records
}

// mergeSegments sorts candidate segments by join time and merges overlapping
// or touching neighbors into a single segment spanning their union.
func mergeSegments(segments []models.Segment) []models.Segment {
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].JoinTime.Before(segments[j].JoinTime)
	})

	merged := segments[:1]
	for _, segment := range segments[1:] {
		last := &merged[len(merged)-1]
		if !segment.JoinTime.After(last.LeaveTime) {
			if segment.LeaveTime.After(last.LeaveTime) {
				last.LeaveTime = segment.LeaveTime
			}
			continue
		}
		merged = append(merged, segment)
	}

	return merged
}

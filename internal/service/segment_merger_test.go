// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/utils"
)

func TestMergeParticipantSegments(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(60 * time.Minute)
	merger := NewSegmentMerger()

	at := func(minutes int) time.Time { return start.Add(time.Duration(minutes) * time.Minute) }
	event := func(email string, join, leave int) models.RawParticipantEvent {
		return models.RawParticipantEvent{
			Email:     email,
			JoinTime:  at(join),
			LeaveTime: utils.TimePtr(at(leave)),
		}
	}

	t.Run("overlapping and disjoint segments merge correctly", func(t *testing.T) {
		events := []models.RawParticipantEvent{
			event("jdoe@example.com", 0, 10),
			event("jdoe@example.com", 8, 20),
			event("jdoe@example.com", 25, 30),
		}

		records := merger.MergeParticipantSegments(ctx, events, nil, end)
		require.Len(t, records, 1)

		record := records["jdoe@example.com"]
		require.NotNil(t, record)
		require.Len(t, record.Segments, 2)
		assert.True(t, record.Segments[0].JoinTime.Equal(at(0)))
		assert.True(t, record.Segments[0].LeaveTime.Equal(at(20)))
		assert.True(t, record.Segments[1].JoinTime.Equal(at(25)))
		assert.True(t, record.Segments[1].LeaveTime.Equal(at(30)))
		assert.Equal(t, 25*time.Minute, record.TotalDuration())
	})

	t.Run("touching segments merge into one", func(t *testing.T) {
		events := []models.RawParticipantEvent{
			event("jdoe@example.com", 0, 10),
			event("jdoe@example.com", 10, 20),
		}

		records := merger.MergeParticipantSegments(ctx, events, nil, end)
		record := records["jdoe@example.com"]
		require.NotNil(t, record)
		require.Len(t, record.Segments, 1)
		assert.Equal(t, 20*time.Minute, record.TotalDuration())
	})

	t.Run("open events close at the actual end", func(t *testing.T) {
		events := []models.RawParticipantEvent{
			{Email: "jdoe@example.com", JoinTime: at(30), LeaveTime: nil},
		}

		records := merger.MergeParticipantSegments(ctx, events, nil, end)
		record := records["jdoe@example.com"]
		require.NotNil(t, record)
		require.Len(t, record.Segments, 1)
		assert.True(t, record.Segments[0].LeaveTime.Equal(end))
	})

	t.Run("events under alias and primary email group into one record", func(t *testing.T) {
		resolved := map[string]string{
			"jdoe@example.com":          "user-1",
			"jdoe@personal.example.com": "user-1",
		}
		events := []models.RawParticipantEvent{
			event("jdoe@example.com", 0, 20),
			event("jdoe@personal.example.com", 30, 50),
		}

		records := merger.MergeParticipantSegments(ctx, events, resolved, end)
		require.Len(t, records, 1)

		record := records["user-1"]
		require.NotNil(t, record)
		assert.Equal(t, "user-1", record.UserUID)
		require.Len(t, record.Segments, 2)
		assert.Equal(t, 40*time.Minute, record.TotalDuration())
	})

	t.Run("email matching is case insensitive", func(t *testing.T) {
		resolved := map[string]string{"jdoe@example.com": "user-1"}
		events := []models.RawParticipantEvent{
			event("JDoe@Example.COM", 0, 20),
			event("jdoe@example.com", 30, 40),
		}

		records := merger.MergeParticipantSegments(ctx, events, resolved, end)
		require.Len(t, records, 1)
		assert.NotNil(t, records["user-1"])
	})

	t.Run("malformed events are skipped", func(t *testing.T) {
		events := []models.RawParticipantEvent{
			{Email: "", JoinTime: at(0), LeaveTime: utils.TimePtr(at(10))},
			{Email: "jdoe@example.com", LeaveTime: utils.TimePtr(at(10))}, // zero join
			event("asmith@example.com", 0, 30),
		}

		records := merger.MergeParticipantSegments(ctx, events, nil, end)
		require.Len(t, records, 1)
		assert.NotNil(t, records["asmith@example.com"])
	})

	t.Run("zero-length segments drop the participant when nothing remains", func(t *testing.T) {
		events := []models.RawParticipantEvent{
			event("jdoe@example.com", 10, 10),
		}

		records := merger.MergeParticipantSegments(ctx, events, nil, end)
		assert.Empty(t, records)
	})

	t.Run("keeps first display name seen", func(t *testing.T) {
		events := []models.RawParticipantEvent{
			{Email: "jdoe@example.com", DisplayName: "Jo Doe", JoinTime: at(0), LeaveTime: utils.TimePtr(at(10))},
			{Email: "jdoe@example.com", DisplayName: "Jo D. (phone)", JoinTime: at(20), LeaveTime: utils.TimePtr(at(30))},
		}

		records := merger.MergeParticipantSegments(ctx, events, nil, end)
		record := records["jdoe@example.com"]
		require.NotNil(t, record)
		assert.Equal(t, "Jo Doe", record.DisplayName)
	})
}

func TestClippedDuration(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return start.Add(time.Duration(minutes) * time.Minute) }

	record := &models.ParticipantRecord{
		Segments: []models.Segment{
			{JoinTime: at(0), LeaveTime: at(30)},
			{JoinTime: at(40), LeaveTime: at(70)},
		},
	}

	// Clipping at minute 60 truncates the second segment to 20 minutes.
	assert.Equal(t, 50*time.Minute, record.ClippedDuration(at(60)))
	// Clipping before the second segment starts drops it entirely.
	assert.Equal(t, 30*time.Minute, record.ClippedDuration(at(35)))
	// Clipping past the end changes nothing.
	assert.Equal(t, 60*time.Minute, record.ClippedDuration(at(90)))
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/utils"
)

type attendanceServiceMocks struct {
	sessionRepo *mocks.MockSessionRepository
	recordRepo  *mocks.MockAttendanceRecordRepository
	auditRepo   *mocks.MockImportAuditRepository
	userRepo    *mocks.MockUserRepository
	aliasRepo   *mocks.MockEmailAliasRepository
	provider    *mocks.MockMeetingProvider
	messaging   *mocks.MockMessageBuilder
}

func newTestAttendanceService() (*AttendanceService, *attendanceServiceMocks) {
	m := &attendanceServiceMocks{
		sessionRepo: &mocks.MockSessionRepository{},
		recordRepo:  &mocks.MockAttendanceRecordRepository{},
		auditRepo:   &mocks.MockImportAuditRepository{},
		userRepo:    &mocks.MockUserRepository{},
		aliasRepo:   &mocks.MockEmailAliasRepository{},
		provider:    &mocks.MockMeetingProvider{},
		messaging:   &mocks.MockMessageBuilder{},
	}

	service := NewAttendanceService(
		m.sessionRepo,
		m.recordRepo,
		m.auditRepo,
		m.provider,
		NewIdentityResolver(m.userRepo, m.aliasRepo),
		NewSegmentMerger(),
		NewCliffDetector(CliffDetectorConfig{}),
		m.messaging,
		ServiceConfig{PersistWorkerCount: 2},
	)
	return service, m
}

func TestCalculateSessionAttendance(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return start.Add(time.Duration(minutes) * time.Minute) }
	session := &models.Session{
		UID:                      "session-1",
		MeetingUID:               "meeting-1",
		ScheduledStart:           start,
		ScheduledDurationMinutes: 60,
	}

	t.Run("imports matched and unmatched participants", func(t *testing.T) {
		service, m := newTestAttendanceService()

		m.sessionRepo.On("Get", mock.Anything, "session-1").Return(session, nil)
		m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").Return(&models.PastMeetingDetails{
			MeetingUID:      "meeting-1",
			StartTime:       start,
			EndTime:         at(60),
			DurationMinutes: 60,
		}, nil)
		m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").Return([]models.RawParticipantEvent{
			{Email: "jdoe@example.com", JoinTime: at(0), LeaveTime: utils.TimePtr(at(50))},
			{Email: "asmith@example.com", JoinTime: at(5), LeaveTime: utils.TimePtr(at(60))},
			{Email: "ghost@example.com", JoinTime: at(0), LeaveTime: utils.TimePtr(at(30))},
		}, nil)
		m.userRepo.On("ListByEmails", mock.Anything, mock.Anything).Return(map[string]*models.User{
			"jdoe@example.com":   {UID: "user-1"},
			"asmith@example.com": {UID: "user-2"},
		}, nil)
		m.aliasRepo.On("ListByAliasEmails", mock.Anything, []string{"ghost@example.com"}).
			Return(map[string]*models.EmailAlias{}, nil)

		var mu sync.Mutex
		persisted := map[string]*models.AttendanceRecord{}
		m.recordRepo.On("Upsert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				record := args.Get(1).(*models.AttendanceRecord)
				mu.Lock()
				persisted[record.Email] = record
				mu.Unlock()
			}).
			Return(nil)
		m.messaging.On("SendIndexAttendanceRecord", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)
		m.messaging.On("SendAttendanceImportCompleted", mock.Anything, mock.Anything).Return(nil)

		var audit *models.AttendanceImportAudit
		m.auditRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				audit = args.Get(1).(*models.AttendanceImportAudit)
			}).
			Return(nil)

		result, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 0)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 1, result.Unmatched)
		assert.Equal(t, 0, result.FailedWrites)
		assert.Equal(t, 60, result.ActualDurationUsed)
		assert.Equal(t, models.DurationSourceProvider, result.DurationSource)
		assert.False(t, result.CliffDetected)

		require.Len(t, persisted, 3)
		assert.Equal(t, "user-1", persisted["jdoe@example.com"].UserUID)
		assert.Equal(t, 83, persisted["jdoe@example.com"].AttendancePercentage)
		assert.Equal(t, 92, persisted["asmith@example.com"].AttendancePercentage)
		assert.Empty(t, persisted["ghost@example.com"].UserUID)
		assert.Equal(t, 50, persisted["ghost@example.com"].AttendancePercentage)

		require.NotNil(t, audit)
		assert.Equal(t, models.ImportStatusCompleted, audit.Status)
		assert.Equal(t, 2, audit.ImportedCount)
		assert.Equal(t, 1, audit.UnmatchedCount)
	})

	t.Run("cliff adjusts the effective duration", func(t *testing.T) {
		service, m := newTestAttendanceService()
		longSession := &models.Session{
			UID:                      "session-1",
			ScheduledStart:           start,
			ScheduledDurationMinutes: 90,
		}

		m.sessionRepo.On("Get", mock.Anything, "session-1").Return(longSession, nil)
		m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").Return(&models.PastMeetingDetails{
			StartTime:       start,
			EndTime:         at(90),
			DurationMinutes: 90,
		}, nil)

		// 15 participants leave together at minute 55, 5 stay to the end.
		events := make([]models.RawParticipantEvent, 0, 20)
		for i := 0; i < 15; i++ {
			events = append(events, models.RawParticipantEvent{
				Email:     fmt.Sprintf("leaver-%d@example.com", i),
				JoinTime:  at(0),
				LeaveTime: utils.TimePtr(at(55)),
			})
		}
		for i := 0; i < 5; i++ {
			events = append(events, models.RawParticipantEvent{
				Email:     fmt.Sprintf("stayer-%d@example.com", i),
				JoinTime:  at(0),
				LeaveTime: utils.TimePtr(at(89)),
			})
		}
		m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").Return(events, nil)
		m.userRepo.On("ListByEmails", mock.Anything, mock.Anything).Return(map[string]*models.User{}, nil)
		m.aliasRepo.On("ListByAliasEmails", mock.Anything, mock.Anything).Return(map[string]*models.EmailAlias{}, nil)

		var mu sync.Mutex
		percentages := map[string]int{}
		m.recordRepo.On("Upsert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				record := args.Get(1).(*models.AttendanceRecord)
				mu.Lock()
				percentages[record.Email] = record.AttendancePercentage
				mu.Unlock()
			}).
			Return(nil)
		m.messaging.On("SendIndexAttendanceRecord", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)
		m.messaging.On("SendAttendanceImportCompleted", mock.Anything, mock.Anything).Return(nil)
		m.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 0)
		require.NoError(t, err)

		assert.True(t, result.CliffDetected)
		assert.Equal(t, 55, result.EffectiveDurationMinutes)
		// Leaving at the cliff counts as full attendance.
		assert.Equal(t, 100, percentages["leaver-0@example.com"])
		assert.Equal(t, 100, percentages["stayer-0@example.com"])
	})

	t.Run("caller-supplied duration wins", func(t *testing.T) {
		service, m := newTestAttendanceService()

		m.sessionRepo.On("Get", mock.Anything, "session-1").Return(session, nil)
		m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").Return(&models.PastMeetingDetails{
			StartTime:       start,
			DurationMinutes: 60,
		}, nil)
		m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").Return([]models.RawParticipantEvent{
			{Email: "jdoe@example.com", JoinTime: at(0), LeaveTime: utils.TimePtr(at(45))},
		}, nil)
		m.userRepo.On("ListByEmails", mock.Anything, mock.Anything).Return(map[string]*models.User{}, nil)
		m.aliasRepo.On("ListByAliasEmails", mock.Anything, mock.Anything).Return(map[string]*models.EmailAlias{}, nil)
		m.recordRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		m.messaging.On("SendIndexAttendanceRecord", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)
		m.messaging.On("SendAttendanceImportCompleted", mock.Anything, mock.Anything).Return(nil)
		m.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 45)
		require.NoError(t, err)

		assert.Equal(t, 45, result.ActualDurationUsed)
		assert.Equal(t, models.DurationSourceCaller, result.DurationSource)
	})

	t.Run("scheduled duration is the logged last resort", func(t *testing.T) {
		service, m := newTestAttendanceService()

		m.sessionRepo.On("Get", mock.Anything, "session-1").Return(session, nil)
		m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").
			Return(nil, domain.NewUnavailableError("zoom down"))
		m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").Return([]models.RawParticipantEvent{
			{Email: "jdoe@example.com", JoinTime: start, LeaveTime: utils.TimePtr(at(30))},
		}, nil)
		m.userRepo.On("ListByEmails", mock.Anything, mock.Anything).Return(map[string]*models.User{}, nil)
		m.aliasRepo.On("ListByAliasEmails", mock.Anything, mock.Anything).Return(map[string]*models.EmailAlias{}, nil)
		m.recordRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		m.messaging.On("SendIndexAttendanceRecord", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)
		m.messaging.On("SendAttendanceImportCompleted", mock.Anything, mock.Anything).Return(nil)
		m.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 0)
		require.NoError(t, err)

		assert.Equal(t, 60, result.ActualDurationUsed)
		assert.Equal(t, models.DurationSourceScheduledFallback, result.DurationSource)
	})

	t.Run("partial persistence failure keeps the rest", func(t *testing.T) {
		service, m := newTestAttendanceService()

		m.sessionRepo.On("Get", mock.Anything, "session-1").Return(session, nil)
		m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").Return(&models.PastMeetingDetails{
			StartTime:       start,
			DurationMinutes: 60,
		}, nil)
		m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").Return([]models.RawParticipantEvent{
			{Email: "jdoe@example.com", JoinTime: at(0), LeaveTime: utils.TimePtr(at(50))},
			{Email: "broken@example.com", JoinTime: at(0), LeaveTime: utils.TimePtr(at(50))},
		}, nil)
		m.userRepo.On("ListByEmails", mock.Anything, mock.Anything).Return(map[string]*models.User{
			"jdoe@example.com":   {UID: "user-1"},
			"broken@example.com": {UID: "user-2"},
		}, nil)

		m.recordRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(record *models.AttendanceRecord) bool {
			return record.Email == "broken@example.com"
		})).Return(domain.NewInternalError("kv write failed"))
		m.recordRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(record *models.AttendanceRecord) bool {
			return record.Email != "broken@example.com"
		})).Return(nil)
		m.messaging.On("SendIndexAttendanceRecord", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)
		m.messaging.On("SendAttendanceImportCompleted", mock.Anything, mock.Anything).Return(nil)

		var audit *models.AttendanceImportAudit
		m.auditRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				audit = args.Get(1).(*models.AttendanceImportAudit)
			}).
			Return(nil)

		result, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 0)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.FailedWrites)
		require.NotNil(t, audit)
		assert.Equal(t, models.ImportStatusPartial, audit.Status)
	})

	t.Run("participant fetch failure is fatal and audited", func(t *testing.T) {
		service, m := newTestAttendanceService()

		m.sessionRepo.On("Get", mock.Anything, "session-1").Return(session, nil)
		m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").Return(&models.PastMeetingDetails{
			StartTime:       start,
			DurationMinutes: 60,
		}, nil)
		m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").
			Return(nil, domain.NewUnavailableError("zoom down"))

		var audit *models.AttendanceImportAudit
		m.auditRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				audit = args.Get(1).(*models.AttendanceImportAudit)
			}).
			Return(nil)

		_, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 0)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))

		require.NotNil(t, audit)
		assert.Equal(t, models.ImportStatusFailed, audit.Status)
		m.recordRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		service, _ := newTestAttendanceService()

		_, err := service.CalculateSessionAttendance(ctx, "", "meeting-1", 0)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

		_, err = service.CalculateSessionAttendance(ctx, "session-1", "", 0)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("unknown session fails the run", func(t *testing.T) {
		service, m := newTestAttendanceService()

		m.sessionRepo.On("Get", mock.Anything, "missing").
			Return(nil, domain.NewNotFoundError("session not found"))

		_, err := service.CalculateSessionAttendance(ctx, "missing", "meeting-1", 0)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("service not ready", func(t *testing.T) {
		service := &AttendanceService{}

		_, err := service.CalculateSessionAttendance(ctx, "session-1", "meeting-1", 0)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	})
}

func TestPreviewCliff(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return start.Add(time.Duration(minutes) * time.Minute) }

	service, m := newTestAttendanceService()
	session := &models.Session{
		UID:                      "session-1",
		ScheduledStart:           start,
		ScheduledDurationMinutes: 90,
	}

	m.sessionRepo.On("Get", mock.Anything, "session-1").Return(session, nil)
	m.provider.On("GetPastMeetingDetails", mock.Anything, "meeting-1").Return(&models.PastMeetingDetails{
		StartTime:       start,
		DurationMinutes: 90,
	}, nil)

	events := make([]models.RawParticipantEvent, 0, 20)
	for i := 0; i < 15; i++ {
		events = append(events, models.RawParticipantEvent{
			Email:     fmt.Sprintf("leaver-%d@example.com", i),
			JoinTime:  at(0),
			LeaveTime: utils.TimePtr(at(55)),
		})
	}
	for i := 0; i < 5; i++ {
		events = append(events, models.RawParticipantEvent{
			Email:     fmt.Sprintf("stayer-%d@example.com", i),
			JoinTime:  at(0),
			LeaveTime: utils.TimePtr(at(89)),
		})
	}
	m.provider.On("GetParticipantEvents", mock.Anything, "meeting-1").Return(events, nil)
	m.userRepo.On("ListByEmails", mock.Anything, mock.Anything).Return(map[string]*models.User{}, nil)
	m.aliasRepo.On("ListByAliasEmails", mock.Anything, mock.Anything).Return(map[string]*models.EmailAlias{}, nil)

	result, err := service.PreviewCliff(ctx, "session-1", "meeting-1")
	require.NoError(t, err)

	assert.True(t, result.Detected)
	assert.Equal(t, 55, result.EffectiveEndMinutes)
	assert.Equal(t, models.CliffConfidenceHigh, result.Confidence)

	// Preview never persists or publishes anything.
	m.recordRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	m.auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.messaging.AssertNotCalled(t, "SendAttendanceImportCompleted", mock.Anything, mock.Anything)
}

func TestBuildAttendanceRecords(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return start.Add(time.Duration(minutes) * time.Minute) }

	session := &models.Session{UID: "session-1"}
	effectiveEnd := at(60)
	effectiveDuration := time.Duration(60) * time.Minute

	participants := map[string]*models.ParticipantRecord{
		// Joined before the window start, so the raw presence exceeds the
		// effective duration. The percentage must clamp at 100.
		"early@example.com": {
			Email:    "early@example.com",
			Segments: []models.Segment{{JoinTime: at(-10), LeaveTime: at(60)}},
		},
		// Present past the effective end; the overrun is clipped off.
		"late@example.com": {
			Email:    "late@example.com",
			Segments: []models.Segment{{JoinTime: at(30), LeaveTime: at(75)}},
		},
		"half@example.com": {
			UserUID:  "user-1",
			Email:    "half@example.com",
			Segments: []models.Segment{{JoinTime: at(0), LeaveTime: at(30)}},
		},
	}

	records := buildAttendanceRecords(session, "meeting-1", participants, effectiveEnd, effectiveDuration)
	require.Len(t, records, 3)

	byEmail := make(map[string]*models.AttendanceRecord, len(records))
	for _, record := range records {
		byEmail[record.Email] = record
	}

	early := byEmail["early@example.com"]
	require.NotNil(t, early)
	assert.Equal(t, 100, early.AttendancePercentage)
	assert.Equal(t, 70*60, early.DurationSeconds)

	late := byEmail["late@example.com"]
	require.NotNil(t, late)
	assert.Equal(t, 50, late.AttendancePercentage)
	assert.Equal(t, 30*60, late.DurationSeconds)

	half := byEmail["half@example.com"]
	require.NotNil(t, half)
	assert.Equal(t, "user-1", half.UserUID)
	assert.Equal(t, 50, half.AttendancePercentage)
	assert.Equal(t, "session-1", half.SessionUID)
	assert.Equal(t, "meeting-1", half.MeetingUID)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/redaction"
)

// AttendanceService orchestrates one reconciliation run: it resolves
// identities, merges segments, determines the effective session duration and
// persists per-participant attendance records.
type AttendanceService struct {
	SessionRepository          domain.SessionRepository
	AttendanceRecordRepository domain.AttendanceRecordRepository
	ImportAuditRepository      domain.ImportAuditRepository
	MeetingProvider            domain.MeetingProvider
	IdentityResolver           *IdentityResolver
	SegmentMerger              *SegmentMerger
	CliffDetector              *CliffDetector
	MessageBuilder             domain.MessageBuilder
	Config                     ServiceConfig
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	sessionRepository domain.SessionRepository,
	attendanceRecordRepository domain.AttendanceRecordRepository,
	importAuditRepository domain.ImportAuditRepository,
	meetingProvider domain.MeetingProvider,
	identityResolver *IdentityResolver,
	segmentMerger *SegmentMerger,
	cliffDetector *CliffDetector,
	messageBuilder domain.MessageBuilder,
	config ServiceConfig,
) *AttendanceService {
	if config.PersistWorkerCount <= 0 {
		config.PersistWorkerCount = constants.PersistWorkerCount
	}
	return &AttendanceService{
		SessionRepository:          sessionRepository,
		AttendanceRecordRepository: attendanceRecordRepository,
		ImportAuditRepository:      importAuditRepository,
		MeetingProvider:            meetingProvider,
		IdentityResolver:           identityResolver,
		SegmentMerger:              segmentMerger,
		CliffDetector:              cliffDetector,
		MessageBuilder:             messageBuilder,
		Config:                     config,
	}
}

var _ Service = (*AttendanceService)(nil)

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.SessionRepository != nil &&
		s.AttendanceRecordRepository != nil &&
		s.ImportAuditRepository != nil &&
		s.MeetingProvider != nil &&
		s.IdentityResolver != nil &&
		s.SegmentMerger != nil &&
		s.CliffDetector != nil &&
		s.MessageBuilder != nil
}

// sessionWindow is the resolved time bounds and duration source of one run.
type sessionWindow struct {
	models.SessionWindow
	durationMinutes int
	durationSource  string
}

// CalculateSessionAttendance reconciles the attendance of one session against
// the meeting provider's participant data for the given meeting. When the
// caller does not supply actualDurationMinutes (<= 0), the provider-reported
// duration is used; the session's scheduled duration is a last resort that is
// logged loudly because it changes every percentage downstream.
func (s *AttendanceService) CalculateSessionAttendance(
	ctx context.Context,
	sessionUID string,
	meetingUID string,
	actualDurationMinutes int,
) (*models.AttendanceImportResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if sessionUID == "" || meetingUID == "" {
		slog.WarnContext(ctx, "session UID and meeting UID are required")
		return nil, domain.NewValidationError("session UID and meeting UID are required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	session, err := s.SessionRepository.Get(ctx, sessionUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting session", logging.ErrKey, err)
		return nil, err
	}

	window := s.resolveSessionWindow(ctx, session, meetingUID, actualDurationMinutes)
	if window.durationMinutes <= 0 {
		err := domain.NewValidationError("cannot determine a positive meeting duration")
		s.recordAudit(ctx, sessionUID, meetingUID, &models.AttendanceImportAudit{
			Status: models.ImportStatusFailed,
			Error:  err.Error(),
		})
		return nil, err
	}

	// Provider-event fetch failure is fatal: nothing to reconcile. The run is
	// still audited so a later re-run can be correlated.
	events, err := s.MeetingProvider.GetParticipantEvents(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error fetching participant events from provider", logging.ErrKey, err)
		failure := domain.NewUnavailableError("failed to fetch participant events from meeting provider", err)
		s.recordAudit(ctx, sessionUID, meetingUID, &models.AttendanceImportAudit{
			Status:                models.ImportStatusFailed,
			ActualDurationMinutes: window.durationMinutes,
			DurationSource:        window.durationSource,
			Error:                 failure.Error(),
		})
		return nil, failure
	}

	emails := make([]string, 0, len(events))
	for _, event := range events {
		emails = append(emails, event.Email)
	}
	resolved := s.IdentityResolver.ResolveEmails(ctx, emails)

	participants := s.SegmentMerger.MergeParticipantSegments(ctx, events, resolved, window.ActualEnd)

	cliff := s.CliffDetector.DetectFormalEnd(ctx, participants, window.ActualStart, window.ActualEnd)
	effectiveEnd := window.ActualEnd
	if cliff.Detected {
		effectiveEnd = window.ActualStart.Add(time.Duration(cliff.EffectiveEndMinutes) * time.Minute)
		slog.InfoContext(ctx, "using cliff-adjusted effective end",
			"effective_end_minutes", cliff.EffectiveEndMinutes,
			"confidence", cliff.Confidence,
			"students_impacted", cliff.StudentsImpacted)
	} else {
		slog.DebugContext(ctx, "no departure cliff detected", "reason", cliff.Reason)
	}
	effectiveDuration := effectiveEnd.Sub(window.ActualStart)

	records := buildAttendanceRecords(session, meetingUID, participants, effectiveEnd, effectiveDuration)

	result := &models.AttendanceImportResult{
		ActualDurationUsed:       window.durationMinutes,
		DurationSource:           window.durationSource,
		CliffDetected:            cliff.Detected,
		EffectiveDurationMinutes: int(math.Round(effectiveDuration.Minutes())),
	}

	// Each record write is attempted independently; failures are accumulated
	// rather than aborting, so one bad row does not lose the rest.
	var imported, unmatched atomic.Int64
	pool := concurrent.NewWorkerPool(s.Config.PersistWorkerCount)
	writes := make([]func() error, 0, len(records))
	for _, record := range records {
		record := record
		writes = append(writes, func() error {
			if err := s.AttendanceRecordRepository.Upsert(ctx, record); err != nil {
				slog.ErrorContext(ctx, "error upserting attendance record",
					logging.ErrKey, err, "email", redaction.RedactEmail(record.Email))
				return err
			}
			if record.IsMatched() {
				imported.Add(1)
			} else {
				unmatched.Add(1)
			}
			if err := s.MessageBuilder.SendIndexAttendanceRecord(ctx, models.ActionUpdated, *record); err != nil {
				// Don't fail the write if messaging fails.
				slog.ErrorContext(ctx, "failed to send indexer message", logging.ErrKey, err)
			}
			return nil
		})
	}
	writeErrors := pool.RunAll(ctx, writes...)

	result.Imported = int(imported.Load())
	result.Unmatched = int(unmatched.Load())
	result.FailedWrites = len(writeErrors)

	status := models.ImportStatusCompleted
	if result.FailedWrites > 0 {
		status = models.ImportStatusPartial
	}

	s.recordAudit(ctx, sessionUID, meetingUID, &models.AttendanceImportAudit{
		Status:                status,
		ImportedCount:         result.Imported,
		UnmatchedCount:        result.Unmatched,
		FailedWriteCount:      result.FailedWrites,
		ActualDurationMinutes: window.durationMinutes,
		DurationSource:        window.durationSource,
		CliffDetected:         cliff.Detected,
		EffectiveEndMinutes:   cliff.EffectiveEndMinutes,
	})

	if err := s.MessageBuilder.SendAttendanceImportCompleted(ctx, models.AttendanceImportCompletedMessage{
		SessionUID:            sessionUID,
		MeetingUID:            meetingUID,
		Status:                status,
		ImportedCount:         result.Imported,
		UnmatchedCount:        result.Unmatched,
		FailedWriteCount:      result.FailedWrites,
		ActualDurationMinutes: window.durationMinutes,
		CliffDetected:         cliff.Detected,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send import completed message", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "reconciliation run finished",
		"status", status,
		"imported", result.Imported,
		"unmatched", result.Unmatched,
		"failed_writes", result.FailedWrites,
		"duration_minutes", result.ActualDurationUsed,
		"duration_source", result.DurationSource,
		"cliff_detected", result.CliffDetected)

	return result, nil
}

// PreviewCliff runs the fetch-merge-detect pipeline without persisting
// anything, for diagnostics and preview tooling.
func (s *AttendanceService) PreviewCliff(ctx context.Context, sessionUID, meetingUID string) (*models.CliffDetectionResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if sessionUID == "" || meetingUID == "" {
		slog.WarnContext(ctx, "session UID and meeting UID are required")
		return nil, domain.NewValidationError("session UID and meeting UID are required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	session, err := s.SessionRepository.Get(ctx, sessionUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting session", logging.ErrKey, err)
		return nil, err
	}

	window := s.resolveSessionWindow(ctx, session, meetingUID, 0)
	if window.durationMinutes <= 0 {
		return nil, domain.NewValidationError("cannot determine a positive meeting duration")
	}

	events, err := s.MeetingProvider.GetParticipantEvents(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error fetching participant events from provider", logging.ErrKey, err)
		return nil, domain.NewUnavailableError("failed to fetch participant events from meeting provider", err)
	}

	emails := make([]string, 0, len(events))
	for _, event := range events {
		emails = append(emails, event.Email)
	}
	resolved := s.IdentityResolver.ResolveEmails(ctx, emails)
	participants := s.SegmentMerger.MergeParticipantSegments(ctx, events, resolved, window.ActualEnd)

	return s.CliffDetector.DetectFormalEnd(ctx, participants, window.ActualStart, window.ActualEnd), nil
}

// resolveSessionWindow determines the actual start and duration of the run.
// The caller-supplied duration wins; otherwise the provider-reported duration
// is used; the session's scheduled values are the logged last resort.
func (s *AttendanceService) resolveSessionWindow(
	ctx context.Context,
	session *models.Session,
	meetingUID string,
	actualDurationMinutes int,
) sessionWindow {
	window := sessionWindow{}
	window.ScheduledStart = session.ScheduledStart
	window.ScheduledEnd = session.ScheduledEnd()

	details, err := s.MeetingProvider.GetPastMeetingDetails(ctx, meetingUID)
	if err != nil {
		// Not silently substituted: the fallback changes every percentage
		// downstream, so the caller must be able to see it happened.
		slog.WarnContext(ctx, "provider meeting lookup failed, falling back to scheduled session window",
			logging.ErrKey, err,
			"scheduled_start", session.ScheduledStart,
			"scheduled_duration_minutes", session.ScheduledDurationMinutes)
		window.ActualStart = session.ScheduledStart
		if actualDurationMinutes > 0 {
			window.durationMinutes = actualDurationMinutes
			window.durationSource = models.DurationSourceCaller
		} else {
			window.durationMinutes = session.ScheduledDurationMinutes
			window.durationSource = models.DurationSourceScheduledFallback
		}
	} else {
		window.ActualStart = details.StartTime
		if actualDurationMinutes > 0 {
			window.durationMinutes = actualDurationMinutes
			window.durationSource = models.DurationSourceCaller
		} else {
			window.durationMinutes = details.DurationMinutes
			window.durationSource = models.DurationSourceProvider
		}
	}

	window.ActualEnd = window.ActualStart.Add(time.Duration(window.durationMinutes) * time.Minute)
	return window
}

// buildAttendanceRecords converts merged participant records into persistable
// attendance records, clipping durations to the effective end and clamping
// percentages to [0, 100] so clock skew can never overrun the denominator.
func buildAttendanceRecords(
	session *models.Session,
	meetingUID string,
	participants map[string]*models.ParticipantRecord,
	effectiveEnd time.Time,
	effectiveDuration time.Duration,
) []*models.AttendanceRecord {
	keys := make([]string, 0, len(participants))
	for key := range participants {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]*models.AttendanceRecord, 0, len(keys))
	for _, key := range keys {
		participant := participants[key]
		clipped := participant.ClippedDuration(effectiveEnd)

		percentage := 0
		if effectiveDuration > 0 {
			percentage = int(math.Round(clipped.Seconds() / effectiveDuration.Seconds() * 100))
		}
		if percentage < 0 {
			percentage = 0
		}
		if percentage > 100 {
			percentage = 100
		}

		records = append(records, &models.AttendanceRecord{
			SessionUID:           session.UID,
			MeetingUID:           meetingUID,
			UserUID:              participant.UserUID,
			Email:                participant.Email,
			DisplayName:          participant.DisplayName,
			JoinTime:             participant.FirstJoin(),
			LeaveTime:            participant.LastLeave(),
			DurationSeconds:      int(clipped.Seconds()),
			AttendancePercentage: percentage,
			Segments:             participant.Segments,
		})
	}

	return records
}

// recordAudit writes the run's audit record. Audit failures are logged but
// never fail the run they describe.
func (s *AttendanceService) recordAudit(ctx context.Context, sessionUID, meetingUID string, audit *models.AttendanceImportAudit) {
	audit.SessionUID = sessionUID
	audit.MeetingUID = meetingUID
	if err := s.ImportAuditRepository.Create(ctx, audit); err != nil {
		slog.ErrorContext(ctx, "error recording import audit", logging.ErrKey, err, logging.PriorityCritical())
	}
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the attendance service reconciliation runner. It pulls
// participant data from the meeting provider, resolves identities, detects
// departure cliffs and persists attendance records and audits.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/redaction"
)

func main() {
	env := parseEnv()
	flags := parseFlags()

	logging.InitStructureLogConfig()

	// Cancel the run context on SIGINT/SIGTERM so in-flight provider calls
	// and KV writes stop cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		slog.InfoContext(ctx, "shutdown signal received, cancelling run")
		cancel()
	}()

	natsConn, err := setupNATS(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		os.Exit(1)
	}
	defer func() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}()

	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		os.Exit(1)
	}

	messageBuilder := messaging.NewMessageBuilder(natsConn)
	attendanceService := service.NewAttendanceService(
		repos.Session,
		repos.AttendanceRecord,
		repos.ImportAudit,
		setupZoomProvider(env),
		service.NewIdentityResolver(repos.User, repos.EmailAlias),
		service.NewSegmentMerger(),
		service.NewCliffDetector(service.CliffDetectorConfig{}),
		messageBuilder,
		service.ServiceConfig{},
	)

	switch flags.Mode {
	case ModeReconcile:
		err = runReconcile(ctx, attendanceService, flags)
	case ModeRecalcAll:
		err = runRecalcAll(ctx, attendanceService, repos)
	case ModePreviewCliff:
		err = runPreviewCliff(ctx, attendanceService, flags)
	case ModeCreateAlias:
		err = runCreateAlias(ctx, repos, flags)
	default:
		slog.Error("unknown run mode", "mode", flags.Mode)
		os.Exit(2)
	}
	if err != nil {
		slog.With(logging.ErrKey, err).Error("run failed", "mode", flags.Mode)
		os.Exit(1)
	}
}

// runReconcile reconciles a single session against its provider meeting.
func runReconcile(ctx context.Context, attendanceService *service.AttendanceService, flags flags) error {
	result, err := attendanceService.CalculateSessionAttendance(ctx, flags.SessionUID, flags.MeetingUID, flags.DurationMinutes)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "session reconciled",
		"session_uid", flags.SessionUID,
		"imported", result.Imported,
		"unmatched", result.Unmatched,
		"failed_writes", result.FailedWrites,
		"duration_source", result.DurationSource,
		"cliff_detected", result.CliffDetected,
	)
	return nil
}

// runRecalcAll re-runs reconciliation for every stored session with a known
// provider meeting. Sessions are independent, so runs proceed in parallel and
// per-session failures do not stop the sweep.
func runRecalcAll(ctx context.Context, attendanceService *service.AttendanceService, repos *repositories) error {
	sessions, err := repos.Session.ListAll(ctx)
	if err != nil {
		return err
	}

	pool := concurrent.NewWorkerPool(constants.RecalcWorkerCount)
	tasks := make([]func() error, 0, len(sessions))
	for _, session := range sessions {
		if session.MeetingUID == "" {
			slog.DebugContext(ctx, "skipping session with no provider meeting", "session_uid", session.UID)
			continue
		}
		session := session
		tasks = append(tasks, func() error {
			_, err := attendanceService.CalculateSessionAttendance(ctx, session.UID, session.MeetingUID, 0)
			return err
		})
	}

	errs := pool.RunAll(ctx, tasks...)
	slog.InfoContext(ctx, "bulk recalculation finished",
		"sessions", len(tasks),
		"failed", len(errs),
	)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// runPreviewCliff prints the cliff detection diagnostics for a session
// without persisting anything.
func runPreviewCliff(ctx context.Context, attendanceService *service.AttendanceService, flags flags) error {
	result, err := attendanceService.PreviewCliff(ctx, flags.SessionUID, flags.MeetingUID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// runCreateAlias maps an unmatched provider email to a registered user.
func runCreateAlias(ctx context.Context, repos *repositories, flags flags) error {
	alias := &models.EmailAlias{
		AliasEmail: service.NormalizeEmail(flags.AliasEmail),
		UserUID:    flags.AliasUserUID,
		CreatedBy:  flags.AliasCreatedBy,
	}
	if err := repos.EmailAlias.Create(ctx, alias); err != nil {
		return err
	}

	slog.InfoContext(ctx, "email alias created",
		"alias_email", redaction.RedactEmail(alias.AliasEmail),
		"user_uid", alias.UserUID,
	)
	return nil
}

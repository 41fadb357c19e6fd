// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/constants"
)

// Run modes of the attendance service binary.
const (
	ModeReconcile    = "reconcile"
	ModeRecalcAll    = "recalc-all"
	ModePreviewCliff = "preview-cliff"
	ModeCreateAlias  = "create-alias"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Mode  string

	// reconcile / preview-cliff
	SessionUID      string
	MeetingUID      string
	DurationMinutes int

	// create-alias
	AliasEmail     string
	AliasUserUID   string
	AliasCreatedBy string
}

// environment are the environment variables for the attendance service.
type environment struct {
	NatsURL          string
	ZoomAccountID    string
	ZoomClientID     string
	ZoomClientSecret string
}

// parseFlags parses command line flags for the attendance service
func parseFlags() flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var mode = flag.String("mode", ModeReconcile, "run mode: reconcile, recalc-all, preview-cliff or create-alias")
	var sessionUID = flag.String("session", "", "session UID to reconcile")
	var meetingUID = flag.String("meeting", "", "provider meeting UID to pull participant data from")
	var duration = flag.Int("duration", 0, "actual meeting duration in minutes (0 = use provider-reported duration)")
	var aliasEmail = flag.String("alias-email", "", "alias email to map (create-alias mode)")
	var aliasUserUID = flag.String("alias-user", "", "user UID the alias belongs to (create-alias mode)")
	var aliasCreatedBy = flag.String("alias-created-by", "", "administrator recording the alias (create-alias mode)")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug:           *debug,
		Mode:            *mode,
		SessionUID:      *sessionUID,
		MeetingUID:      *meetingUID,
		DurationMinutes: *duration,
		AliasEmail:      *aliasEmail,
		AliasUserUID:    *aliasUserUID,
		AliasCreatedBy:  *aliasCreatedBy,
	}
}

// parseEnv parses environment variables for the attendance service
func parseEnv() environment {
	natsURL := os.Getenv(constants.EnvNatsURL)
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	return environment{
		NatsURL:          natsURL,
		ZoomAccountID:    os.Getenv(constants.EnvZoomAccountID),
		ZoomClientID:     os.Getenv(constants.EnvZoomClientID),
		ZoomClientSecret: os.Getenv(constants.EnvZoomClientSecret),
	}
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// MessageBuilder is the interface for sending messages about attendance
// reconciliation outcomes. Messaging failures never fail a reconciliation run.
type MessageBuilder interface {
	SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, record models.AttendanceRecord) error
	SendAttendanceImportCompleted(ctx context.Context, message models.AttendanceImportCompletedMessage) error
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// SessionRepository defines the interface for scheduled session lookups.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type SessionRepository interface {
	Get(ctx context.Context, sessionUID string) (*models.Session, error)
	Exists(ctx context.Context, sessionUID string) (bool, error)
	ListAll(ctx context.Context) ([]*models.Session, error)
}

// UserRepository defines the read-only interface to the registered-user table.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListByEmails batch-resolves the given normalized emails in one pass.
	// Emails with no registered user are absent from the returned map.
	ListByEmails(ctx context.Context, emails []string) (map[string]*models.User, error)
}

// EmailAliasRepository defines the interface to the administrator-managed
// alias table (alias email -> user).
type EmailAliasRepository interface {
	GetByAliasEmail(ctx context.Context, email string) (*models.EmailAlias, error)
	// ListByAliasEmails batch-resolves the given normalized emails. Emails
	// with no alias are absent from the returned map.
	ListByAliasEmails(ctx context.Context, emails []string) (map[string]*models.EmailAlias, error)
	Create(ctx context.Context, alias *models.EmailAlias) error
}

// AttendanceRecordRepository defines the interface for persisted attendance
// records. Upsert is keyed by session and email so re-running reconciliation
// overwrites rather than duplicates.
type AttendanceRecordRepository interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	GetBySessionAndEmail(ctx context.Context, sessionUID, email string) (*models.AttendanceRecord, error)
	ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceRecord, error)
}

// ImportAuditRepository defines the interface for reconciliation run audits.
type ImportAuditRepository interface {
	Create(ctx context.Context, audit *models.AttendanceImportAudit) error
	ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceImportAudit, error)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
)

// Key prefixes for the compound lookup keys stored in the KV buckets.
const (
	keyPrefixSession = "session"
	keyPrefixEmail   = "email"
)

// KeyBuilder builds and encodes the KV keys of the attendance service.
// Compound keys contain characters NATS does not allow in key names
// (notably '@' and '/'), so every key is base64 encoded before use.
type KeyBuilder struct{}

// NewKeyBuilder creates a new KeyBuilder.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// EncodeKey encodes a logical key into its NATS-safe form.
func (kb *KeyBuilder) EncodeKey(key string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(key))
}

// DecodeKey decodes a NATS key back into its logical form.
func (kb *KeyBuilder) DecodeKey(encoded string) (string, error) {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode key '%s': %w", encoded, err)
	}
	return string(decoded), nil
}

// UserEmailKey is the lookup key for a registered user by email.
func (kb *KeyBuilder) UserEmailKey(email string) string {
	return kb.EncodeKey(email)
}

// AliasEmailKey is the lookup key for an email alias by alias email.
func (kb *KeyBuilder) AliasEmailKey(aliasEmail string) string {
	return kb.EncodeKey(aliasEmail)
}

// AttendanceRecordKey is the compound lookup key for an attendance record,
// unique per session and participant email. Reusing the same key on
// re-import makes record writes idempotent at the store level.
func (kb *KeyBuilder) AttendanceRecordKey(sessionUID, email string) string {
	return kb.EncodeKey(fmt.Sprintf("%s/%s/%s/%s", keyPrefixSession, sessionUID, keyPrefixEmail, email))
}

// SessionRecordsPattern matches every attendance record key of a session.
func (kb *KeyBuilder) SessionRecordsPattern(sessionUID string) string {
	return fmt.Sprintf("%s/%s/", keyPrefixSession, sessionUID)
}

// ImportAuditKey is the lookup key for an import audit entry, unique per
// session and import attempt.
func (kb *KeyBuilder) ImportAuditKey(sessionUID, auditUID string) string {
	return kb.EncodeKey(fmt.Sprintf("%s/%s/%s", keyPrefixSession, sessionUID, auditUID))
}

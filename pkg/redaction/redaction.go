// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction contains helpers for redacting personal data in logs.
package redaction

import "strings"

// RedactEmail redacts the local part of an email address so logs never carry
// full participant emails. "jane.doe@example.com" becomes "j***@example.com".
func RedactEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}

	return email[:1] + "***" + email[at:]
}

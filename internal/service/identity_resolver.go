// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/redaction"
)

// IdentityResolver maps provider-reported emails to registered users, trying
// an exact match against the user table first and the administrator-managed
// alias table second. All lookups are read-only.
type IdentityResolver struct {
	UserRepository       domain.UserRepository
	EmailAliasRepository domain.EmailAliasRepository
}

// NewIdentityResolver creates a new IdentityResolver.
func NewIdentityResolver(
	userRepository domain.UserRepository,
	emailAliasRepository domain.EmailAliasRepository,
) *IdentityResolver {
	return &IdentityResolver{
		UserRepository:       userRepository,
		EmailAliasRepository: emailAliasRepository,
	}
}

var _ Service = (*IdentityResolver)(nil)

// ServiceReady checks if the service is ready for use.
func (r *IdentityResolver) ServiceReady() bool {
	return r.UserRepository != nil && r.EmailAliasRepository != nil
}

// NormalizeEmail normalizes a provider-reported email for matching and
// grouping: lowercase and trimmed of surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveEmails batch-resolves the distinct normalized forms of the given
// emails in two lookups: one against the registered-user table, one against
// the alias table for whatever the first lookup missed. The returned map is
// keyed by normalized email; unresolvable emails are absent. Lookup failures
// degrade the affected emails to unmatched instead of failing the run.
func (r *IdentityResolver) ResolveEmails(ctx context.Context, emails []string) map[string]string {
	distinct := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		normalized := NormalizeEmail(email)
		if normalized == "" {
			continue
		}
		distinct[normalized] = struct{}{}
	}
	if len(distinct) == 0 {
		return map[string]string{}
	}

	normalized := make([]string, 0, len(distinct))
	for email := range distinct {
		normalized = append(normalized, email)
	}
	sort.Strings(normalized)

	resolved := make(map[string]string, len(normalized))

	users, err := r.UserRepository.ListByEmails(ctx, normalized)
	if err != nil {
		slog.WarnContext(ctx, "batch user lookup failed, falling back to per-email resolution",
			logging.ErrKey, err, "email_count", len(normalized))
		return r.resolvePerEmail(ctx, normalized)
	}
	for email, user := range users {
		resolved[NormalizeEmail(email)] = user.UID
	}

	var unresolved []string
	for _, email := range normalized {
		if _, ok := resolved[email]; !ok {
			unresolved = append(unresolved, email)
		}
	}
	if len(unresolved) == 0 {
		return resolved
	}

	aliases, err := r.EmailAliasRepository.ListByAliasEmails(ctx, unresolved)
	if err != nil {
		// Exact matches are already in hand; only alias lookups degrade.
		slog.WarnContext(ctx, "batch alias lookup failed, affected emails stay unmatched",
			logging.ErrKey, err, "email_count", len(unresolved))
		return resolved
	}
	for email, alias := range aliases {
		resolved[NormalizeEmail(email)] = alias.UserUID
	}

	return resolved
}

// ResolveEmail resolves a single email, exact match before alias match.
// It returns an empty string when the email stays unmatched; lookup errors
// are logged and treated as no match.
func (r *IdentityResolver) ResolveEmail(ctx context.Context, email string) string {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return ""
	}

	user, err := r.UserRepository.GetByEmail(ctx, normalized)
	if err == nil && user != nil {
		return user.UID
	}
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.WarnContext(ctx, "user lookup failed, treating email as unmatched",
			logging.ErrKey, err, "email", redaction.RedactEmail(normalized))
		return ""
	}

	alias, err := r.EmailAliasRepository.GetByAliasEmail(ctx, normalized)
	if err == nil && alias != nil {
		return alias.UserUID
	}
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.WarnContext(ctx, "alias lookup failed, treating email as unmatched",
			logging.ErrKey, err, "email", redaction.RedactEmail(normalized))
	}

	return ""
}

func (r *IdentityResolver) resolvePerEmail(ctx context.Context, emails []string) map[string]string {
	resolved := make(map[string]string, len(emails))
	for _, email := range emails {
		if userUID := r.ResolveEmail(ctx, email); userUID != "" {
			resolved[email] = userUID
		}
	}
	return resolved
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// User is a registered user in the identity store. The attendance engine
// only reads users; it never creates or mutates them.
type User struct {
	UID       string     `json:"uid"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Username  string     `json:"username,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EmailAlias maps a provider-reported email that does not match a registered
// account to the user it belongs to. Aliases are populated by administrators
// reconciling unmatched participants.
type EmailAlias struct {
	AliasEmail string     `json:"alias_email"`
	UserUID    string     `json:"user_uid"`
	CreatedBy  string     `json:"created_by,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants contains shared constants for the attendance service.
package constants

// Environment variable names.
const (
	// EnvNatsURL is the environment variable for the NATS server URL.
	EnvNatsURL = "NATS_URL"
	// EnvZoomAccountID is the environment variable for the Zoom account ID.
	EnvZoomAccountID = "ZOOM_ACCOUNT_ID"
	// EnvZoomClientID is the environment variable for the Zoom OAuth client ID.
	EnvZoomClientID = "ZOOM_CLIENT_ID"
	// EnvZoomClientSecret is the environment variable for the Zoom OAuth client secret.
	EnvZoomClientSecret = "ZOOM_CLIENT_SECRET"
)

// AuthorizationHeader is the header key forwarded to the indexer service.
const AuthorizationHeader = "authorization"

// RecalcWorkerCount is the bounded parallelism of the bulk recalculation
// driver. Reconciliation runs share no mutable state, so running sessions in
// parallel is safe.
const RecalcWorkerCount = 4

// PersistWorkerCount is the bounded parallelism of per-record persistence
// writes within one reconciliation run.
const PersistWorkerCount = 4

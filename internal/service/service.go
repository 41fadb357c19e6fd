// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service contains the attendance reconciliation engine: identity
// resolution, segment merging, departure cliff detection and the attendance
// calculation orchestrator.
package service

// Service is implemented by all services that can report readiness.
type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the services.
type ServiceConfig struct {
	// PersistWorkerCount bounds the parallelism of per-record persistence
	// writes within one reconciliation run.
	PersistWorkerCount int
}

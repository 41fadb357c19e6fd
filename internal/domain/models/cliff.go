// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// CliffConfidence classifies how strong a detected departure cliff is.
type CliffConfidence string

const (
	CliffConfidenceHigh   CliffConfidence = "high"
	CliffConfidenceMedium CliffConfidence = "medium"
	CliffConfidenceLow    CliffConfidence = "low"
)

// CliffRejectionReason is the machine-readable reason a departure cliff was
// not detected.
type CliffRejectionReason string

const (
	// CliffReasonSessionTooSmall means the meeting had too few participants
	// for a statistically meaningful cluster.
	CliffReasonSessionTooSmall CliffRejectionReason = "SESSION_TOO_SMALL"
	// CliffReasonTooFewDepartures means too few non-stayer departures exist.
	CliffReasonTooFewDepartures CliffRejectionReason = "TOO_FEW_DEPARTURES"
	// CliffReasonClusterTooSmall means the best window's share of departures
	// was below the cluster ratio threshold.
	CliffReasonClusterTooSmall CliffRejectionReason = "CLUSTER_TOO_SMALL"
	// CliffReasonAbsoluteCountLow means the best window held too few
	// departures in absolute terms.
	CliffReasonAbsoluteCountLow CliffRejectionReason = "ABSOLUTE_COUNT_LOW"
	// CliffReasonNotEnoughSpike means the best window did not sufficiently
	// exceed the background departure rate.
	CliffReasonNotEnoughSpike CliffRejectionReason = "NOT_ENOUGH_SPIKE"
)

// DepartureBucket is one fixed-width bucket of the diagnostic departure
// histogram emitted with every cliff detection result.
type DepartureBucket struct {
	StartMinute int  `json:"start_minute"`
	EndMinute   int  `json:"end_minute"`
	Departures  int  `json:"departures"`
	InWindow    bool `json:"in_window"`
}

// CliffDetectionResult is the outcome of analyzing final departure times for
// an instructor-announced early end. It is computed once per reconciliation
// run and kept only for audit logging.
type CliffDetectionResult struct {
	Detected            bool                 `json:"detected"`
	Confidence          CliffConfidence      `json:"confidence,omitempty"`
	EffectiveEndMinutes int                  `json:"effective_end_minutes,omitempty"`
	WindowCount         int                  `json:"window_count"`
	TotalDepartures     int                  `json:"total_departures"`
	TotalParticipants   int                  `json:"total_participants"`
	StayerCount         int                  `json:"stayer_count"`
	ClusterRatio        float64              `json:"cluster_ratio"`
	SpikeRatio          float64              `json:"spike_ratio"`
	StudentsImpacted    int                  `json:"students_impacted"`
	Histogram           []DepartureBucket    `json:"histogram,omitempty"`
	Reason              CliffRejectionReason `json:"reason,omitempty"`
}

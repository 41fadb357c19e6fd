// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
)

// Default cliff detection constants. The stayer threshold and window size
// are carried over from the original attendance system unchanged because
// existing attendance history depends on them.
const (
	// DefaultStayerThreshold classifies participants leaving this close to
	// the meeting end as present until the natural end.
	DefaultStayerThreshold = 2 * time.Minute
	// DefaultCliffWindow is the width of the departure cluster scan window.
	DefaultCliffWindow = 10 * time.Minute
	// DefaultMinParticipants is the smallest meeting worth analyzing.
	DefaultMinParticipants = 5
	// DefaultMinDepartures is the smallest non-stayer departure population
	// worth analyzing.
	DefaultMinDepartures = 3
	// DefaultMinSpikeRatio is how far the winning window must exceed the
	// background departure rate.
	DefaultMinSpikeRatio = 2.5

	// Cluster ratio and absolute size thresholds, by population size.
	smallPopulationLimit   = 20
	clusterRatioSmall      = 0.30
	clusterRatioLarge      = 0.25
	absoluteCountSmall     = 3
	absoluteCountLarge     = 5
	histogramBucketMinutes = 5
	// Numeric floor for the expected in-window count, so an all-in-window
	// departure distribution yields a finite spike ratio.
	minExpectedWindowDepartures = 0.1
)

// Confidence classification thresholds.
const (
	highClusterRatio = 0.50
	highWindowCount  = 8
	highSpikeRatio   = 5.0

	mediumClusterRatio = 0.35
	mediumWindowCount  = 6
	mediumSpikeRatio   = 3.0
)

// CliffDetectorConfig holds the tunable constants of the cliff detector.
// Zero values fall back to the defaults above.
type CliffDetectorConfig struct {
	StayerThreshold time.Duration
	Window          time.Duration
	MinParticipants int
	MinDepartures   int
	MinSpikeRatio   float64
}

// CliffDetector distinguishes an instructor-announced early end, where most
// participants leave together, from ordinary staggered attrition. It is
// deterministic, side-effect-free computation over in-memory data.
type CliffDetector struct {
	config CliffDetectorConfig
}

// NewCliffDetector creates a new CliffDetector, filling zero config values
// with the defaults.
func NewCliffDetector(config CliffDetectorConfig) *CliffDetector {
	if config.StayerThreshold == 0 {
		config.StayerThreshold = DefaultStayerThreshold
	}
	if config.Window == 0 {
		config.Window = DefaultCliffWindow
	}
	if config.MinParticipants == 0 {
		config.MinParticipants = DefaultMinParticipants
	}
	if config.MinDepartures == 0 {
		config.MinDepartures = DefaultMinDepartures
	}
	if config.MinSpikeRatio == 0 {
		config.MinSpikeRatio = DefaultMinSpikeRatio
	}
	return &CliffDetector{config: config}
}

// DetectFormalEnd analyzes the distribution of final departure times across
// all participants. When a statistically significant cluster of departures
// is found in the second half of the meeting, the cluster's onset becomes
// the session's effective end so participants are not penalized for leaving
// when told to.
func (d *CliffDetector) DetectFormalEnd(
	ctx context.Context,
	participants map[string]*models.ParticipantRecord,
	meetingStart time.Time,
	meetingEnd time.Time,
) *models.CliffDetectionResult {
	meetingMinutes := meetingEnd.Sub(meetingStart).Minutes()

	result := &models.CliffDetectionResult{
		TotalParticipants: len(participants),
	}

	// Final departure per participant, as minutes from the actual start.
	// Stayers are excluded from the departure population but still count
	// toward the total.
	var departures []float64
	for _, participant := range participants {
		lastLeave := participant.LastLeave()
		if lastLeave.IsZero() {
			continue
		}
		if meetingEnd.Sub(lastLeave) <= d.config.StayerThreshold {
			result.StayerCount++
			continue
		}
		departures = append(departures, lastLeave.Sub(meetingStart).Minutes())
	}
	sort.Float64s(departures)
	result.TotalDepartures = len(departures)
	result.Histogram = buildHistogram(departures, meetingMinutes, -1, 0)

	if result.TotalParticipants < d.config.MinParticipants {
		result.Reason = models.CliffReasonSessionTooSmall
		return result
	}
	if result.TotalDepartures < d.config.MinDepartures {
		result.Reason = models.CliffReasonTooFewDepartures
		return result
	}

	// Sliding-window scan over candidate starts in the second half of the
	// meeting. Cliffs in the first half are not end-of-session signals.
	windowMinutes := d.config.Window.Minutes()
	halfMark := meetingMinutes / 2
	windowStart, windowCount := bestDepartureWindow(departures, halfMark, windowMinutes)
	result.WindowCount = windowCount
	result.ClusterRatio = float64(windowCount) / float64(result.TotalDepartures)

	minClusterRatio := clusterRatioSmall
	minAbsoluteCount := absoluteCountSmall
	if result.TotalParticipants >= smallPopulationLimit {
		minClusterRatio = clusterRatioLarge
		minAbsoluteCount = absoluteCountLarge
	}

	if result.ClusterRatio < minClusterRatio {
		result.Reason = models.CliffReasonClusterTooSmall
		return result
	}
	if windowCount < minAbsoluteCount {
		result.Reason = models.CliffReasonAbsoluteCountLow
		return result
	}

	// Spike check: compare the window against the background departure rate,
	// the departures outside the window spread over the remaining minutes.
	outside := float64(result.TotalDepartures - windowCount)
	remaining := meetingMinutes - windowMinutes
	expected := minExpectedWindowDepartures
	if remaining > 0 {
		expected = math.Max(outside/remaining*windowMinutes, minExpectedWindowDepartures)
	}
	result.SpikeRatio = float64(windowCount) / expected
	if result.SpikeRatio < d.config.MinSpikeRatio {
		result.Reason = models.CliffReasonNotEnoughSpike
		return result
	}

	// The effective end is the moment the mass departure began, not its peak,
	// since that is when the announcement ended the session.
	result.Detected = true
	result.EffectiveEndMinutes = int(math.Round(windowStart))
	result.Confidence = classifyConfidence(result.ClusterRatio, windowCount, result.SpikeRatio)
	result.StudentsImpacted = countImpacted(departures, windowStart)
	result.Histogram = buildHistogram(departures, meetingMinutes, windowStart, windowMinutes)

	slog.DebugContext(ctx, "departure cliff detected",
		"effective_end_minutes", result.EffectiveEndMinutes,
		"window_count", windowCount,
		"total_departures", result.TotalDepartures,
		"cluster_ratio", result.ClusterRatio,
		"spike_ratio", result.SpikeRatio,
		"confidence", result.Confidence,
	)

	return result
}

// bestDepartureWindow scans every candidate departure time at or after the
// half mark and returns the start of the window holding the most departures.
// Ties keep the earliest window.
func bestDepartureWindow(departures []float64, halfMark, windowMinutes float64) (float64, int) {
	bestStart := -1.0
	bestCount := 0

	for i, start := range departures {
		if start < halfMark {
			continue
		}
		count := 0
		for _, departure := range departures[i:] {
			if departure > start+windowMinutes {
				break
			}
			count++
		}
		if count > bestCount {
			bestCount = count
			bestStart = start
		}
	}

	return bestStart, bestCount
}

func classifyConfidence(clusterRatio float64, windowCount int, spikeRatio float64) models.CliffConfidence {
	if clusterRatio >= highClusterRatio && windowCount >= highWindowCount && spikeRatio >= highSpikeRatio {
		return models.CliffConfidenceHigh
	}
	if clusterRatio >= mediumClusterRatio || (windowCount >= mediumWindowCount && spikeRatio >= mediumSpikeRatio) {
		return models.CliffConfidenceMedium
	}
	return models.CliffConfidenceLow
}

// countImpacted counts departures in the 85%-95% tail before the effective
// end: participants who left slightly early anticipating the cliff and would
// otherwise be penalized.
func countImpacted(departures []float64, effectiveEndMinutes float64) int {
	lower := effectiveEndMinutes * 0.85
	upper := effectiveEndMinutes * 0.95

	impacted := 0
	for _, departure := range departures {
		if departure >= lower && departure < upper {
			impacted++
		}
	}
	return impacted
}

// buildHistogram produces the fixed 5-minute diagnostic buckets across the
// meeting, flagging buckets that overlap the winning window. A negative
// windowStart means no window was selected.
func buildHistogram(departures []float64, meetingMinutes, windowStart, windowMinutes float64) []models.DepartureBucket {
	if meetingMinutes <= 0 {
		return nil
	}

	bucketCount := int(math.Ceil(meetingMinutes / histogramBucketMinutes))
	buckets := make([]models.DepartureBucket, bucketCount)
	for i := range buckets {
		buckets[i].StartMinute = i * histogramBucketMinutes
		buckets[i].EndMinute = (i + 1) * histogramBucketMinutes
		if windowStart >= 0 &&
			float64(buckets[i].EndMinute) > windowStart &&
			float64(buckets[i].StartMinute) < windowStart+windowMinutes {
			buckets[i].InWindow = true
		}
	}

	for _, departure := range departures {
		index := int(departure / histogramBucketMinutes)
		if index < 0 {
			continue
		}
		if index >= bucketCount {
			index = bucketCount - 1
		}
		buckets[index].Departures++
	}

	return buckets
}

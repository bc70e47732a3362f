// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package analytics computes the per-year aggregates that make up a rewind
// report: completion rate, controversy, genre and channel affinity, regional
// affinity, hourly viewing shape, and ad exposure.
//
// All functions are pure over their inputs and deterministic: ties resolve
// by first encounter in stream order, never by map iteration order.
package analytics

import (
	"errors"
	"sort"

	"github.com/tomtom215/retrospectus/internal/enrich"
	"github.com/tomtom215/retrospectus/internal/models"
)

// ErrInsufficientData indicates an aggregate has no usable inputs, for
// example a controversy ranking over events with no resolved metadata.
var ErrInsufficientData = errors.New("insufficient data for aggregate")

// TopChannelNone is reported when no event carries channel attribution.
const TopChannelNone = "N/A"

// CompletionRate returns the percentage of events watched to at least
// threshold of their duration. The denominator is ALL events: an event with
// an unknown watch ratio counts as not completed.
func CompletionRate(events []models.EnrichedEvent, threshold float64) float64 {
	if len(events) == 0 {
		return 0
	}
	completed := 0
	for _, ev := range events {
		if ev.WatchRatio != nil && *ev.WatchRatio >= threshold {
			completed++
		}
	}
	return float64(completed) / float64(len(events)) * 100
}

// Controversial returns the event with the highest like ratio. Events
// without a like ratio are skipped; ties keep the earliest event. Returns
// ErrInsufficientData when no event carries a ratio.
func Controversial(events []models.EnrichedEvent) (*models.ControversialVideo, error) {
	var best *models.EnrichedEvent
	for i := range events {
		ev := &events[i]
		if ev.LikeRatio == nil {
			continue
		}
		if best == nil || *ev.LikeRatio > *best.LikeRatio {
			best = ev
		}
	}
	if best == nil {
		return nil, ErrInsufficientData
	}

	title := best.Title
	channel := ""
	if best.Metadata != nil {
		if best.Metadata.Title != "" {
			title = best.Metadata.Title
		}
		channel = best.Metadata.ChannelTitle
	}

	return &models.ControversialVideo{
		Title:     title,
		Channel:   channel,
		LikeRatio: *best.LikeRatio,
	}, nil
}

// TopGenre returns the most frequent genre, ignoring the Other bucket.
// Ties keep the genre encountered first. Returns Other when every event
// landed in the fallback bucket.
func TopGenre(events []models.EnrichedEvent) string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, ev := range events {
		if ev.Genre == enrich.GenreOther {
			continue
		}
		if _, ok := counts[ev.Genre]; !ok {
			order = append(order, ev.Genre)
		}
		counts[ev.Genre]++
	}

	if len(order) == 0 {
		return enrich.GenreOther
	}

	top := order[0]
	for _, g := range order[1:] {
		if counts[g] > counts[top] {
			top = g
		}
	}
	return top
}

// TopChannel returns the most frequent channel name across event subtitles.
// Ties keep the channel encountered first. Returns TopChannelNone when no
// event carries channel attribution.
func TopChannel(events []models.EnrichedEvent) string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, ev := range events {
		for _, ref := range ev.Subtitles {
			if ref.Name == "" {
				continue
			}
			if _, ok := counts[ref.Name]; !ok {
				order = append(order, ref.Name)
			}
			counts[ref.Name]++
		}
	}

	if len(order) == 0 {
		return TopChannelNone
	}

	top := order[0]
	for _, ch := range order[1:] {
		if counts[ch] > counts[top] {
			top = ch
		}
	}
	return top
}

// TopRegion returns the most frequent region label. The Unknown bucket
// participates in the count, matching the fallback semantics of the region
// mapping. Returns Unknown for an empty input.
func TopRegion(events []models.EnrichedEvent) string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, ev := range events {
		if _, ok := counts[ev.Region]; !ok {
			order = append(order, ev.Region)
		}
		counts[ev.Region]++
	}

	if len(order) == 0 {
		return enrich.RegionUnknown
	}

	top := order[0]
	for _, r := range order[1:] {
		if counts[r] > counts[top] {
			top = r
		}
	}
	return top
}

// ViewingByHour buckets events by wall-clock hour of their timestamp.
func ViewingByHour(events []models.EnrichedEvent) [24]int {
	var hist [24]int
	for _, ev := range events {
		hist[ev.Timestamp.Hour()]++
	}
	return hist
}

// PeakHour returns the hour with the most events; ties resolve to the
// smallest hour. Returns 0 for an empty histogram.
func PeakHour(hist [24]int) int {
	peak := 0
	for h := 1; h < 24; h++ {
		if hist[h] > hist[peak] {
			peak = h
		}
	}
	return peak
}

// GenreDistribution computes the genre share over events outside the Other
// bucket, sorted by count descending with first-encounter order breaking
// ties. Percentages are relative to the non-Other total.
func GenreDistribution(events []models.EnrichedEvent) []models.GenreShare {
	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0

	for _, ev := range events {
		if ev.Genre == enrich.GenreOther {
			continue
		}
		if _, ok := counts[ev.Genre]; !ok {
			order = append(order, ev.Genre)
		}
		counts[ev.Genre]++
		total++
	}

	if total == 0 {
		return nil
	}

	shares := make([]models.GenreShare, 0, len(order))
	for _, g := range order {
		shares = append(shares, models.GenreShare{
			Genre:      g,
			Count:      counts[g],
			Percentage: float64(counts[g]) / float64(total) * 100,
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	return shares
}

// AdExposure summarizes the advertisement partition. Ads without resolved
// durations contribute zero minutes.
func AdExposure(ads []models.EnrichedEvent) models.AdStats {
	stats := models.AdStats{Count: len(ads)}
	var seconds float64
	for _, ad := range ads {
		if ad.Metadata != nil && ad.Metadata.DurationSeconds != nil {
			seconds += *ad.Metadata.DurationSeconds
		}
	}
	stats.MinutesWasted = seconds / 60
	return stats
}

// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package models

import "time"

// RewindReport is the yearly summary returned by the rewind endpoint.
// All sub-aggregates are computed over content (non-ad) events for the
// requested year, except Ads which covers the ad partition.
type RewindReport struct {
	Year        int       `json:"year"`
	GeneratedAt time.Time `json:"generated_at"`

	// TotalVideos counts content watch events, not distinct video ids.
	TotalVideos int `json:"total_videos"`

	TopGenre   string `json:"top_genre"`
	TopChannel string `json:"top_channel"`
	TopRegion  string `json:"top_region"`

	// CompletionPercent is the share of content events with a watch ratio
	// of at least the completion threshold, over ALL content events
	// (events with unknown ratio count against completion).
	CompletionPercent float64 `json:"completion_percent"`

	// Controversial is omitted when no event carries a like ratio.
	Controversial *ControversialVideo `json:"controversial,omitempty"`

	GenreDistribution []GenreShare `json:"genre_distribution"`

	// ViewingByHour counts content events per local wall-clock hour.
	ViewingByHour [24]int `json:"viewing_by_hour"`
	PeakHour      int     `json:"peak_hour"`

	Sessions SessionStats `json:"sessions"`
	Ads      AdStats      `json:"ads"`
}

// ControversialVideo is the content event with the highest like ratio,
// interpreted as the most rage-baity watch of the year.
type ControversialVideo struct {
	Title     string  `json:"title"`
	Channel   string  `json:"channel"`
	LikeRatio float64 `json:"like_ratio"`
}

// GenreShare is one genre's slice of the yearly distribution.
type GenreShare struct {
	Genre      string  `json:"genre"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SessionStats summarizes session segmentation and binge detection.
// LongestBingeMinutes and MaxBingeVideos are nil when no session was
// flagged as a binge.
type SessionStats struct {
	Total               int      `json:"total"`
	BingeCount          int      `json:"binge_count"`
	LongestBingeMinutes *float64 `json:"longest_binge_minutes,omitempty"`
	MaxBingeVideos      *int     `json:"max_binge_videos,omitempty"`
}

// AdStats summarizes advertisement exposure. MinutesWasted sums the resolved
// durations of ad events; ads without resolved metadata contribute zero.
type AdStats struct {
	Count         int     `json:"count"`
	MinutesWasted float64 `json:"minutes_wasted"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

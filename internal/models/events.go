// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package models provides data structures for the Retrospectus application.
// This file contains the watch-history event model and its enriched forms as
// they travel through the analytics pipeline.
package models

import (
	"time"
)

// ChannelRef is a channel reference attached to a watch-history record.
// Takeout exports carry these under the "subtitles" key.
type ChannelRef struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Detail is a tag record attached to a watch-history record. Advertisement
// records carry a detail entry named "From Google Ads".
type Detail struct {
	Name string `json:"name"`
}

// WatchEvent is one normalized watch-history entry.
//
// Lifecycle: created once from a raw export record, immutable after
// classification and join, discarded at the end of the run.
//
// Invariants:
//   - Timestamp is always valid (records with unparseable time are dropped
//     during normalization).
//   - VideoID is non-empty for every event retained past normalization.
//   - IsAd is definite after classification; the ad and content partitions
//     are disjoint.
type WatchEvent struct {
	Timestamp time.Time    `json:"timestamp"`
	TitleURL  string       `json:"title_url,omitempty"`
	VideoID   string       `json:"video_id"`
	IsAd      bool         `json:"is_ad"`
	Title     string       `json:"title,omitempty"`
	Subtitles []ChannelRef `json:"subtitles,omitempty"`
	Details   []Detail     `json:"details,omitempty"`
}

// VideoMetadata holds resolved attributes for one video id, as returned by
// the metadata provider. Many WatchEvents may reference one VideoMetadata.
//
// DurationSeconds is nil when the provider's ISO-8601 duration string could
// not be parsed. Events whose id was not resolvable by the provider keep
// nil/zero metadata fields after the left join; they are never dropped.
type VideoMetadata struct {
	VideoID              string     `json:"video_id"`
	Title                string     `json:"title,omitempty"`
	ChannelTitle         string     `json:"channel_title,omitempty"`
	ChannelID            string     `json:"channel_id,omitempty"`
	CategoryID           string     `json:"category_id,omitempty"`
	DefaultAudioLanguage string     `json:"default_audio_language,omitempty"`
	PublishedAt          *time.Time `json:"published_at,omitempty"`
	DurationSeconds      *float64   `json:"duration_seconds,omitempty"`
	ViewCount            uint64     `json:"view_count"`
	LikeCount            uint64     `json:"like_count"`
}

// EnrichedEvent is a WatchEvent joined with its VideoMetadata plus the
// derived per-event fields used by the metrics engine.
//
// WatchSeconds approximates dwell time as the absolute time delta to the
// next content occurrence of the same video id in the original stream
// order (NOT global chronological order); ad events are passed over, and
// the last occurrence of an id has no delta.
// Replayed videos can therefore produce overlapping intervals - this is the
// documented semantic, not a defect to repair.
//
// WatchRatio is nil when WatchSeconds or DurationSeconds is nil or the
// duration is zero. LikeRatio is nil when no metadata resolved for the
// event; otherwise LikeCount / (ViewCount + 1).
type EnrichedEvent struct {
	WatchEvent

	Metadata *VideoMetadata `json:"metadata,omitempty"`

	Genre        string   `json:"genre"`
	Region       string   `json:"region"`
	WatchSeconds *float64 `json:"watch_seconds,omitempty"`
	WatchRatio   *float64 `json:"watch_ratio,omitempty"`
	LikeRatio    *float64 `json:"like_ratio,omitempty"`
}

// Session is a contiguous run of content events whose inter-event gaps do
// not exceed the segmentation threshold (default 30 minutes).
//
// Invariant: sessions partition the time-ordered content event set exactly;
// every retained event belongs to exactly one session, sessions are
// contiguous in time-sorted order and non-overlapping.
type Session struct {
	ID              int       `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	EventCount      int       `json:"event_count"`
	DurationMinutes float64   `json:"duration_minutes"`
	IsBinge         bool      `json:"is_binge"`
}

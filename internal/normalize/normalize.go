// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package normalize parses Google Takeout watch-history exports into the
// normalized event stream consumed by the analytics pipeline.
//
// A Takeout export is a single JSON array of heterogeneous activity records.
// Normalization performs, in order:
//
//  1. Decode the export body.
//  2. Parse each record's timestamp (records with a missing or unparseable
//     time are dropped and counted, never fatal).
//  3. Filter to the requested calendar year.
//  4. Extract the 11-character video id from the record URL (records
//     without an extractable id are dropped and counted).
//  5. Classify each event as advertisement or organic content.
//
// The ad and content partitions are disjoint and together cover every
// retained event exactly once.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/models"
)

var (
	// ErrNoData indicates that no watch events survived filtering for the
	// requested year.
	ErrNoData = errors.New("no watch events for requested year")

	// ErrNoTimeField indicates that no record in the export carried a time
	// field at all, which means the body is not a watch-history export.
	ErrNoTimeField = errors.New("export contains no time field")

	// ErrMalformedExport indicates the body could not be decoded as a
	// Takeout JSON export at all.
	ErrMalformedExport = errors.New("decode takeout export")
)

// adMarker is the details name Takeout attaches to served advertisements.
const adMarker = "From Google Ads"

// videoIDPattern extracts the 11-character video id from a watch URL.
// Matches both "watch?v=<id>" and short "youtu.be/<id>" forms.
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// timeLayouts lists accepted timestamp formats in order of likelihood.
// Takeout emits RFC3339 with millisecond precision.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
}

// rawRecord mirrors one Takeout activity record. Unknown fields are ignored.
type rawRecord struct {
	Header    string              `json:"header"`
	Title     string              `json:"title"`
	TitleURL  string              `json:"titleUrl"`
	Subtitles []models.ChannelRef `json:"subtitles"`
	Time      string              `json:"time"`
	Details   []models.Detail     `json:"details"`
}

// Stats reports what happened to the records of one export.
type Stats struct {
	TotalRecords  int `json:"total_records"`
	Normalized    int `json:"normalized"`
	SkippedNoTime int `json:"skipped_no_time"`
	SkippedNoID   int `json:"skipped_no_id"`
	OutsideYear   int `json:"outside_year"`
	AdCount       int `json:"ad_count"`
}

// Normalizer turns raw Takeout exports into normalized watch events.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize decodes a Takeout export and returns the normalized events for
// the given year in original stream order, together with per-run stats.
//
// Per-record defects (bad time, missing video id) drop that record only.
// Returns ErrNoTimeField when no record carries a time field, and ErrNoData
// when nothing survives the year filter.
func (n *Normalizer) Normalize(data []byte, year int) ([]models.WatchEvent, *Stats, error) {
	var records []rawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}

	stats := &Stats{TotalRecords: len(records)}
	if len(records) == 0 {
		return nil, stats, ErrNoData
	}

	sawTimeField := false
	events := make([]models.WatchEvent, 0, len(records))

	for _, rec := range records {
		if rec.Time == "" {
			stats.SkippedNoTime++
			continue
		}
		sawTimeField = true

		ts, err := parseTime(rec.Time)
		if err != nil {
			stats.SkippedNoTime++
			continue
		}

		if ts.Year() != year {
			stats.OutsideYear++
			continue
		}

		videoID := ExtractVideoID(rec.TitleURL)
		if videoID == "" {
			stats.SkippedNoID++
			continue
		}

		ev := models.WatchEvent{
			Timestamp: ts,
			TitleURL:  rec.TitleURL,
			VideoID:   videoID,
			IsAd:      isAd(rec),
			Title:     rec.Title,
			Subtitles: rec.Subtitles,
			Details:   rec.Details,
		}
		if ev.IsAd {
			stats.AdCount++
		}
		events = append(events, ev)
	}

	stats.Normalized = len(events)

	if !sawTimeField {
		return nil, stats, ErrNoTimeField
	}
	if len(events) == 0 {
		return nil, stats, ErrNoData
	}

	logging.Debug().
		Int("total", stats.TotalRecords).
		Int("normalized", stats.Normalized).
		Int("ads", stats.AdCount).
		Int("year", year).
		Msg("Normalized takeout export")

	return events, stats, nil
}

// ExtractVideoID returns the 11-character video id embedded in a watch URL,
// or empty string when the URL carries none.
func ExtractVideoID(url string) string {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// Partition splits events into organic content and advertisements.
// Order within each partition follows the input order.
func Partition(events []models.WatchEvent) (content, ads []models.WatchEvent) {
	for _, ev := range events {
		if ev.IsAd {
			ads = append(ads, ev)
		} else {
			content = append(content, ev)
		}
	}
	return content, ads
}

// parseTime tries the known timestamp layouts in order.
func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", value)
}

// isAd reports whether a record was served as an advertisement.
func isAd(rec rawRecord) bool {
	for _, d := range rec.Details {
		if d.Name == adMarker {
			return true
		}
	}
	return false
}

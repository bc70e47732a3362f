// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package session segments the time-ordered content event stream into
// viewing sessions.
//
// A session is a maximal run of events where no inter-event gap exceeds the
// configured threshold. Segmentation is a partition: every event belongs to
// exactly one session, sessions are contiguous in time order and
// non-overlapping.
package session

import (
	"sort"
	"time"

	"github.com/tomtom215/retrospectus/internal/metrics"
	"github.com/tomtom215/retrospectus/internal/models"
)

// DefaultGap is the inter-event gap that starts a new session.
const DefaultGap = 30 * time.Minute

// Segmenter splits event streams into sessions.
type Segmenter struct {
	gap time.Duration
}

// New creates a Segmenter. Non-positive gaps fall back to DefaultGap.
func New(gap time.Duration) *Segmenter {
	if gap <= 0 {
		gap = DefaultGap
	}
	return &Segmenter{gap: gap}
}

// Segment partitions events into sessions ordered by start time.
// Input order does not matter: events are stably sorted by timestamp first,
// with original stream position breaking timestamp ties so repeated runs
// produce identical sessions. Session ids start at 0.
//
// A gap strictly greater than the threshold opens a new session; a gap of
// exactly the threshold does not.
func (s *Segmenter) Segment(events []models.EnrichedEvent) []models.Session {
	if len(events) == 0 {
		return nil
	}
	start := time.Now()

	ordered := make([]models.EnrichedEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	sessions := make([]models.Session, 0)
	cur := models.Session{
		ID:         0,
		StartTime:  ordered[0].Timestamp,
		EndTime:    ordered[0].Timestamp,
		EventCount: 1,
	}

	for _, ev := range ordered[1:] {
		if ev.Timestamp.Sub(cur.EndTime) > s.gap {
			cur.DurationMinutes = cur.EndTime.Sub(cur.StartTime).Minutes()
			sessions = append(sessions, cur)
			cur = models.Session{
				ID:         cur.ID + 1,
				StartTime:  ev.Timestamp,
				EndTime:    ev.Timestamp,
				EventCount: 1,
			}
			continue
		}
		cur.EndTime = ev.Timestamp
		cur.EventCount++
	}
	cur.DurationMinutes = cur.EndTime.Sub(cur.StartTime).Minutes()
	sessions = append(sessions, cur)

	metrics.RecordPipelineStage("session", time.Since(start))
	return sessions
}

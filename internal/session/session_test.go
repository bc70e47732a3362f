// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package session

import (
	"testing"
	"time"

	"github.com/tomtom215/retrospectus/internal/models"
)

func at(ts time.Time) models.EnrichedEvent {
	return models.EnrichedEvent{WatchEvent: models.WatchEvent{Timestamp: ts}}
}

func TestSegmentSplitsOnLargeGap(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	events := []models.EnrichedEvent{
		at(base),
		at(base.Add(10 * time.Minute)),
		at(base.Add(55 * time.Minute)), // 45 minute gap: new session
		at(base.Add(60 * time.Minute)),
	}

	sessions := New(30 * time.Minute).Segment(events)

	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].EventCount != 2 || sessions[1].EventCount != 2 {
		t.Errorf("unexpected event counts: %d, %d", sessions[0].EventCount, sessions[1].EventCount)
	}
	if sessions[0].ID != 0 || sessions[1].ID != 1 {
		t.Errorf("expected sequential ids, got %d, %d", sessions[0].ID, sessions[1].ID)
	}
	if sessions[0].DurationMinutes != 10 {
		t.Errorf("expected 10 minute first session, got %f", sessions[0].DurationMinutes)
	}
	if sessions[1].DurationMinutes != 5 {
		t.Errorf("expected 5 minute second session, got %f", sessions[1].DurationMinutes)
	}
}

func TestSegmentKeepsSmallGapsTogether(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	events := []models.EnrichedEvent{
		at(base),
		at(base.Add(10 * time.Minute)),
		at(base.Add(20 * time.Minute)),
	}

	sessions := New(30 * time.Minute).Segment(events)

	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].EventCount != 3 {
		t.Errorf("expected 3 events, got %d", sessions[0].EventCount)
	}
}

func TestSegmentGapExactlyAtThresholdStaysTogether(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	events := []models.EnrichedEvent{
		at(base),
		at(base.Add(30 * time.Minute)), // exactly the threshold
	}

	sessions := New(30 * time.Minute).Segment(events)

	if len(sessions) != 1 {
		t.Fatalf("gap equal to threshold must not split; got %d sessions", len(sessions))
	}
}

func TestSegmentSortsInput(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	events := []models.EnrichedEvent{
		at(base.Add(60 * time.Minute)),
		at(base),
		at(base.Add(5 * time.Minute)),
	}

	sessions := New(30 * time.Minute).Segment(events)

	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions from unsorted input, got %d", len(sessions))
	}
	if !sessions[0].StartTime.Equal(base) {
		t.Errorf("expected first session to start at base, got %s", sessions[0].StartTime)
	}
	if sessions[0].EventCount != 2 {
		t.Errorf("expected 2 events in first session, got %d", sessions[0].EventCount)
	}
}

func TestSegmentPartitionProperty(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events := make([]models.EnrichedEvent, 0, 50)
	for i := 0; i < 50; i++ {
		// Irregular spacing: every 7th gap exceeds the threshold.
		offset := time.Duration(i) * 10 * time.Minute
		if i%7 == 0 {
			offset += time.Duration(i) * 25 * time.Minute
		}
		events = append(events, at(base.Add(offset)))
	}

	sessions := New(30 * time.Minute).Segment(events)

	total := 0
	for i, s := range sessions {
		total += s.EventCount
		if s.EndTime.Before(s.StartTime) {
			t.Errorf("session %d ends before it starts", i)
		}
		if i > 0 && !sessions[i-1].EndTime.Before(s.StartTime) {
			t.Errorf("session %d overlaps previous", i)
		}
		if s.ID != i {
			t.Errorf("expected id %d, got %d", i, s.ID)
		}
	}
	if total != len(events) {
		t.Errorf("sessions must partition events: %d != %d", total, len(events))
	}
}

func TestSegmentEmpty(t *testing.T) {
	t.Parallel()

	if got := New(0).Segment(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestSegmentSingleEvent(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	sessions := New(30 * time.Minute).Segment([]models.EnrichedEvent{at(base)})

	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].EventCount != 1 || sessions[0].DurationMinutes != 0 {
		t.Errorf("unexpected session: %+v", sessions[0])
	}
}

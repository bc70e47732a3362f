// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package binge

import (
	"testing"

	"github.com/tomtom215/retrospectus/internal/config"
	"github.com/tomtom215/retrospectus/internal/models"
)

func defaultBingeConfig() config.BingeConfig {
	return config.BingeConfig{
		Trees:         100,
		SampleSize:    256,
		Contamination: 0.1,
		Seed:          42,
		MinSessions:   5,
	}
}

// ordinarySessions builds n sessions with mild, similar viewing patterns.
func ordinarySessions(n int) []models.Session {
	sessions := make([]models.Session, n)
	for i := range sessions {
		sessions[i] = models.Session{
			ID:              i,
			EventCount:      3 + i%3,
			DurationMinutes: 25 + float64(i%5)*4,
		}
	}
	return sessions
}

func TestClassifyFlagsObviousOutlier(t *testing.T) {
	t.Parallel()

	sessions := ordinarySessions(29)
	sessions = append(sessions, models.Session{
		ID:              29,
		EventCount:      60,
		DurationMinutes: 700,
	})

	out := NewDetector(defaultBingeConfig()).Classify(sessions)

	if !out[29].IsBinge {
		t.Error("expected the extreme session to be flagged")
	}
}

func TestClassifyFlagCount(t *testing.T) {
	t.Parallel()

	sessions := ordinarySessions(30)
	out := NewDetector(defaultBingeConfig()).Classify(sessions)

	flagged := 0
	for _, s := range out {
		if s.IsBinge {
			flagged++
		}
	}

	// ceil(0.1 * 30) = 3
	if flagged != 3 {
		t.Errorf("expected 3 flagged sessions, got %d", flagged)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	sessions := ordinarySessions(40)
	sessions[7].EventCount = 45
	sessions[7].DurationMinutes = 500

	d := NewDetector(defaultBingeConfig())

	first := d.Classify(sessions)
	second := d.Classify(sessions)

	for i := range first {
		if first[i].IsBinge != second[i].IsBinge {
			t.Fatalf("non-deterministic flag at session %d", i)
		}
	}
}

func TestClassifyTooFewSessions(t *testing.T) {
	t.Parallel()

	sessions := []models.Session{
		{ID: 0, EventCount: 2, DurationMinutes: 10},
		{ID: 1, EventCount: 50, DurationMinutes: 600}, // extreme, but sample too small
		{ID: 2, EventCount: 3, DurationMinutes: 15},
	}

	out := NewDetector(defaultBingeConfig()).Classify(sessions)

	for _, s := range out {
		if s.IsBinge {
			t.Errorf("no session should be flagged below the minimum, but %d was", s.ID)
		}
	}
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	sessions := ordinarySessions(20)
	_ = NewDetector(defaultBingeConfig()).Classify(sessions)

	for _, s := range sessions {
		if s.IsBinge {
			t.Fatal("Classify must not mutate its input")
		}
	}
}

func TestClassifyIdenticalSessions(t *testing.T) {
	t.Parallel()

	// All-identical features produce a flat score distribution; there is
	// no outlier to flag and no arbitrary cut should be made.
	sessions := make([]models.Session, 10)
	for i := range sessions {
		sessions[i] = models.Session{ID: i, EventCount: 4, DurationMinutes: 30}
	}

	out := NewDetector(defaultBingeConfig()).Classify(sessions)

	for _, s := range out {
		if s.IsBinge {
			t.Errorf("session %d flagged despite identical features", s.ID)
		}
	}
}

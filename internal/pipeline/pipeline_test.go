// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/retrospectus/internal/config"
	"github.com/tomtom215/retrospectus/internal/models"
	"github.com/tomtom215/retrospectus/internal/normalize"
)

// stubEnricher applies a fixed metadata map without touching the network.
type stubEnricher struct {
	metaByID map[string]models.VideoMetadata
	err      error
}

func (s *stubEnricher) Enrich(_ context.Context, events []models.WatchEvent) ([]models.EnrichedEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.EnrichedEvent, 0, len(events))
	for _, ev := range events {
		e := models.EnrichedEvent{WatchEvent: ev, Genre: "Other", Region: "Unknown"}
		if meta, ok := s.metaByID[ev.VideoID]; ok {
			m := meta
			e.Metadata = &m
			e.Genre = "Music"
			e.Region = "USA"
			if m.DurationSeconds != nil {
				ratio := 1.0
				e.WatchRatio = &ratio
			}
			lr := float64(m.LikeCount) / float64(m.ViewCount+1)
			e.LikeRatio = &lr
		}
		out = append(out, e)
	}
	return out, nil
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		SessionGapMinutes:   30,
		CompletionThreshold: 0.9,
		Binge: config.BingeConfig{
			Trees:         100,
			SampleSize:    256,
			Contamination: 0.1,
			Seed:          42,
			MinSessions:   5,
		},
	}
}

const sampleExport = `[
  {
    "header": "YouTube",
    "title": "Watched First Song",
    "titleUrl": "https://www.youtube.com/watch?v=aaaaaaaaaaa",
    "subtitles": [{"name": "Music Channel", "url": "https://www.youtube.com/channel/UC1"}],
    "time": "2024-06-01T10:00:00.000Z"
  },
  {
    "header": "YouTube",
    "title": "Watched Second Song",
    "titleUrl": "https://www.youtube.com/watch?v=bbbbbbbbbbb",
    "subtitles": [{"name": "Music Channel", "url": "https://www.youtube.com/channel/UC1"}],
    "time": "2024-06-01T10:10:00.000Z"
  },
  {
    "header": "YouTube",
    "title": "Watched Some Ad",
    "titleUrl": "https://www.youtube.com/watch?v=ccccccccccc",
    "time": "2024-06-01T10:15:00.000Z",
    "details": [{"name": "From Google Ads"}]
  }
]`

func TestGenerateReport(t *testing.T) {
	t.Parallel()

	dur := 240.0
	enricher := &stubEnricher{metaByID: map[string]models.VideoMetadata{
		"aaaaaaaaaaa": {VideoID: "aaaaaaaaaaa", Title: "First Song", ChannelTitle: "Music Channel", DurationSeconds: &dur, ViewCount: 999, LikeCount: 500},
		"bbbbbbbbbbb": {VideoID: "bbbbbbbbbbb", Title: "Second Song", ChannelTitle: "Music Channel", DurationSeconds: &dur, ViewCount: 99, LikeCount: 10},
		"ccccccccccc": {VideoID: "ccccccccccc", DurationSeconds: &dur},
	}}

	report, err := New(testPipelineConfig(), enricher).Generate(context.Background(), []byte(sampleExport), 2024)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.Year != 2024 {
		t.Errorf("Year = %d, want 2024", report.Year)
	}
	if report.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2 (ads excluded)", report.TotalVideos)
	}
	if report.TopGenre != "Music" {
		t.Errorf("TopGenre = %q, want Music", report.TopGenre)
	}
	if report.TopChannel != "Music Channel" {
		t.Errorf("TopChannel = %q", report.TopChannel)
	}
	if report.CompletionPercent != 100 {
		t.Errorf("CompletionPercent = %v, want 100", report.CompletionPercent)
	}
	if report.Controversial == nil {
		t.Fatal("expected a controversial pick")
	}
	if report.Controversial.Title != "First Song" {
		t.Errorf("Controversial.Title = %q, want First Song (500/1000 beats 10/100)", report.Controversial.Title)
	}
	if report.PeakHour != 10 {
		t.Errorf("PeakHour = %d, want 10", report.PeakHour)
	}
	if report.Sessions.Total != 1 {
		t.Errorf("Sessions.Total = %d, want 1 (10-minute gap stays together)", report.Sessions.Total)
	}
	if report.Sessions.BingeCount != 0 {
		t.Errorf("BingeCount = %d, want 0 (below the minimum session count)", report.Sessions.BingeCount)
	}
	if report.Ads.Count != 1 {
		t.Errorf("Ads.Count = %d, want 1", report.Ads.Count)
	}
	if report.Ads.MinutesWasted != 4 {
		t.Errorf("Ads.MinutesWasted = %v, want 4", report.Ads.MinutesWasted)
	}
}

func TestGenerateNoEventsInYear(t *testing.T) {
	t.Parallel()

	p := New(testPipelineConfig(), &stubEnricher{})
	_, err := p.Generate(context.Background(), []byte(sampleExport), 2019)
	if !errors.Is(err, normalize.ErrNoData) {
		t.Errorf("expected ErrNoData for an empty year, got %v", err)
	}
}

func TestGenerateAdsOnly(t *testing.T) {
	t.Parallel()

	adsOnly := `[{
	  "title": "Watched Some Ad",
	  "titleUrl": "https://www.youtube.com/watch?v=ccccccccccc",
	  "time": "2024-06-01T10:15:00.000Z",
	  "details": [{"name": "From Google Ads"}]
	}]`

	p := New(testPipelineConfig(), &stubEnricher{})
	_, err := p.Generate(context.Background(), []byte(adsOnly), 2024)
	if !errors.Is(err, normalize.ErrNoData) {
		t.Errorf("expected ErrNoData for an ads-only export, got %v", err)
	}
}

func TestGenerateEnricherFailure(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("metadata provider: upstream down")
	p := New(testPipelineConfig(), &stubEnricher{err: providerErr})

	_, err := p.Generate(context.Background(), []byte(sampleExport), 2024)
	if !errors.Is(err, providerErr) {
		t.Errorf("expected the provider error to propagate, got %v", err)
	}
}

func TestGenerateNoTimeField(t *testing.T) {
	t.Parallel()

	p := New(testPipelineConfig(), &stubEnricher{})
	_, err := p.Generate(context.Background(), []byte(`[{"title": "Watched x"}]`), 2024)
	if !errors.Is(err, normalize.ErrNoTimeField) {
		t.Errorf("expected ErrNoTimeField, got %v", err)
	}
}

func TestSessionStatsBingeExtrema(t *testing.T) {
	t.Parallel()

	sessions := []models.Session{
		{ID: 0, EventCount: 3, DurationMinutes: 20},
		{ID: 1, EventCount: 12, DurationMinutes: 180, IsBinge: true},
		{ID: 2, EventCount: 25, DurationMinutes: 150, IsBinge: true},
		{ID: 3, EventCount: 4, DurationMinutes: 30},
	}

	stats := sessionStats(sessions)

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.BingeCount != 2 {
		t.Errorf("BingeCount = %d, want 2", stats.BingeCount)
	}
	if stats.LongestBingeMinutes == nil || *stats.LongestBingeMinutes != 180 {
		t.Errorf("LongestBingeMinutes = %v, want 180", stats.LongestBingeMinutes)
	}
	if stats.MaxBingeVideos == nil || *stats.MaxBingeVideos != 25 {
		t.Errorf("MaxBingeVideos = %v, want 25", stats.MaxBingeVideos)
	}
}

func TestSessionStatsNoBinges(t *testing.T) {
	t.Parallel()

	stats := sessionStats([]models.Session{{ID: 0, EventCount: 3, DurationMinutes: 20}})

	if stats.LongestBingeMinutes != nil || stats.MaxBingeVideos != nil {
		t.Error("binge extrema must be nil when nothing was flagged")
	}
}

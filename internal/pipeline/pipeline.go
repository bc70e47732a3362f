// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package pipeline runs the full rewind computation: decode the Takeout
// export, enrich events with video metadata, segment sessions, classify
// binges, and aggregate the yearly report.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/retrospectus/internal/analytics"
	"github.com/tomtom215/retrospectus/internal/binge"
	"github.com/tomtom215/retrospectus/internal/config"
	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/metrics"
	"github.com/tomtom215/retrospectus/internal/models"
	"github.com/tomtom215/retrospectus/internal/normalize"
	"github.com/tomtom215/retrospectus/internal/session"
)

// MetadataEnricher joins watch events to video metadata.
type MetadataEnricher interface {
	Enrich(ctx context.Context, events []models.WatchEvent) ([]models.EnrichedEvent, error)
}

// Pipeline wires the processing stages behind a single Generate call.
// It is safe for concurrent use: every stage is stateless per request.
type Pipeline struct {
	normalizer *normalize.Normalizer
	enricher   MetadataEnricher
	segmenter  *session.Segmenter
	classifier binge.Classifier
	cfg        config.PipelineConfig
}

// New builds a Pipeline from the tuning config and a metadata enricher.
func New(cfg config.PipelineConfig, enricher MetadataEnricher) *Pipeline {
	return &Pipeline{
		normalizer: normalize.New(),
		enricher:   enricher,
		segmenter:  session.New(cfg.SessionGap()),
		classifier: binge.NewDetector(cfg.Binge),
		cfg:        cfg,
	}
}

// Generate computes the rewind report for one year from a raw Takeout
// export. Sentinel errors from the normalize stage pass through unwrapped
// so callers can map them to client errors; enrichment failures are
// provider errors.
func (p *Pipeline) Generate(ctx context.Context, data []byte, year int) (report *models.RewindReport, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRewindGeneration(year, time.Since(start), err)
	}()

	log := logging.LoggerFromContext(ctx).With().
		Str("component", "pipeline").
		Int("year", year).
		Logger()

	normStart := time.Now()
	events, stats, err := p.normalizer.Normalize(data, year)
	metrics.RecordPipelineStage("normalize", time.Since(normStart))
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("total_records", stats.TotalRecords).
		Int("normalized", stats.Normalized).
		Int("outside_year", stats.OutsideYear).
		Int("ads", stats.AdCount).
		Msg("export normalized")

	enriched, err := p.enricher.Enrich(ctx, events)
	if err != nil {
		return nil, err
	}

	content, ads := partitionEnriched(enriched)
	metrics.PipelineEventsProcessed.WithLabelValues("content").Add(float64(len(content)))
	metrics.PipelineEventsProcessed.WithLabelValues("ad").Add(float64(len(ads)))

	if len(content) == 0 {
		// An export made of nothing but ads has no watchable history.
		return nil, normalize.ErrNoData
	}

	sessions := p.classifier.Classify(p.segmenter.Segment(content))

	aggStart := time.Now()
	report = p.aggregate(year, content, ads, sessions)
	metrics.RecordPipelineStage("analytics", time.Since(aggStart))

	log.Info().
		Int("events", len(content)).
		Int("sessions", len(sessions)).
		Int("binges", report.Sessions.BingeCount).
		Dur("elapsed", time.Since(start)).
		Msg("rewind report generated")

	return report, nil
}

func (p *Pipeline) aggregate(year int, content, ads []models.EnrichedEvent, sessions []models.Session) *models.RewindReport {
	hist := analytics.ViewingByHour(content)

	report := &models.RewindReport{
		Year:              year,
		GeneratedAt:       time.Now().UTC(),
		TotalVideos:       len(content),
		TopGenre:          analytics.TopGenre(content),
		TopChannel:        analytics.TopChannel(content),
		TopRegion:         analytics.TopRegion(content),
		CompletionPercent: analytics.CompletionRate(content, p.cfg.CompletionThreshold),
		GenreDistribution: analytics.GenreDistribution(content),
		ViewingByHour:     hist,
		PeakHour:          analytics.PeakHour(hist),
		Sessions:          sessionStats(sessions),
		Ads:               analytics.AdExposure(ads),
	}

	controversial, err := analytics.Controversial(content)
	if err == nil {
		report.Controversial = controversial
	} else if !errors.Is(err, analytics.ErrInsufficientData) {
		logging.Warn().Err(err).Msg("controversial pick failed")
	}

	return report
}

// sessionStats folds classified sessions into the report aggregate. The
// binge extrema stay nil when nothing was flagged.
func sessionStats(sessions []models.Session) models.SessionStats {
	stats := models.SessionStats{Total: len(sessions)}

	for _, s := range sessions {
		if !s.IsBinge {
			continue
		}
		stats.BingeCount++
		if stats.LongestBingeMinutes == nil || s.DurationMinutes > *stats.LongestBingeMinutes {
			d := s.DurationMinutes
			stats.LongestBingeMinutes = &d
		}
		if stats.MaxBingeVideos == nil || s.EventCount > *stats.MaxBingeVideos {
			n := s.EventCount
			stats.MaxBingeVideos = &n
		}
	}

	return stats
}

func partitionEnriched(events []models.EnrichedEvent) (content, ads []models.EnrichedEvent) {
	for _, e := range events {
		if e.IsAd {
			ads = append(ads, e)
		} else {
			content = append(content, e)
		}
	}
	return content, ads
}

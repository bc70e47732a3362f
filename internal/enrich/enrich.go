// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package enrich joins normalized watch events with YouTube video metadata
// and derives the per-event fields the metrics engine consumes.
//
// Enrichment is a left join: every input event appears in the output exactly
// once and in input order, whether or not its video id resolved. Metadata
// lookups are batched (50 ids per call, the Data API limit) and executed
// concurrently under a bounded worker count.
package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/metrics"
	"github.com/tomtom215/retrospectus/internal/models"
	"github.com/tomtom215/retrospectus/internal/youtube"
)

// Enricher joins watch events with video metadata.
type Enricher struct {
	lister      youtube.VideoLister
	batchSize   int
	concurrency int
}

// New creates an Enricher. batchSize is clamped to the API maximum;
// concurrency below 1 becomes 1.
func New(lister youtube.VideoLister, batchSize, concurrency int) *Enricher {
	if batchSize < 1 || batchSize > youtube.MaxBatchSize {
		batchSize = youtube.MaxBatchSize
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{
		lister:      lister,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// Enrich resolves metadata for every distinct video id in events and returns
// the joined, derived event stream in input order.
//
// Provider failures are partial by design: batches that succeeded before the
// failure still enrich their events, and the error is returned alongside the
// (partially) enriched result so callers can decide whether to degrade or
// abort. Events whose id did not resolve keep nil metadata and fall back to
// GenreOther / RegionUnknown.
func (e *Enricher) Enrich(ctx context.Context, events []models.WatchEvent) ([]models.EnrichedEvent, error) {
	start := time.Now()

	ids := distinctIDs(events)
	metaByID, err := e.fetchMetadata(ctx, ids)

	enriched := join(events, metaByID)

	metrics.RecordPipelineStage("enrich", time.Since(start))
	logging.Debug().
		Int("events", len(events)).
		Int("distinct_ids", len(ids)).
		Int("resolved", len(metaByID)).
		Msg("Enrichment complete")

	if err != nil {
		return enriched, fmt.Errorf("metadata provider: %w", err)
	}
	return enriched, nil
}

// distinctIDs returns the unique video ids in first-seen order.
func distinctIDs(events []models.WatchEvent) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.VideoID]; ok {
			continue
		}
		seen[ev.VideoID] = struct{}{}
		ids = append(ids, ev.VideoID)
	}
	return ids
}

// fetchMetadata resolves ids in concurrent bounded batches. The returned map
// holds every id that resolved before any failure; the first batch error is
// returned after all workers finish.
func (e *Enricher) fetchMetadata(ctx context.Context, ids []string) (map[string]models.VideoMetadata, error) {
	metaByID := make(map[string]models.VideoMetadata, len(ids))
	if len(ids) == 0 {
		return metaByID, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	sem := make(chan struct{}, e.concurrency)

	for start := 0; start < len(ids); start += e.batchSize {
		end := start + e.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			metas, err := e.lister.ListVideos(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for _, m := range metas {
				metaByID[m.VideoID] = m
			}
		}()
	}

	wg.Wait()
	return metaByID, firstErr
}

// join produces the enriched stream: metadata left join plus derived fields.
func join(events []models.WatchEvent, metaByID map[string]models.VideoMetadata) []models.EnrichedEvent {
	watchSeconds := watchDeltas(events)

	enriched := make([]models.EnrichedEvent, len(events))
	for i, ev := range events {
		ee := models.EnrichedEvent{
			WatchEvent:   ev,
			Genre:        GenreOther,
			Region:       RegionUnknown,
			WatchSeconds: watchSeconds[i],
		}

		if meta, ok := metaByID[ev.VideoID]; ok {
			m := meta
			ee.Metadata = &m
			ee.Genre = GenreForCategory(meta.CategoryID)
			ee.Region = RegionForLanguage(meta.DefaultAudioLanguage)

			ratio := float64(meta.LikeCount) / float64(meta.ViewCount+1)
			ee.LikeRatio = &ratio

			if ee.WatchSeconds != nil && meta.DurationSeconds != nil && *meta.DurationSeconds > 0 {
				wr := *ee.WatchSeconds / *meta.DurationSeconds
				ee.WatchRatio = &wr
			}
		}

		enriched[i] = ee
	}
	return enriched
}

// watchDeltas approximates dwell time per event as the absolute time delta
// to the next content occurrence of the same video id in stream order.
// Ad events neither receive a delta nor terminate one: a video served as
// an ad between two watches of the same id must not cut the first watch
// short. The last occurrence of each id gets nil. Replays of the same
// video can produce overlapping intervals; that is the accepted semantic.
func watchDeltas(events []models.WatchEvent) []*float64 {
	// Index of the previous content occurrence per video id, walked front
	// to back.
	prevIndex := make(map[string]int, len(events))
	deltas := make([]*float64, len(events))

	for i, ev := range events {
		if ev.IsAd {
			continue
		}
		if j, ok := prevIndex[ev.VideoID]; ok {
			d := ev.Timestamp.Sub(events[j].Timestamp).Seconds()
			if d < 0 {
				d = -d
			}
			deltas[j] = &d
		}
		prevIndex[ev.VideoID] = i
	}
	return deltas
}

// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package binge flags statistically anomalous viewing sessions using an
// isolation forest over per-session features (event count and duration).
//
// Detection is fully deterministic: all randomness derives from the
// configured seed, so identical inputs always produce identical flags.
package binge

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/tomtom215/retrospectus/internal/config"
	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/metrics"
	"github.com/tomtom215/retrospectus/internal/models"
)

// Classifier marks binge sessions in a session list.
type Classifier interface {
	Classify(sessions []models.Session) []models.Session
}

// Detector is the isolation-forest Classifier.
type Detector struct {
	cfg config.BingeConfig
}

var _ Classifier = (*Detector)(nil)

// NewDetector creates a Detector with the given tuning. Zero-valued fields
// fall back to the defaults (100 trees, subsample 256, contamination 0.1,
// seed 42, minimum 5 sessions).
func NewDetector(cfg config.BingeConfig) *Detector {
	if cfg.Trees < 1 {
		cfg.Trees = 100
	}
	if cfg.SampleSize < 2 {
		cfg.SampleSize = 256
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 0.5 {
		cfg.Contamination = 0.1
	}
	if cfg.MinSessions < 1 {
		cfg.MinSessions = 5
	}
	return &Detector{cfg: cfg}
}

// Classify returns a copy of sessions with IsBinge set on the outlier
// fraction given by the contamination rate. The ceil(contamination * n)
// highest-scoring sessions are flagged, with session order breaking score
// ties. Fewer than MinSessions sessions flags nothing: the forest has no
// statistical footing on tiny samples. All-equal scores also flag
// nothing, since a flat distribution has no outliers.
func (d *Detector) Classify(sessions []models.Session) []models.Session {
	start := time.Now()

	out := make([]models.Session, len(sessions))
	copy(out, sessions)
	for i := range out {
		out[i].IsBinge = false
	}

	if len(out) < d.cfg.MinSessions {
		return out
	}

	data := make([]point, len(out))
	for i, s := range out {
		data[i] = point{float64(s.EventCount), s.DurationMinutes}
	}

	rng := rand.New(rand.NewSource(d.cfg.Seed)) //nolint:gosec // deterministic scoring, not crypto
	f := buildForest(data, d.cfg.Trees, d.cfg.SampleSize, rng)

	scores := make([]float64, len(data))
	minScore, maxScore := math.Inf(1), math.Inf(-1)
	for i, p := range data {
		scores[i] = f.score(p)
		minScore = math.Min(minScore, scores[i])
		maxScore = math.Max(maxScore, scores[i])
	}

	// A flat score distribution has no outliers to rank; flagging the
	// contamination fraction of identical sessions would be arbitrary.
	if minScore == maxScore {
		metrics.RecordPipelineStage("binge", time.Since(start))
		logging.Debug().
			Int("sessions", len(out)).
			Int("flagged", 0).
			Msg("Binge detection complete")
		return out
	}

	k := int(math.Ceil(d.cfg.Contamination * float64(len(out))))
	if k < 1 {
		k = 1
	}

	ranked := make([]int, len(out))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})

	for _, idx := range ranked[:k] {
		out[idx].IsBinge = true
	}

	metrics.RecordPipelineStage("binge", time.Since(start))
	logging.Debug().
		Int("sessions", len(out)).
		Int("flagged", k).
		Msg("Binge detection complete")

	return out
}

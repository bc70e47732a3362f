// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package youtube

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/retrospectus/internal/models"
)

type fakeLister struct {
	metas []models.VideoMetadata
	err   error
	calls int
}

func (f *fakeLister) ListVideos(_ context.Context, _ []string) ([]models.VideoMetadata, error) {
	f.calls++
	return f.metas, f.err
}

func TestCircuitBreakerPassthrough(t *testing.T) {
	t.Parallel()

	fake := &fakeLister{
		metas: []models.VideoMetadata{{VideoID: "f6kdp27TYZs", Title: "Go Concurrency Patterns"}},
	}
	cbc := WrapWithCircuitBreaker(fake)

	metas, err := cbc.ListVideos(context.Background(), []string{"f6kdp27TYZs"})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if len(metas) != 1 || metas[0].VideoID != "f6kdp27TYZs" {
		t.Errorf("unexpected result: %+v", metas)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 underlying call, got %d", fake.calls)
	}
}

func TestCircuitBreakerPropagatesErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("videos.list failed with status 500")
	fake := &fakeLister{err: wantErr}
	cbc := WrapWithCircuitBreaker(fake)

	_, err := cbc.ListVideos(context.Background(), []string{"f6kdp27TYZs"})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected underlying error, got %v", err)
	}
}

func TestCircuitBreakerOpensOnSustainedFailures(t *testing.T) {
	t.Parallel()

	fake := &fakeLister{err: errors.New("provider down")}
	cbc := WrapWithCircuitBreaker(fake)

	// Failure ratio hits 100% after 10 requests, which is over the 60% trip
	// threshold: the breaker should stop forwarding calls.
	for i := 0; i < 15; i++ {
		_, _ = cbc.ListVideos(context.Background(), []string{"f6kdp27TYZs"})
	}

	if fake.calls >= 15 {
		t.Errorf("expected breaker to reject some calls, but all %d reached the client", fake.calls)
	}
}

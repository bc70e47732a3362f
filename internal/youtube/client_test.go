// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/retrospectus/internal/config"
)

func testConfig(baseURL string) *config.YouTubeConfig {
	return &config.YouTubeConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		BatchSize:   50,
		Timeout:     5 * time.Second,
		RateLimit:   1000, // Effectively unlimited for tests
		Concurrency: 4,
	}
}

const videoListBody = `{
	"items": [
		{
			"id": "f6kdp27TYZs",
			"snippet": {
				"title": "Go Concurrency Patterns",
				"channelTitle": "Google for Developers",
				"channelId": "UC_x5XG1OV2P6uZZ5FSM9Ttw",
				"categoryId": "28",
				"defaultAudioLanguage": "en",
				"publishedAt": "2012-07-10T18:00:00Z"
			},
			"contentDetails": {"duration": "PT51M27S"},
			"statistics": {"viewCount": "1000000", "likeCount": "25000"}
		},
		{
			"id": "abcdefghijk",
			"snippet": {"title": "No stats video"},
			"contentDetails": {"duration": "bogus"},
			"statistics": {}
		}
	]
}`

func TestListVideos(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(videoListBody))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	metas, err := client.ListVideos(context.Background(), []string{"f6kdp27TYZs", "abcdefghijk", "missing12345"})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}

	if !strings.Contains(gotQuery, "key=test-key") {
		t.Errorf("expected API key in query, got %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "id=f6kdp27TYZs%2Cabcdefghijk%2Cmissing12345") {
		t.Errorf("expected comma-joined ids in query, got %q", gotQuery)
	}

	// Unknown id is simply absent, not an error
	if len(metas) != 2 {
		t.Fatalf("expected 2 resolved videos, got %d", len(metas))
	}

	first := metas[0]
	if first.VideoID != "f6kdp27TYZs" {
		t.Errorf("unexpected video id %q", first.VideoID)
	}
	if first.ChannelTitle != "Google for Developers" {
		t.Errorf("unexpected channel %q", first.ChannelTitle)
	}
	if first.DurationSeconds == nil || *first.DurationSeconds != 51*60+27 {
		t.Errorf("unexpected duration %v", first.DurationSeconds)
	}
	if first.ViewCount != 1000000 || first.LikeCount != 25000 {
		t.Errorf("unexpected statistics: views=%d likes=%d", first.ViewCount, first.LikeCount)
	}
	if first.PublishedAt == nil {
		t.Error("expected published timestamp")
	}

	// Unparseable duration resolves to nil, empty stats to zero
	second := metas[1]
	if second.DurationSeconds != nil {
		t.Errorf("expected nil duration for bogus value, got %v", *second.DurationSeconds)
	}
	if second.ViewCount != 0 || second.LikeCount != 0 {
		t.Errorf("expected zero counts, got views=%d likes=%d", second.ViewCount, second.LikeCount)
	}
}

func TestListVideosEmptyIDs(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig("http://unused.invalid"))

	metas, err := client.ListVideos(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error for empty ids, got %v", err)
	}
	if metas != nil {
		t.Errorf("expected nil result for empty ids, got %v", metas)
	}
}

func TestListVideosTooManyIDs(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig("http://unused.invalid"))

	ids := make([]string, MaxBatchSize+1)
	for i := range ids {
		ids[i] = "aaaaaaaaaaa"
	}

	if _, err := client.ListVideos(context.Background(), ids); err == nil {
		t.Error("expected error for oversized batch")
	}
}

func TestListVideosRetriesOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	client.retryBaseDelay = time.Millisecond

	if _, err := client.ListVideos(context.Background(), []string{"f6kdp27TYZs"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls (429 then 200), got %d", got)
	}
}

func TestListVideosGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	client.retryBaseDelay = time.Millisecond

	if _, err := client.ListVideos(context.Background(), []string{"f6kdp27TYZs"}); err == nil {
		t.Error("expected error after exhausting retries")
	}
}

func TestListVideosServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.ListVideos(context.Background(), []string{"f6kdp27TYZs"})
	if err == nil {
		t.Fatal("expected error for HTTP 403")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestListVideosContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.ListVideos(ctx, []string{"f6kdp27TYZs"}); err == nil {
		t.Error("expected context cancellation during backoff")
	}
}

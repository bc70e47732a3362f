// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package youtube provides the YouTube Data API v3 client used for video
// metadata enrichment.
//
// The client implements VideoLister and provides access to the videos.list
// endpoint with built-in client-side rate limiting and exponential backoff
// for HTTP 429 responses. Wrap it with NewCircuitBreakerClient for
// production use.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/retrospectus/internal/config"
	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/metrics"
	"github.com/tomtom215/retrospectus/internal/models"
)

// MaxBatchSize is the videos.list API limit on ids per call.
const MaxBatchSize = 50

// ErrTooManyIDs indicates a single ListVideos call exceeded MaxBatchSize.
var ErrTooManyIDs = errors.New("too many video ids for a single videos.list call")

// VideoLister resolves video ids to metadata. Implementations must tolerate
// unknown ids: the returned slice contains only the ids the provider knows,
// and callers treat missing ids as unresolved rather than failing.
type VideoLister interface {
	ListVideos(ctx context.Context, ids []string) ([]models.VideoMetadata, error)
}

// Client handles communication with the YouTube Data API v3.
//
// Features:
//   - Client-side rate limiting (token bucket via golang.org/x/time/rate)
//   - Automatic retry on HTTP 429 with exponential backoff (1s, 2s, 4s, 8s, 16s)
//   - Retry-After header support (RFC 6585)
//   - JSON parsing with typed response structs
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
//
// Example:
//
//	client := youtube.NewClient(&cfg.YouTube)
//	metas, err := client.ListVideos(ctx, ids[:50])
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a new YouTube Data API client with the provided configuration.
func NewClient(cfg *config.YouTubeConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// videoListResponse mirrors the videos.list response envelope.
// Ids unknown to the API are simply absent from Items.
type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title                string    `json:"title"`
		ChannelTitle         string    `json:"channelTitle"`
		ChannelID            string    `json:"channelId"`
		CategoryID           string    `json:"categoryId"`
		DefaultAudioLanguage string    `json:"defaultAudioLanguage"`
		PublishedAt          time.Time `json:"publishedAt"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
		LikeCount string `json:"likeCount"`
	} `json:"statistics"`
}

// ListVideos resolves up to MaxBatchSize video ids in a single videos.list
// call. The returned slice preserves the API's item order and contains only
// ids the API knows about.
func (c *Client) ListVideos(ctx context.Context, ids []string) ([]models.VideoMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyIDs, len(ids), MaxBatchSize)
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", c.apiKey)
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	reqURL := fmt.Sprintf("%s/videos?%s", c.baseURL, params.Encode())

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		metrics.RecordYouTubeRequest("failure", time.Since(start))
		return nil, fmt.Errorf("videos.list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordYouTubeRequest("failure", time.Since(start))
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("videos.list failed with status %d: %s", resp.StatusCode, string(body))
	}

	var decoded videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.RecordYouTubeRequest("failure", time.Since(start))
		return nil, fmt.Errorf("decode videos.list response: %w", err)
	}
	metrics.RecordYouTubeRequest("success", time.Since(start))

	metas := make([]models.VideoMetadata, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		metas = append(metas, toMetadata(item))
	}

	resolved := len(metas)
	metrics.YouTubeVideosResolved.Add(float64(resolved))
	if resolved < len(ids) {
		metrics.YouTubeVideosUnresolved.Add(float64(len(ids) - resolved))
	}

	logging.Debug().
		Int("requested", len(ids)).
		Int("resolved", resolved).
		Msg("videos.list batch complete")

	return metas, nil
}

// toMetadata converts an API item into the domain metadata type.
// Statistics counts arrive as strings; unparseable counts become zero, and
// unparseable durations become nil rather than failing the batch.
func toMetadata(item videoItem) models.VideoMetadata {
	meta := models.VideoMetadata{
		VideoID:              item.ID,
		Title:                item.Snippet.Title,
		ChannelTitle:         item.Snippet.ChannelTitle,
		ChannelID:            item.Snippet.ChannelID,
		CategoryID:           item.Snippet.CategoryID,
		DefaultAudioLanguage: item.Snippet.DefaultAudioLanguage,
		DurationSeconds:      ParseISODuration(item.ContentDetails.Duration),
	}
	if !item.Snippet.PublishedAt.IsZero() {
		ts := item.Snippet.PublishedAt
		meta.PublishedAt = &ts
	}
	if v, err := strconv.ParseUint(item.Statistics.ViewCount, 10, 64); err == nil {
		meta.ViewCount = v
	}
	if v, err := strconv.ParseUint(item.Statistics.LikeCount, 10, 64); err == nil {
		meta.LikeCount = v
	}
	return meta
}

// doRequestWithRateLimit performs an HTTP request with client-side rate
// limiting and automatic 429 handling. Implements exponential backoff for
// HTTP 429 responses (1s, 2s, 4s, 8s, 16s). The context is used for
// cancellation during limiter and backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		// Success - return response
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()
		metrics.RecordYouTubeRequest("rate_limited", 0)

		// Last attempt - return error
		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		// Calculate exponential backoff delay: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Check for Retry-After header (RFC 6585)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		// Use cancellable wait instead of time.Sleep
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// readBodyForError reads up to 512 bytes of a response body for error messages.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return []byte("<unreadable body>")
	}
	return body
}

// Package acoustid implements the fingerprint identification source against
// the AcoustID v2 lookup API.
package acoustid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tagscout/internal/sources"
	"tagscout/internal/track"
)

type lookupResponse struct {
	Status  string `json:"status"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
	Results []struct {
		Score      float64 `json:"score"`
		Recordings []struct {
			Title    string `json:"title"`
			Artists  []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Releases []struct {
				ID         string `json:"id"`
				Title      string `json:"title"`
				TrackCount int    `json:"track_count"`
				Date       struct {
					Year int `json:"year"`
				} `json:"date"`
			} `json:"releases"`
		} `json:"recordings"`
	} `json:"results"`
}

// Client queries the AcoustID lookup service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates an AcoustID client. An application API key is mandatory.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("acoustid base URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("acoustid api key is required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Source reports the fingerprint source discriminant.
func (c *Client) Source() track.Source {
	return track.SourceFingerprint
}

// Lookup resolves a Chromaprint fingerprint to candidate releases. Both the
// fingerprint and the clip duration are required by the service.
func (c *Client) Lookup(ctx context.Context, fingerprint string, durationSeconds int) ([]track.CandidateRelease, error) {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return nil, errors.New("fingerprint must not be empty")
	}
	if durationSeconds <= 0 {
		return nil, errors.New("duration must be positive")
	}

	params := url.Values{}
	params.Set("client", c.apiKey)
	params.Set("meta", "recordings+releases")
	params.Set("duration", strconv.Itoa(durationSeconds))
	params.Set("fingerprint", fingerprint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lookup",
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", sources.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: acoustid returned %d", sources.ErrUnavailable, resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode acoustid response: %w", sources.ErrParse, err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("%w: acoustid status %q: %s", sources.ErrParse, payload.Status, payload.Error.Message)
	}

	return flatten(payload), nil
}

// flatten walks results -> recordings -> releases and deduplicates by
// release id, keeping response order.
func flatten(payload lookupResponse) []track.CandidateRelease {
	var out []track.CandidateRelease
	seen := map[string]bool{}
	for _, result := range payload.Results {
		for _, rec := range result.Recordings {
			artist := ""
			if len(rec.Artists) > 0 {
				artist = rec.Artists[0].Name
			}
			for _, rel := range rec.Releases {
				if rel.ID == "" || seen[rel.ID] {
					continue
				}
				seen[rel.ID] = true
				candidate := track.CandidateRelease{
					Source:     track.SourceFingerprint,
					ID:         rel.ID,
					Artist:     artist,
					Title:      rel.Title,
					TrackCount: rel.TrackCount,
				}
				if rel.Date.Year > 0 {
					candidate.Date = strconv.Itoa(rel.Date.Year)
				}
				out = append(out, candidate)
			}
		}
	}
	return out
}

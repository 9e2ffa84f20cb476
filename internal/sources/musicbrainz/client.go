// Package musicbrainz implements the text-search catalog source against the
// MusicBrainz WS/2 release search.
package musicbrainz

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

// release models the slice of a WS/2 release payload we extract.
type release struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	TrackCount   int    `json:"track-count"`
	ArtistCredit []struct {
		Name string `json:"name"`
	} `json:"artist-credit"`
}

type searchResponse struct {
	Releases []release `json:"releases"`
}

// Client queries the MusicBrainz web service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (tests use a stub transport).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates a MusicBrainz client. MusicBrainz requires a descriptive
// User-Agent identifying the application and a contact.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("musicbrainz base URL is required")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("musicbrainz user agent is required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Source reports the catalog source discriminant.
func (c *Client) Source() track.Source {
	return track.SourceCatalog
}

// Search performs a release search for the free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]track.CandidateRelease, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/release")
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(searchLimit))
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.get(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}

	candidates := make([]track.CandidateRelease, 0, len(payload.Releases))
	for _, rel := range payload.Releases {
		candidates = append(candidates, rel.toCandidate())
	}
	return candidates, nil
}

// FetchDetails retrieves one release by MBID.
func (c *Client) FetchDetails(ctx context.Context, id string) (track.CandidateRelease, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return track.CandidateRelease{}, errors.New("release id must not be empty")
	}

	endpoint := fmt.Sprintf("%s/release/%s?fmt=json&inc=artist-credits", c.baseURL, url.PathEscape(id))
	var payload release
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return track.CandidateRelease{}, err
	}
	return payload.toCandidate(), nil
}

const searchLimit = 25

func (c *Client) get(ctx context.Context, endpoint string, payload any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %w", sources.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: musicbrainz returned %d", sources.ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: decode musicbrainz response: %w", sources.ErrParse, err)
	}
	return nil
}

func (r release) toCandidate() track.CandidateRelease {
	artist := ""
	if len(r.ArtistCredit) > 0 {
		artist = r.ArtistCredit[0].Name
	}
	return track.CandidateRelease{
		Source:     track.SourceCatalog,
		ID:         r.ID,
		Artist:     artist,
		Title:      r.Title,
		Date:       r.Date,
		TrackCount: r.TrackCount,
	}
}

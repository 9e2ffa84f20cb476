// Package discogs implements the marketplace/discography catalog source
// against the Discogs database search API.
package discogs

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

type searchResult struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"` // "Artist - Release Title"
	Year       string `json:"year"`
	CoverImage string `json:"cover_image"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type releaseDetail struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Tracklist []struct {
		Position string `json:"position"`
	} `json:"tracklist"`
	Images []struct {
		URI string `json:"uri"`
	} `json:"images"`
}

// Client queries the Discogs API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates a Discogs client. The token is optional but recommended;
// unauthenticated requests get a much tighter rate limit.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("discogs base URL is required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Source reports the marketplace source discriminant.
func (c *Client) Source() track.Source {
	return track.SourceMarketplace
}

// Search performs a release database search for the free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]track.CandidateRelease, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/database/search")
	if err != nil {
		return nil, fmt.Errorf("parse discogs url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "release")
	if c.token != "" {
		params.Set("token", c.token)
	}
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.get(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}

	candidates := make([]track.CandidateRelease, 0, len(payload.Results))
	for _, res := range payload.Results {
		candidates = append(candidates, res.toCandidate())
	}
	return candidates, nil
}

// FetchDetails retrieves one release by Discogs id, including the track
// count the search payload lacks.
func (c *Client) FetchDetails(ctx context.Context, id string) (track.CandidateRelease, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return track.CandidateRelease{}, errors.New("release id must not be empty")
	}

	endpoint := fmt.Sprintf("%s/releases/%s", c.baseURL, url.PathEscape(id))
	if c.token != "" {
		endpoint += "?token=" + url.QueryEscape(c.token)
	}

	var payload releaseDetail
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return track.CandidateRelease{}, err
	}

	artist := ""
	if len(payload.Artists) > 0 {
		artist = payload.Artists[0].Name
	}
	cover := ""
	if len(payload.Images) > 0 {
		cover = payload.Images[0].URI
	}
	candidate := track.CandidateRelease{
		Source:     track.SourceMarketplace,
		ID:         strconv.FormatInt(payload.ID, 10),
		Artist:     artist,
		Title:      payload.Title,
		TrackCount: len(payload.Tracklist),
		CoverArt:   cover,
	}
	if payload.Year > 0 {
		candidate.Date = strconv.Itoa(payload.Year)
	}
	return candidate, nil
}

func (c *Client) get(ctx context.Context, endpoint string, payload any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %w", sources.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: discogs returned %d", sources.ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: decode discogs response: %w", sources.ErrParse, err)
	}
	return nil
}

// toCandidate splits the combined "Artist - Title" search field. Releases
// without the separator keep the whole string as the title.
func (r searchResult) toCandidate() track.CandidateRelease {
	artist := ""
	title := r.Title
	if idx := strings.Index(r.Title, " - "); idx > 0 {
		artist = strings.TrimSpace(r.Title[:idx])
		title = strings.TrimSpace(r.Title[idx+3:])
	}
	return track.CandidateRelease{
		Source:   track.SourceMarketplace,
		ID:       strconv.FormatInt(r.ID, 10),
		Artist:   artist,
		Title:    title,
		Date:     r.Year,
		CoverArt: r.CoverImage,
	}
}

// Spotify Web API client shared by every command.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"spores/internal/models"
	"spores/internal/shared"
)

const (
	// DefaultBaseURL is the production Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1"
	// DefaultPageSize is the largest page the API serves per request.
	DefaultPageSize = 50
)

// search limit bounds from the /search endpoint contract
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// TokenSource supplies a bearer token valid for immediate use.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the Spotify Web API on behalf of one authorized user.
// Requests are rate limited client-side to stay under the API's burst
// thresholds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts configures a [Client]. Tokens is required; everything else has
// a production default.
type ClientOpts struct {
	Tokens     TokenSource
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewClient creates a Web API client from the given options.
func NewClient(opts ClientOpts) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     opts.Tokens,
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		logger:     logger,
	}
}

// doRequest performs an authenticated request against the Web API and decodes
// the JSON response into result when result is non-nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	c.logger.Debugf("%s %s", method, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// apiError surfaces the service's error envelope when one is present.
func apiError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
}

// Me retrieves the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Search queries the catalog for a single kind of resource and returns that
// kind's result page. The limit is clamped to the endpoint's 1..50 range;
// zero or negative asks for the default of 20.
func (c *Client) Search(ctx context.Context, query string, kind models.Kind, limit int) (*Paging[json.RawMessage], error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", string(kind))
	params.Set("limit", strconv.Itoa(limit))

	var response map[string]*Paging[json.RawMessage]
	if err := c.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	page, ok := response[kind.Plural()]
	if !ok || page == nil {
		return nil, fmt.Errorf("%w: search response missing %q results", shared.ErrAPIRequest, kind.Plural())
	}
	return page, nil
}

// MyPlaylists retrieves one page of the user's playlists.
func (c *Client) MyPlaylists(ctx context.Context, limit, offset int) (*Paging[SimplePlaylist], error) {
	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var page Paging[SimplePlaylist]
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Playlist retrieves full metadata for a single playlist.
func (c *Client) Playlist(ctx context.Context, id string) (*Playlist, error) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(id))

	var playlist Playlist
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks retrieves one page of a playlist's track listing.
func (c *Client) PlaylistTracks(ctx context.Context, id string, limit, offset int) (*Paging[PlaylistEntry], error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(id), limit, offset)

	var page Paging[PlaylistEntry]
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist creates an empty playlist owned by the given user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*Playlist, error) {
	body := map[string]any{
		"name":   name,
		"public": public,
	}
	if description != "" {
		body["description"] = description
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var playlist Playlist
	if err := c.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracks appends the given track URIs to a playlist and returns the
// playlist's new snapshot ID.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var response struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := c.doRequest(ctx, http.MethodPost, endpoint, body, &response); err != nil {
		return "", err
	}
	return response.SnapshotID, nil
}

// SaveTracks adds tracks to the user's library.
func (c *Client) SaveTracks(ctx context.Context, ids []string) error {
	endpoint := fmt.Sprintf("/me/tracks?ids=%s", url.QueryEscape(strings.Join(ids, ",")))
	return c.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
}

// SaveAlbums adds albums to the user's library.
func (c *Client) SaveAlbums(ctx context.Context, ids []string) error {
	endpoint := fmt.Sprintf("/me/albums?ids=%s", url.QueryEscape(strings.Join(ids, ",")))
	return c.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
}

// FollowPlaylist adds a playlist to the user's library.
func (c *Client) FollowPlaylist(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(id))
	return c.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
}

// Package client is a typed Go client for the GameVerse API, covering
// base-URL composition across deployment environments and response
// validation, so callers never see raw transport details.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gameversehub/gameverse/internal/igdb"
	"github.com/gameversehub/gameverse/internal/trivia"
)

// APIError carries the status and message of a non-2xx API response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %d", e.Status)
}

// Client calls the GameVerse API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API at baseURL. An empty baseURL yields
// relative paths, which suits same-origin deployments behind a proxy.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiURL joins the base URL and path, collapsing a duplicated /api
// segment so the same client works whether the deployment base already
// ends in /api or not.
func (c *Client) apiURL(path string) string {
	if c.baseURL == "" {
		return path
	}
	if strings.HasSuffix(c.baseURL, "/api") && strings.HasPrefix(path, "/api") {
		return c.baseURL + strings.TrimPrefix(path, "/api")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// getJSON fetches path and decodes the body into v, validating the
// status and that the body is well-formed JSON.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(path), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(body, &errBody) == nil {
			if errBody.Message != "" {
				apiErr.Message = errBody.Message
			} else {
				apiErr.Message = errBody.Error
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON response from %s: %w", path, err)
	}
	return nil
}

// SearchGames searches the catalog. The result is never nil.
func (c *Client) SearchGames(ctx context.Context, term string, limit, offset int) ([]igdb.GameSummary, error) {
	params := url.Values{}
	params.Set("query", term)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var games []igdb.GameSummary
	if err := c.getJSON(ctx, "/api/games?"+params.Encode(), &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = []igdb.GameSummary{}
	}
	return games, nil
}

// GameByID fetches one game's detail. A 404 surfaces as (nil, nil).
func (c *Client) GameByID(ctx context.Context, id int64) (*igdb.GameDetail, error) {
	var game igdb.GameDetail
	err := c.getJSON(ctx, "/api/games/"+strconv.FormatInt(id, 10), &game)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// Genres lists the genre lookup.
func (c *Client) Genres(ctx context.Context) ([]igdb.NamedRef, error) {
	return c.namedLookup(ctx, "/api/genres")
}

// Platforms lists the platform lookup.
func (c *Client) Platforms(ctx context.Context) ([]igdb.NamedRef, error) {
	return c.namedLookup(ctx, "/api/platforms")
}

func (c *Client) namedLookup(ctx context.Context, path string) ([]igdb.NamedRef, error) {
	var refs []igdb.NamedRef
	if err := c.getJSON(ctx, path, &refs); err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []igdb.NamedRef{}
	}
	return refs, nil
}

// TriviaQuestions fetches a processed question batch.
func (c *Client) TriviaQuestions(ctx context.Context, f trivia.QuestionFilter) ([]trivia.Question, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(f.Count))
	if f.Category > 0 {
		params.Set("category", strconv.Itoa(f.Category))
	}
	if f.Difficulty != "" {
		params.Set("difficulty", f.Difficulty)
	}
	if f.Type != "" {
		params.Set("type", f.Type)
	}

	var questions []trivia.Question
	if err := c.getJSON(ctx, "/api/trivia/questions?"+params.Encode(), &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []trivia.Question{}
	}
	return questions, nil
}

// TriviaCategories lists the trivia category lookup.
func (c *Client) TriviaCategories(ctx context.Context) ([]trivia.Category, error) {
	var cats []trivia.Category
	if err := c.getJSON(ctx, "/api/trivia/categories", &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []trivia.Category{}
	}
	return cats, nil
}

// TriviaToken requests a trivia session token.
func (c *Client) TriviaToken(ctx context.Context) (string, error) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.getJSON(ctx, "/api/trivia/token", &body); err != nil {
		return "", err
	}
	return body.Token, nil
}

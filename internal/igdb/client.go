// Package igdb implements the game-metadata provider client: a
// token-caching proxy over the IGDB HTTP API that normalizes its
// payloads into the stable catalog contract.
package igdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gameversehub/gameverse/internal/config"
	"github.com/gameversehub/gameverse/internal/metrics"
	"github.com/gameversehub/gameverse/internal/upstream"
)

// DefaultBaseURL is the IGDB v4 API root.
const DefaultBaseURL = "https://api.igdb.com/v4"

const defaultTimeout = 10 * time.Second

// Field manifests sent upstream. Fixed constants, never derived from
// caller input, so user terms cannot reach the query language outside
// the quoted search string.
const (
	searchFields = "name, genres.name, platforms.name, first_release_date, summary, " +
		"cover.url, rating, rating_count, storyline, involved_companies.company.name, " +
		"screenshots.url, videos.video_id, websites.category, websites.url"
	detailFields = searchFields + ", game_modes.name, themes.name, player_perspectives.name"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	lookupLimit        = 50
)

// Client queries the game-metadata provider. Every call obtains a
// bearer token from the TokenCache first; token failures propagate
// as-is so callers can tell "no results" from "service unavailable".
type Client struct {
	clientID   string
	tokens     *TokenCache
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the provider API root. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the HTTP client used for provider calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a game-metadata client around the given token cache.
func NewClient(creds config.Credentials, tokens *TokenCache, opts ...Option) *Client {
	c := &Client{
		clientID: creds.ClientID,
		tokens:   tokens,
		baseURL:  DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries the catalog. Zero matches and 2xx non-array payloads
// normalize to an empty slice, never an error.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]GameSummary, error) {
	q = q.clamped()

	body := fmt.Sprintf("search \"%s\"; fields %s; limit %d; offset %d;",
		sanitizeTerm(q.Term), searchFields, q.Limit, q.Offset)

	payload, err := c.post(ctx, "games", body)
	if err != nil {
		return nil, err
	}

	games, ok := decodeGames(payload)
	if !ok {
		// Upstream occasionally answers 200 with an error object
		// instead of an array; treat it as no matches.
		return []GameSummary{}, nil
	}

	out := make([]GameSummary, 0, len(games))
	for i := range games {
		out = append(out, games[i].summary())
	}
	return out, nil
}

// GetByID fetches one game with the expanded field set. A missing id
// yields (nil, nil); the HTTP layer turns that into a 404.
func (c *Client) GetByID(ctx context.Context, id int64) (*GameDetail, error) {
	body := fmt.Sprintf("where id = %d; fields %s;", id, detailFields)

	payload, err := c.post(ctx, "games", body)
	if err != nil {
		return nil, err
	}

	games, ok := decodeGames(payload)
	if !ok {
		return nil, &upstream.ProtocolError{Provider: "igdb", Status: http.StatusOK}
	}
	if len(games) == 0 {
		return nil, nil
	}

	detail := games[0].detail()
	return &detail, nil
}

// Genres lists the provider's genre lookup, capped at a fixed page size.
func (c *Client) Genres(ctx context.Context) ([]NamedRef, error) {
	return c.lookup(ctx, "genres")
}

// Platforms lists the provider's platform lookup.
func (c *Client) Platforms(ctx context.Context) ([]NamedRef, error) {
	return c.lookup(ctx, "platforms")
}

func (c *Client) lookup(ctx context.Context, endpoint string) ([]NamedRef, error) {
	payload, err := c.post(ctx, endpoint, fmt.Sprintf("fields name; limit %d;", lookupLimit))
	if err != nil {
		return nil, err
	}

	var refs []NamedRef
	if err := json.Unmarshal(payload, &refs); err != nil {
		return nil, &upstream.ProtocolError{Provider: "igdb", Status: http.StatusOK}
	}
	if refs == nil {
		refs = []NamedRef{}
	}
	return refs, nil
}

// post issues one apicalypse-style query against the provider.
func (c *Client) post(ctx context.Context, endpoint, body string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building igdb request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			metrics.RecordUpstream("igdb", "timeout", start)
			return nil, &upstream.TimeoutError{Provider: "igdb", Cause: err}
		}
		metrics.RecordUpstream("igdb", "error", start)
		return nil, &upstream.ProtocolError{Provider: "igdb"}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstream("igdb", "error", start)
		return nil, &upstream.ProtocolError{Provider: "igdb", Status: resp.StatusCode}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The provider refused the token: drop it so the next call
		// re-acquires, but do not retry here.
		c.tokens.Invalidate()
		metrics.RecordUpstream("igdb", "error", start)
		return nil, &upstream.AuthError{Status: resp.StatusCode, Body: trimBody(payload)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstream("igdb", "error", start)
		return nil, &upstream.ProtocolError{Provider: "igdb", Status: resp.StatusCode}
	}

	metrics.RecordUpstream("igdb", "ok", start)
	return payload, nil
}

// clamped bounds limit and offset before upstream dispatch.
func (q SearchQuery) clamped() SearchQuery {
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	if q.Limit > maxSearchLimit {
		q.Limit = maxSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// sanitizeTerm strips characters that would break out of the quoted
// search string in the provider's query language.
func sanitizeTerm(term string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', ';', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(term))
}

// decodeGames unmarshals an upstream games payload, reporting whether
// it was the expected array shape.
func decodeGames(payload []byte) ([]rawGame, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var games []rawGame
	if err := json.Unmarshal(trimmed, &games); err != nil {
		return nil, false
	}
	return games, true
}

func trimBody(b []byte) string {
	if len(b) > maxErrBody {
		b = b[:maxErrBody]
	}
	return string(b)
}

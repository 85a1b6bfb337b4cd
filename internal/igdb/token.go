package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gameversehub/gameverse/internal/config"
	"github.com/gameversehub/gameverse/internal/metrics"
	"github.com/gameversehub/gameverse/internal/upstream"
)

// DefaultTokenURL is the Twitch client-credentials exchange endpoint
// IGDB app access tokens come from.
const DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

// maxErrBody caps how much of an upstream error body is retained for
// diagnostics.
const maxErrBody = 2048

// TokenCache owns the bearer token for the game-metadata provider.
//
// The token is cached until Invalidate is called; there is no TTL-based
// expiry because the exchange response's lifetime hint is not a
// contract. The mutex is held across the exchange so concurrent misses
// coalesce into a single in-flight fetch.
type TokenCache struct {
	creds       config.Credentials
	exchangeURL string
	httpClient  *http.Client

	mu    sync.Mutex
	token string
}

// TokenOption customizes a TokenCache.
type TokenOption func(*TokenCache)

// WithExchangeURL overrides the credential-exchange endpoint. Used by
// tests to point the cache at a stub server.
func WithExchangeURL(u string) TokenOption {
	return func(tc *TokenCache) { tc.exchangeURL = u }
}

// WithTokenHTTPClient overrides the HTTP client used for the exchange.
func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(tc *TokenCache) { tc.httpClient = c }
}

// NewTokenCache creates a token cache for the given credentials.
// Absent credentials are accepted here; Token fails fast instead.
func NewTokenCache(creds config.Credentials, opts ...TokenOption) *TokenCache {
	tc := &TokenCache{
		creds:       creds,
		exchangeURL: DefaultTokenURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Token returns the cached bearer token, performing a credential
// exchange on a cache miss.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	if !tc.creds.Valid() {
		return "", upstream.ErrMissingCredentials
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.token != "" {
		metrics.TokenCacheHits.Inc()
		return tc.token, nil
	}

	metrics.TokenCacheMisses.Inc()
	token, err := tc.exchange(ctx)
	if err != nil {
		return "", err
	}
	tc.token = token
	return token, nil
}

// Invalidate discards the cached token, forcing re-acquisition on the
// next use. Called when the provider rejects a token.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.token = ""
	tc.mu.Unlock()
}

// exchange performs the client_credentials grant. The provider expects
// the parameters as query parameters on a POST with an empty body.
func (tc *TokenCache) exchange(ctx context.Context) (string, error) {
	vals := url.Values{}
	vals.Set("client_id", tc.creds.ClientID)
	vals.Set("client_secret", tc.creds.ClientSecret)
	vals.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.exchangeURL+"?"+vals.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &upstream.TimeoutError{Provider: "twitch", Cause: err}
		}
		return "", &upstream.AuthError{Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &upstream.AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.AccessToken == "" {
		return "", &upstream.AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	return result.AccessToken, nil
}

// isTimeout reports whether err stems from a deadline or network
// timeout rather than an outright refusal.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

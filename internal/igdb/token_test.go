package igdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameversehub/gameverse/internal/config"
	"github.com/gameversehub/gameverse/internal/upstream"
)

var testCreds = config.Credentials{ClientID: "client-id", ClientSecret: "client-secret"}

func newTestTokenCache(t *testing.T, handler http.HandlerFunc) (*TokenCache, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewTokenCache(testCreds, WithExchangeURL(srv.URL)), &calls
}

func TestToken_MissingCredentials(t *testing.T) {
	tc, calls := newTestTokenCache(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"never"}`)
	})
	tc.creds = config.Credentials{}

	_, err := tc.Token(context.Background())
	require.ErrorIs(t, err, upstream.ErrMissingCredentials)
	assert.Equal(t, 0, *calls, "must fail fast without network I/O")
}

func TestToken_ExchangeAndCache(t *testing.T) {
	tc, calls := newTestTokenCache(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "client-id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "client-secret", r.URL.Query().Get("client_secret"))
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		fmt.Fprint(w, `{"access_token":"tok-1","expires_in":5000}`)
	})

	token, err := tc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, 1, *calls)

	// Cached: no second exchange.
	token, err = tc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, 1, *calls)
}

func TestToken_InvalidateForcesReacquisition(t *testing.T) {
	tc, calls := newTestTokenCache(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"tok"}`)
	})

	_, err := tc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	tc.Invalidate()

	_, err = tc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestToken_ExchangeRejected(t *testing.T) {
	tc, _ := newTestTokenCache(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid client secret"}`, http.StatusForbidden)
	})

	_, err := tc.Token(context.Background())
	require.Error(t, err)

	var authErr *upstream.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Status)
	assert.NotErrorIs(t, err, upstream.ErrMissingCredentials,
		"rejection must be distinguishable from absent configuration")
}

func TestToken_ResponseWithoutAccessToken(t *testing.T) {
	tc, _ := newTestTokenCache(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token_type":"bearer"}`)
	})

	_, err := tc.Token(context.Background())
	require.Error(t, err)
	assert.True(t, upstream.IsAuth(err))
}

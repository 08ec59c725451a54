package csfloat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/skinfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const AK = "AK-47 | Redline (Field-Tested)"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("key")
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()
	c.Backoff = time.Millisecond
	return c
}

func TestLowestAsk_Prices(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   skinfolio.Money
		wantOK bool
	}{
		{name: "integral price is in cents", body: `{"data":[{"price":1234}]}`, want: skinfolio.Cents(1234), wantOK: true},
		{name: "fractional price is in dollars", body: `{"data":[{"price":12.345}]}`, want: skinfolio.M(12.35), wantOK: true},
		{name: "bare list", body: `[{"price":99}]`, want: skinfolio.Cents(99), wantOK: true},
		{name: "zero price is no data", body: `{"data":[{"price":0}]}`},
		{name: "missing price is no data", body: `{"data":[{"id":"x"}]}`},
		{name: "no listing", body: `{"data":[]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			})
			got, ok, err := c.LowestAsk(context.Background(), AK)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLowestAsk_Query(t *testing.T) {
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("Authorization"))
		assert.Equal(t, AK, r.URL.Query().Get("market_hash_name"))
		assert.Equal(t, "lowest_price", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		queries = append(queries, r.URL.Query().Get("type"))
		if r.URL.Query().Get("type") == "buy_now" {
			io.WriteString(w, `{"data":[]}`)
			return
		}
		io.WriteString(w, `{"data":[{"price":500}]}`)
	})
	got, ok, err := c.LowestAsk(context.Background(), AK)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(skinfolio.M(5)))
	assert.Equal(t, []string{"buy_now", ""}, queries, "buy-now first, then all listing types")
}

func TestLowestAsk_RateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"data":[{"price":250}]}`)
	})
	got, ok, err := c.LowestAsk(context.Background(), AK)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(skinfolio.M(2.5)))
	assert.Equal(t, int32(2), calls.Load())
}

func TestLowestAsk_RateLimitedTwice(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, ok, err := c.LowestAsk(context.Background(), AK)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, skinfolio.ErrOracleUnavailable), "got %v", err)
	assert.Equal(t, int32(2), calls.Load(), "a rate limited call is retried exactly once")
}

func TestLowestAsk_Failures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"data":[`)
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, handler)
			_, ok, err := c.LowestAsk(context.Background(), AK)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, skinfolio.ErrOracleUnavailable), "got %v", err)
		})
	}
}

func TestLowestAsk_NoKey(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	c.APIKey = ""
	_, _, err := c.LowestAsk(context.Background(), AK)
	assert.True(t, errors.Is(err, skinfolio.ErrOracleUnavailable))
	_, _, err = c.Icon(context.Background(), AK)
	assert.True(t, errors.Is(err, skinfolio.ErrOracleUnavailable))
	assert.Zero(t, calls.Load())
}

func TestIcon(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{name: "absolute image", body: `{"data":[{"image":"https://cdn.example.com/ak.png"}]}`, want: "https://cdn.example.com/ak.png", wantOK: true},
		{name: "relative icon", body: `{"data":[{"icon_url":"abc123"}]}`, want: "https://steamcommunity-a.akamaihd.net/economy/image/abc123/128fx128f", wantOK: true},
		{name: "item icon", body: `[{"item":{"icon_url":"xyz"}}]`, want: "https://steamcommunity-a.akamaihd.net/economy/image/xyz/128fx128f", wantOK: true},
		{name: "no icon", body: `{"data":[{"item":{}}]}`},
		{name: "no listing", body: `{"data":[]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "item", r.URL.Query().Get("expand"))
				io.WriteString(w, tc.body)
			})
			got, ok, err := c.Icon(context.Background(), AK)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

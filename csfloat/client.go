// Package csfloat quotes CS2 item prices from the CSFloat marketplace listings.
package csfloat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/skinfolio"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://csfloat.com/api/v1"
	DefaultBackoff = 3 * time.Second

	// steamImageURL is the Steam CDN address of an icon path, at 128px.
	steamImageURL = "https://steamcommunity-a.akamaihd.net/economy/image/%s/128fx128f"
)

// Client is a skinfolio.PriceOracle on the CSFloat listings API.
type Client struct {
	BaseURL string
	APIKey  string
	Backoff time.Duration // wait before the single retry of a rate-limited call
	HTTP    *http.Client
}

// New returns a client authenticated with apiKey.
func New(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		APIKey:  strings.TrimSpace(apiKey),
		Backoff: DefaultBackoff,
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

// unavailable wraps err as a skinfolio.ErrOracleUnavailable.
func unavailable(item string, err error) error {
	return fmt.Errorf("%w: %q: %v", skinfolio.ErrOracleUnavailable, item, err)
}

var errRateLimited = errors.New("rate limited (429)")

// listings queries the cheapest listing of an item and returns the decoded answer.
// A rate-limited call is retried once after the backoff.
func (c *Client) listings(ctx context.Context, params url.Values) (any, error) {
	if c.APIKey == "" {
		return nil, errors.New("no API key")
	}
	addr := strings.TrimSuffix(c.BaseURL, "/") + "/listings?" + params.Encode()
	wait := c.Backoff
	if wait <= 0 {
		wait = DefaultBackoff
	}
	backoff := retry.WithMaxRetries(1, retry.NewConstant(wait))

	var jobj any
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", c.APIKey)
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		log.Debug().Str("path", resp.Request.URL.Path).Str("query", resp.Request.URL.RawQuery).Str("status", resp.Status).Msg("csfloat")

		if resp.StatusCode == http.StatusTooManyRequests {
			log.Warn().Dur("backoff", wait).Msg("csfloat rate limit, waiting before retry")
			return retry.RetryableError(errRateLimited)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("http GET listings: %v", resp.Status)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber() // integral and fractional prices have different units
		return dec.Decode(&jobj)
	})
	if err != nil {
		return nil, err
	}
	return jobj, nil
}

// firstListing returns the first listing of an answer, either {"data": [...]} or a bare list.
func firstListing(jobj any) (any, bool) {
	path := "$[0]"
	if _, ok := jobj.(map[string]any); ok {
		path = "$.data[0]"
	}
	listing, err := jsonpath.Get(path, jobj)
	if err != nil || listing == nil {
		return nil, false
	}
	return listing, true
}

// parsePrice interprets a listing price: an integral number is in cents, a
// fractional one in dollars. A missing or non-positive price is no price.
func parsePrice(raw any) (skinfolio.Money, bool) {
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	default:
		return skinfolio.Money{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return skinfolio.Money{}, false
	}
	if d.IsInteger() {
		return skinfolio.Cents(d.IntPart()), true
	}
	return skinfolio.M(d.Round(2)), true
}

func query(item string) url.Values {
	return url.Values{
		"market_hash_name": {item},
		"sort_by":          {"lowest_price"},
		"limit":            {"1"},
	}
}

// LowestAsk implements skinfolio.PriceOracle.
//
// Buy-now listings are queried first, then all listing types.
func (c *Client) LowestAsk(ctx context.Context, item string) (skinfolio.Money, bool, error) {
	buyNow := query(item)
	buyNow.Set("type", "buy_now")
	for _, params := range []url.Values{buyNow, query(item)} {
		jobj, err := c.listings(ctx, params)
		if err != nil {
			return skinfolio.Money{}, false, unavailable(item, err)
		}
		listing, ok := firstListing(jobj)
		if !ok {
			log.Debug().Str("item", item).Str("type", params.Get("type")).Msg("no listing")
			continue
		}
		price, err := jsonpath.Get("$.price", listing)
		if err != nil {
			continue
		}
		if p, ok := parsePrice(price); ok {
			return p, true, nil
		}
	}
	return skinfolio.Money{}, false, nil
}

// Icon implements skinfolio.PriceOracle. Relative icon paths are resolved on the Steam CDN.
func (c *Client) Icon(ctx context.Context, item string) (string, bool, error) {
	params := query(item)
	params.Set("type", "buy_now")
	params.Set("expand", "item")
	jobj, err := c.listings(ctx, params)
	if err != nil {
		return "", false, unavailable(item, err)
	}
	listing, ok := firstListing(jobj)
	if !ok {
		return "", false, nil
	}
	for _, path := range []string{"$.image", "$.icon_url", "$.item.icon_url"} {
		v, err := jsonpath.Get(path, listing)
		if err != nil {
			continue
		}
		img, ok := v.(string)
		if !ok || img == "" {
			continue
		}
		if strings.HasPrefix(img, "http") {
			return img, true, nil
		}
		return fmt.Sprintf(steamImageURL, img), true, nil
	}
	return "", false, nil
}

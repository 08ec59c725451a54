package skinfolio

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceHeader is the header row of the price history log.
var PriceHeader = []string{"ts_utc", "market_hash_name", "price_cents", "price_usd"}

// HoldingHeader is the header row of the holdings cache file.
var HoldingHeader = []string{"market_hash_name", "qty", "buy_price_usd"}

// timestamp formats accepted in the price log, the first one is written.
var timestampFormats = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, inputErrorf("invalid ts_utc %q", s)
}

// DecodePriceHistory reads the price history log.
//
// The price of a row is price_usd, or price_cents/100 when price_usd is empty.
// Rows without a positive price are rejected.
func DecodePriceHistory(r io.Reader) (obs []PriceObservation, rejected []error, err error) {
	rejected, err = decodeRows(r, []string{"ts_utc", "market_hash_name"}, func(line int, cols columns, row []string) error {
		var o PriceObservation
		var err error
		if o.Timestamp, err = parseTimestamp(cols.get(row, "ts_utc")); err != nil {
			return err
		}
		if o.Item = cols.get(row, "market_hash_name"); o.Item == "" {
			return inputErrorf("missing market_hash_name")
		}
		if o.Price, err = rowPrice(cols, row); err != nil {
			return err
		}
		obs = append(obs, o)
		return nil
	})
	return obs, rejected, err
}

func rowPrice(cols columns, row []string) (Money, error) {
	if usd := cols.get(row, "price_usd"); usd != "" {
		m, err := ParseMoney(usd)
		if err != nil {
			return Money{}, inputErrorf("invalid price_usd %q", usd)
		}
		if !m.IsPositive() {
			return Money{}, inputErrorf("price_usd must be positive, got %q", usd)
		}
		return m, nil
	}
	cents := cols.get(row, "price_cents")
	if cents == "" {
		return Money{}, inputErrorf("row has no price")
	}
	d, err := decimal.NewFromString(cents)
	if err != nil {
		return Money{}, inputErrorf("invalid price_cents %q", cents)
	}
	if !d.IsPositive() {
		return Money{}, inputErrorf("price_cents must be positive, got %q", cents)
	}
	return M(d.Shift(-2)), nil
}

// AppendPriceHistory returns the content of the price log with observations
// appended. Existing rows are kept as is; the header is written when content is empty.
func AppendPriceHistory(content string, obs ...PriceObservation) (string, error) {
	rows := make([][]string, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, []string{
			o.Timestamp.UTC().Format(time.RFC3339),
			o.Item,
			strconv.FormatInt(o.Price.Cents(), 10),
			o.Price.FixedString(),
		})
	}
	return appendRows(content, PriceHeader, rows)
}

// FormatHoldings returns the content of the holdings cache file, ordered by item.
func FormatHoldings(positions map[string]Position) (string, error) {
	rows := make([][]string, 0, len(positions))
	for _, item := range slices.Sorted(maps.Keys(positions)) {
		p := positions[item]
		rows = append(rows, []string{p.Item, p.Quantity.String(), p.WAC.Decimal().Round(4).String()})
	}
	var b strings.Builder
	if err := encodeRows(&b, HoldingHeader, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DecodeHoldings reads a holdings cache file.
func DecodeHoldings(r io.Reader) (positions map[string]Position, rejected []error, err error) {
	positions = make(map[string]Position)
	rejected, err = decodeRows(r, HoldingHeader, func(line int, cols columns, row []string) error {
		item := cols.get(row, "market_hash_name")
		if item == "" {
			return inputErrorf("missing market_hash_name")
		}
		q, err := ParseQuantity(cols.get(row, "qty"))
		if err != nil {
			return inputErrorf("invalid qty %q", cols.get(row, "qty"))
		}
		wac, err := ParseMoney(cols.get(row, "buy_price_usd"))
		if err != nil {
			return inputErrorf("invalid buy_price_usd %q", cols.get(row, "buy_price_usd"))
		}
		if _, dup := positions[item]; dup {
			return fmt.Errorf("%w: duplicate item %q", ErrInput, item)
		}
		positions[item] = Position{Item: item, Quantity: q, WAC: wac}
		return nil
	})
	return positions, rejected, err
}

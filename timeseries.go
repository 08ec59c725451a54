package skinfolio

import (
	"time"

	"github.com/etnz/skinfolio/date"
)

// observedRange returns the days covered by the time series: from the earliest
// transaction or observation to the latest observation.
func observedRange(txs []Transaction, obs []PriceObservation) (date.Range, bool) {
	if len(obs) == 0 {
		return date.Range{}, false
	}
	var first, last time.Time
	for i, o := range obs {
		if i == 0 || o.Timestamp.Before(first) {
			first = o.Timestamp
		}
		if i == 0 || o.Timestamp.After(last) {
			last = o.Timestamp
		}
	}
	r := date.NewRange(date.Of(first), date.Of(last))
	for _, tx := range txs {
		if tx.Date.Before(r.From) {
			r.From = tx.Date
		}
	}
	return r, true
}

// TimeSeries returns the value of the portfolio at the end of every day, from
// the earliest transaction or price observation to the latest observation.
//
// Each item is valued at its last price observed on or before the day. Prices
// are only carried forward: before its first observation an item is worth
// nothing. The ledger is validated as in Rebuild.
func TimeSeries(txs []Transaction, obs []PriceObservation) ([]Point, error) {
	if _, err := replay(txs, nil); err != nil {
		return nil, err
	}
	r, ok := observedRange(txs, obs)
	if !ok {
		return nil, nil
	}

	held := quantities(txs)
	prices := dailyPrices(obs)

	points := make([]Point, 0, r.Len())
	for on := range r.Days() {
		var total Money
		for item, quantity := range held {
			q, ok := quantity.ValueAsOf(on)
			if !ok || q.IsZero() {
				continue
			}
			h, ok := prices[item]
			if !ok {
				continue
			}
			price, ok := h.ValueAsOf(on)
			if !ok {
				continue
			}
			total = total.Add(price.Mul(q))
		}
		points = append(points, Point{Date: on, Value: total})
	}
	return points, nil
}

package skinfolio

import (
	"slices"
	"time"

	"github.com/etnz/skinfolio/date"
)

// PriceObservation is a price of an item seen on the marketplace at a given time.
type PriceObservation struct {
	Timestamp time.Time // UTC
	Item      string
	Price     Money
}

// byTime returns a copy of obs sorted by timestamp. Observations with the same
// timestamp keep their log order.
func byTime(obs []PriceObservation) []PriceObservation {
	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b PriceObservation) int { return a.Timestamp.Compare(b.Timestamp) })
	return sorted
}

// LatestPrices returns the most recent observed price of every item.
func LatestPrices(obs []PriceObservation) map[string]Money {
	latest := make(map[string]Money)
	for _, o := range byTime(obs) {
		latest[o.Item] = o.Price
	}
	return latest
}

// dailyPrices returns, for every item, the last observed price of each day.
func dailyPrices(obs []PriceObservation) map[string]*date.History[Money] {
	prices := make(map[string]*date.History[Money])
	for _, o := range byTime(obs) {
		h, ok := prices[o.Item]
		if !ok {
			h = new(date.History[Money])
			prices[o.Item] = h
		}
		// later observations of the same day overwrite earlier ones.
		h.Append(date.Of(o.Timestamp), o.Price)
	}
	return prices
}

// ItemHistory returns the closing price of each day an item was observed.
func ItemHistory(obs []PriceObservation, item string) []PricePoint {
	h, ok := dailyPrices(obs)[item]
	if !ok {
		return nil
	}
	points := make([]PricePoint, 0, h.Len())
	for on, price := range h.Values() {
		points = append(points, PricePoint{Date: on, Price: price})
	}
	return points
}

// ObservedItems returns the sorted list of items present in the price log.
func ObservedItems(obs []PriceObservation) []string {
	var items []string
	for _, o := range obs {
		if !slices.Contains(items, o.Item) {
			items = append(items, o.Item)
		}
	}
	slices.Sort(items)
	return items
}

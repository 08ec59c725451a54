package skinfolio

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// This file contains the batch job that records the latest prices.

// FetchReport is the outcome of a price fetch.
type FetchReport struct {
	Timestamp    time.Time          // shared by all the observations of the batch
	Observations []PriceObservation // prices recorded
	Skipped      []string           // items without any listing
	Failed       map[string]error   // items the oracle could not answer
}

// pace waits the delay before the i-th oracle call of a batch. The first call
// is not delayed.
func (s *Session) pace(ctx context.Context, i int) error {
	if i > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.delay):
		}
	}
	return ctx.Err()
}

// Fetch asks the oracle the price of every item currently held and appends
// the answers to the price history.
//
// Items are queried one at a time with a pause between calls. All the
// observations of a batch share one timestamp. A cancelled context stops
// the batch and nothing is written. A missing price history is created with
// its header even when no price was found.
func (s *Session) Fetch(ctx context.Context) (FetchReport, error) {
	report := FetchReport{
		Timestamp: s.now().UTC().Truncate(time.Second),
		Failed:    make(map[string]error),
	}
	if s.oracle == nil {
		return report, fmt.Errorf("fetch: %w", ErrOracleUnavailable)
	}
	_, _, ledger, _, err := s.readLedger(ctx)
	if err != nil {
		return report, err
	}
	positions, err := Rebuild(ledger.All())
	if err != nil {
		return report, err
	}
	items := slices.Sorted(maps.Keys(positions))
	log.Info().Int("items", len(items)).Time("ts", report.Timestamp).Msg("fetching prices")

	for i, item := range items {
		if err := s.pace(ctx, i); err != nil {
			return report, err
		}
		price, ok, err := s.oracle.LowestAsk(ctx, item)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("item", item).Msg("price unavailable")
			report.Failed[item] = err
		case !ok:
			log.Info().Str("item", item).Msg("no listing, skipped")
			report.Skipped = append(report.Skipped, item)
		default:
			log.Debug().Str("item", item).Stringer("price", price).Msg("price")
			report.Observations = append(report.Observations, PriceObservation{Timestamp: report.Timestamp, Item: item, Price: price})
		}
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	content, version, found, err := s.store.Read(ctx, s.profile.History)
	if err != nil {
		return report, fmt.Errorf("cannot read %q: %w", s.profile.History, err)
	}
	if len(report.Observations) == 0 {
		if found {
			return report, nil
		}
		// The price history exists once a fetch ran, even without any price.
		header, err := AppendPriceHistory("")
		if err != nil {
			return report, err
		}
		if _, err := s.store.Write(ctx, s.profile.History, header, "", "Create price history"); err != nil {
			return report, fmt.Errorf("cannot write %q: %w", s.profile.History, err)
		}
		log.Info().Str("path", s.profile.History).Msg("empty price history created")
		return report, nil
	}
	content, err = AppendPriceHistory(content, report.Observations...)
	if err != nil {
		return report, err
	}
	message := fmt.Sprintf("Record %d price(s) at %s", len(report.Observations), report.Timestamp.Format(time.RFC3339))
	if _, err := s.store.Write(ctx, s.profile.History, content, version, message); err != nil {
		return report, fmt.Errorf("cannot write %q: %w", s.profile.History, err)
	}
	log.Info().Int("recorded", len(report.Observations)).Msg("prices recorded")
	return report, nil
}

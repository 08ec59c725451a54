package skinfolio

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// invalidator is implemented by oracles holding a cache.
type invalidator interface{ Invalidate() }

// Holdings values the current positions of the book.
//
// Prices are the latest of the price history, or the live oracle prices when
// live is set. Live prices are queried one item at a time with the session
// delay between calls. An item whose live price cannot be obtained is
// reported unpriced, the valuation still completes.
func (s *Session) Holdings(ctx context.Context, book *Book, live bool) (Valuation, error) {
	positions, err := Rebuild(book.Ledger.All())
	if err != nil {
		return Valuation{}, err
	}
	if !live {
		return Value(positions, LatestPrices(book.Observations)), nil
	}
	if s.oracle == nil {
		return Valuation{}, fmt.Errorf("live prices: %w", ErrOracleUnavailable)
	}
	latest := make(map[string]Money, len(positions))
	for i, item := range slices.Sorted(maps.Keys(positions)) {
		if err := s.pace(ctx, i); err != nil {
			return Valuation{}, err
		}
		price, ok, err := s.oracle.LowestAsk(ctx, item)
		if err != nil {
			log.Warn().Err(err).Str("item", item).Msg("live price unavailable")
			continue
		}
		if ok {
			latest[item] = price
		}
	}
	return Value(positions, latest), nil
}

// Icons fills the icon url of the valued positions, best effort.
func (s *Session) Icons(ctx context.Context, v *Valuation) {
	if s.oracle == nil {
		return
	}
	for i := range v.Positions {
		if s.pace(ctx, i) != nil {
			return
		}
		url, ok, err := s.oracle.Icon(ctx, v.Positions[i].Item)
		if err != nil {
			log.Debug().Err(err).Str("item", v.Positions[i].Item).Msg("icon unavailable")
			continue
		}
		if ok {
			v.Positions[i].Icon = url
		}
	}
}

// Cash returns the cash reconciliation of the book.
func (s *Session) Cash(book *Book) CashBalance {
	return Cash(book.Ledger.All(), book.Movements)
}

// readLedger reads the current ledger file.
func (s *Session) readLedger(ctx context.Context) (content, version string, ledger *Ledger, rejected []error, err error) {
	content, version, err = s.read(ctx, s.profile.Ledger)
	if err != nil {
		return
	}
	txs, rejected, err := DecodeTransactions(strings.NewReader(content))
	if err != nil {
		return "", "", nil, nil, fmt.Errorf("cannot decode %q: %w", s.profile.Ledger, err)
	}
	return content, version, NewLedger(txs...), rejected, nil
}

// Record appends a transaction to the ledger.
//
// The ledger is read again and the transaction is checked against it: a sale
// exceeding the position fails with an *OversellError. The write is made
// against the version just read, a concurrent change fails with ErrConflict.
func (s *Session) Record(ctx context.Context, tx Transaction) error {
	if tx.ID == "" {
		return inputErrorf("transaction has no id")
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	content, version, ledger, _, err := s.readLedger(ctx)
	if err != nil {
		return err
	}
	if _, exists := ledger.Find(tx.ID); exists {
		return inputErrorf("transaction id %q already recorded", tx.ID)
	}
	if err := ledger.Append(tx); err != nil {
		return err
	}
	content, err = AppendTransactions(content, tx)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("%s %v %s @ %s", tx.Kind, tx.Quantity, tx.Item, tx.UnitPrice.FixedString())
	if _, err := s.store.Write(ctx, s.profile.Ledger, content, version, message); err != nil {
		return fmt.Errorf("cannot write %q: %w", s.profile.Ledger, err)
	}
	s.ledgerChanged(ctx, ledger)
	return nil
}

// Delete removes a transaction from the ledger and rewrites it.
//
// Removing a purchase that a later sale depends on is refused. A ledger file
// with malformed rows is not rewritten, they would be lost.
func (s *Session) Delete(ctx context.Context, id string) (Transaction, error) {
	_, version, ledger, rejected, err := s.readLedger(ctx)
	if err != nil {
		return Transaction{}, err
	}
	removed, err := ledger.Delete(id)
	if err != nil {
		return Transaction{}, err
	}
	if len(rejected) > 0 {
		return Transaction{}, fmt.Errorf("%w: %q has %d malformed row(s), fix them before deleting: %w",
			ErrInput, s.profile.Ledger, len(rejected), errors.Join(rejected...))
	}
	content, err := FormatTransactions(ledger.All())
	if err != nil {
		return Transaction{}, err
	}
	message := fmt.Sprintf("Delete %s", removed)
	if _, err := s.store.Write(ctx, s.profile.Ledger, content, version, message); err != nil {
		return Transaction{}, fmt.Errorf("cannot write %q: %w", s.profile.Ledger, err)
	}
	s.ledgerChanged(ctx, ledger)
	return removed, nil
}

// Format rewrites the ledger in chronological order and canonical form. It
// reports whether the file changed. A ledger with malformed rows or an
// oversell is left untouched.
func (s *Session) Format(ctx context.Context) (bool, error) {
	content, version, ledger, rejected, err := s.readLedger(ctx)
	if err != nil {
		return false, err
	}
	if len(rejected) > 0 {
		return false, fmt.Errorf("%w: %q has %d malformed row(s): %w",
			ErrInput, s.profile.Ledger, len(rejected), errors.Join(rejected...))
	}
	if err := ledger.Validate(); err != nil {
		return false, err
	}
	formatted, err := FormatTransactions(ledger.Chronological())
	if err != nil {
		return false, err
	}
	if formatted == content {
		return false, nil
	}
	if _, err := s.store.Write(ctx, s.profile.Ledger, formatted, version, "Format ledger"); err != nil {
		return false, fmt.Errorf("cannot write %q: %w", s.profile.Ledger, err)
	}
	s.ledgerChanged(ctx, ledger)
	return true, nil
}

// ledgerChanged runs the follow-ups of a successful ledger write.
func (s *Session) ledgerChanged(ctx context.Context, ledger *Ledger) {
	if c, ok := s.oracle.(invalidator); ok {
		c.Invalidate()
	}
	if s.profile.Holdings == "" {
		return
	}
	if err := s.writeHoldings(ctx, ledger); err != nil {
		log.Warn().Err(err).Str("path", s.profile.Holdings).Msg("holdings cache not updated")
	}
}

// writeHoldings regenerates the holdings cache file from the ledger.
func (s *Session) writeHoldings(ctx context.Context, ledger *Ledger) error {
	positions, err := Rebuild(ledger.All())
	if err != nil {
		return err
	}
	content, err := FormatHoldings(positions)
	if err != nil {
		return err
	}
	_, version, err := s.read(ctx, s.profile.Holdings)
	if err != nil {
		return err
	}
	_, err = s.store.Write(ctx, s.profile.Holdings, content, version, "Update holdings")
	return err
}

// RecordMovement appends a deposit or withdrawal to the finance file.
func (s *Session) RecordMovement(ctx context.Context, m FinanceMovement) error {
	if s.profile.Finance == "" {
		return fmt.Errorf("profile %q has no finance file: %w", s.profile.Name, ErrNotConfigured)
	}
	if m.ID == "" {
		return inputErrorf("movement has no id")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	content, version, err := s.read(ctx, s.profile.Finance)
	if err != nil {
		return err
	}
	content, err = AppendMovements(content, m)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("%s %s", m.Kind, m.Amount.FixedString())
	if _, err := s.store.Write(ctx, s.profile.Finance, content, version, message); err != nil {
		return fmt.Errorf("cannot write %q: %w", s.profile.Finance, err)
	}
	return nil
}

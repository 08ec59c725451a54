package skinfolio

import (
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/skinfolio/date"
)

// Ledger represents the list of transactions of a portfolio.
//
// Transactions are kept in the order they were recorded. That order breaks
// ties between transactions of the same day; every computation otherwise
// works on the chronological order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger with transactions in their recorded order.
// It does not validate them, see Validate.
func NewLedger(txs ...Transaction) *Ledger {
	return &Ledger{transactions: slices.Clone(txs)}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over the transactions in recorded order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// All returns a copy of the transactions in recorded order.
func (l *Ledger) All() []Transaction { return slices.Clone(l.transactions) }

// Chronological returns a copy of the transactions sorted by date, same-day
// transactions in recorded order.
func (l *Ledger) Chronological() []Transaction { return chronological(l.transactions) }

// Validate checks every transaction and that no sale ever exceeds the quantity held.
func (l *Ledger) Validate() error {
	_, err := replay(l.transactions, nil)
	return err
}

// Append records new transactions at the end of the ledger.
// The ledger is left unchanged if the result would be invalid.
func (l *Ledger) Append(txs ...Transaction) error {
	candidate := append(slices.Clone(l.transactions), txs...)
	if _, err := replay(candidate, nil); err != nil {
		return err
	}
	l.transactions = candidate
	return nil
}

// Find returns the transaction with that id.
func (l *Ledger) Find(id string) (Transaction, bool) {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Delete removes the transaction with that id.
// Removing a purchase that a later sale depends on is refused with an OversellError.
func (l *Ledger) Delete(id string) (Transaction, error) {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	removed := l.transactions[i]
	candidate := slices.Delete(slices.Clone(l.transactions), i, i+1)
	if _, err := replay(candidate, nil); err != nil {
		return Transaction{}, fmt.Errorf("cannot delete %q: %w", id, err)
	}
	l.transactions = candidate
	return removed, nil
}

// Items returns the sorted list of items ever traded.
func (l *Ledger) Items() []string {
	seen := make(map[string]struct{})
	for _, tx := range l.transactions {
		seen[tx.Item] = struct{}{}
	}
	items := make([]string, 0, len(seen))
	for item := range seen {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// Position returns the quantity of item held at the end of the day 'on'.
func (l *Ledger) Position(item string, on date.Date) Quantity {
	var position Quantity
	for _, tx := range l.transactions {
		if tx.Item == item && !tx.Date.After(on) {
			position = position.Add(tx.Delta())
		}
	}
	return position
}

// Oldest returns the date of the earliest transaction, or the zero date for an empty ledger.
func (l *Ledger) Oldest() date.Date {
	var oldest date.Date
	for _, tx := range l.transactions {
		if oldest.IsZero() || tx.Date.Before(oldest) {
			oldest = tx.Date
		}
	}
	return oldest
}

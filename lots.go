package skinfolio

import (
	"fmt"
	"slices"

	"github.com/etnz/skinfolio/date"
)

// lot is the running state of one item while the ledger is replayed: the
// quantity held and its weighted-average cost per item.
type lot struct {
	quantity Quantity
	wac      Money
}

// buy adds quantity bought at price to the lot and updates its average cost.
func (l *lot) buy(quantity Quantity, price Money) {
	if l.quantity.IsZero() {
		// A fresh lot costs exactly what was paid, no division involved.
		l.quantity = quantity
		l.wac = price
		return
	}
	total := l.quantity.Add(quantity)
	l.wac = l.wac.Mul(l.quantity).Add(price.Mul(quantity)).Div(total)
	l.quantity = total
}

// sell removes quantity from the lot. The average cost of the remaining items is unchanged.
func (l *lot) sell(quantity Quantity) { l.quantity = l.quantity.Sub(quantity) }

// chronological returns a copy of txs sorted by date. Transactions on the same
// day keep their ledger order.
func chronological(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Date.Compare(b.Date) })
	return sorted
}

// replay folds the ledger in chronological order, item by item.
//
// onSale, if not nil, is called for every SELL with the average cost the lot
// had just before the sale. Rebuild and Realized both rely on this single fold.
func replay(txs []Transaction, onSale func(tx Transaction, wac Money)) (map[string]*lot, error) {
	lots := make(map[string]*lot)
	for _, tx := range chronological(txs) {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %q: %w", tx.ID, err)
		}
		l, ok := lots[tx.Item]
		if !ok {
			l = &lot{}
			lots[tx.Item] = l
		}
		switch tx.Kind {
		case Buy:
			l.buy(tx.Quantity, tx.UnitPrice)
		case Sell:
			if l.quantity.LessThan(tx.Quantity) {
				return nil, &OversellError{TxID: tx.ID, Date: tx.Date, Item: tx.Item, Requested: tx.Quantity, Held: l.quantity}
			}
			if onSale != nil {
				onSale(tx, l.wac)
			}
			l.sell(tx.Quantity)
		}
	}
	return lots, nil
}

// quantities returns, for every item, the quantity held at the end of each day
// a transaction happened.
func quantities(txs []Transaction) map[string]*date.History[Quantity] {
	deltas := make(map[string]*date.History[Quantity])
	for _, tx := range txs {
		h, ok := deltas[tx.Item]
		if !ok {
			h = new(date.History[Quantity])
			deltas[tx.Item] = h
		}
		previous, _ := h.Get(tx.Date)
		h.Append(tx.Date, previous.Add(tx.Delta()))
	}
	// cumulative sum of the daily deltas.
	for _, h := range deltas {
		var held Quantity
		for on, delta := range h.Values() {
			held = held.Add(delta)
			h.Append(on, held)
		}
	}
	return deltas
}

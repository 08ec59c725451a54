package skinfolio

import (
	"maps"
	"slices"
)

// Rebuild replays the ledger and returns the positions currently held, by item.
//
// Items fully sold are not returned. A sale exceeding the quantity held is
// reported as an *OversellError.
func Rebuild(txs []Transaction) (map[string]Position, error) {
	lots, err := replay(txs, nil)
	if err != nil {
		return nil, err
	}
	positions := make(map[string]Position, len(lots))
	for item, l := range lots {
		if !l.quantity.IsPositive() {
			continue
		}
		positions[item] = Position{Item: item, Quantity: l.quantity, WAC: l.wac}
	}
	return positions, nil
}

// Realized replays the ledger and returns one record per SELL transaction, in
// chronological order, with the gain computed against the average cost at the
// time of the sale.
func Realized(txs []Transaction) ([]SaleRecord, error) {
	var records []SaleRecord
	_, err := replay(txs, func(tx Transaction, wac Money) {
		records = append(records, SaleRecord{
			TxID:     tx.ID,
			Date:     tx.Date,
			Item:     tx.Item,
			Quantity: tx.Quantity,
			Price:    tx.UnitPrice,
			WAC:      wac,
			Gain:     tx.UnitPrice.Sub(wac).Mul(tx.Quantity),
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// TotalRealized returns the cumulative realized gain of the sales.
func TotalRealized(records []SaleRecord) Money {
	var total Money
	for _, r := range records {
		total = total.Add(r.Gain)
	}
	return total
}

// Value values the positions with the latest known prices.
//
// A position without a price is flagged in Valuation.Unpriced and left out of
// the total value. Its cost still counts in the total cost.
func Value(positions map[string]Position, latest map[string]Money) Valuation {
	var v Valuation
	for _, item := range slices.Sorted(maps.Keys(positions)) {
		p := positions[item]
		pv := PositionValuation{Position: p}
		cost := p.CostBasis()
		v.TotalCost = v.TotalCost.Add(cost)

		price, ok := latest[item]
		if !ok {
			v.Unpriced = append(v.Unpriced, item)
			v.Positions = append(v.Positions, pv)
			continue
		}
		pv.Priced = true
		pv.Price = price
		pv.MarketValue = price.Mul(p.Quantity)
		pv.UnrealizedPnL = price.Sub(p.WAC).Mul(p.Quantity)
		if cost.IsPositive() {
			pv.PnLPct = SomePercent(pv.UnrealizedPnL.Ratio(cost))
		}
		v.TotalValue = v.TotalValue.Add(pv.MarketValue)
		v.Positions = append(v.Positions, pv)
	}
	v.TotalPnL = v.TotalValue.Sub(v.TotalCost)
	if v.TotalCost.IsPositive() {
		v.TotalPct = v.TotalPnL.Ratio(v.TotalCost)
	}
	return v
}

// CashBalance reconciles the marketplace wallet: external deposits minus
// withdrawals, minus purchases, plus sale proceeds.
type CashBalance struct {
	Deposits    Money
	Withdrawals Money
	Bought      Money
	Sold        Money
}

// Balance returns the resulting cash.
func (c CashBalance) Balance() Money {
	return c.Deposits.Sub(c.Withdrawals).Sub(c.Bought).Add(c.Sold)
}

// NetInvested returns the external cash put in the wallet.
func (c CashBalance) NetInvested() Money { return c.Deposits.Sub(c.Withdrawals) }

// Cash reconciles the finance movements with the ledger.
func Cash(txs []Transaction, movements []FinanceMovement) CashBalance {
	var c CashBalance
	for _, m := range movements {
		switch m.Kind {
		case Deposit:
			c.Deposits = c.Deposits.Add(m.Amount)
		case Withdraw:
			c.Withdrawals = c.Withdrawals.Add(m.Amount)
		}
	}
	for _, tx := range txs {
		switch tx.Kind {
		case Buy:
			c.Bought = c.Bought.Add(tx.Amount())
		case Sell:
			c.Sold = c.Sold.Add(tx.Amount())
		}
	}
	return c
}

package skinfolio

import "github.com/etnz/skinfolio/date"

// Position is the quantity of an item currently held and its weighted-average cost.
type Position struct {
	Item     string
	Quantity Quantity
	WAC      Money // weighted-average cost per item
}

// CostBasis returns the total cost of the position.
func (p Position) CostBasis() Money { return p.WAC.Mul(p.Quantity) }

// SaleRecord is the realized gain of a single SELL transaction.
type SaleRecord struct {
	TxID     string
	Date     date.Date
	Item     string
	Quantity Quantity
	Price    Money // unit sale price
	WAC      Money // average cost just before the sale
	Gain     Money // (Price - WAC) * Quantity
}

// Proceeds returns the cash received for the sale.
func (s SaleRecord) Proceeds() Money { return s.Price.Mul(s.Quantity) }

// PositionValuation is a position valued at the latest known price.
//
// When the price is unknown (Priced is false) MarketValue and UnrealizedPnL are
// zero and meaningless, and PnLPct is not valid.
type PositionValuation struct {
	Position
	Priced        bool
	Price         Money
	MarketValue   Money
	UnrealizedPnL Money
	PnLPct        OptionalPercent
	Icon          string // optional image url
}

// Valuation is the valuation of all the positions of the portfolio.
type Valuation struct {
	Positions  []PositionValuation // sorted by item
	TotalValue Money               // sum of the market values of priced positions
	TotalCost  Money               // sum of the cost basis of all positions
	TotalPnL   Money
	TotalPct   Percent
	Unpriced   []string // items excluded from TotalValue
}

// Point is the value of the portfolio at the end of a day.
type Point struct {
	Date  date.Date
	Value Money
}

// PricePoint is the price of an item at the end of a day.
type PricePoint struct {
	Date  date.Date
	Price Money
}

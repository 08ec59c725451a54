package renderer

import (
	"github.com/etnz/skinfolio"
)

// Holdings is the data of the holdings report.
type Holdings struct {
	// Name of the profile.
	Name string
	// Source of the prices, e.g. "price history" or "live".
	Source string
	// Icons is set when at least one position has an icon.
	Icons     bool
	Positions []HoldingPosition
	// Totals, already formatted.
	TotalValue string
	TotalCost  string
	TotalPnL   string
	TotalPct   string
	// Unpriced items, left out of TotalValue.
	Unpriced []string
}

// HoldingPosition is one line of the holdings report. Unknown values are "N/A".
type HoldingPosition struct {
	Item        string
	Quantity    skinfolio.Quantity
	WAC         skinfolio.Money
	CostBasis   skinfolio.Money
	Price       string
	MarketValue string
	PnL         string
	PnLPct      string
	Icon        string
}

const na = "N/A"

// NewHoldings builds the holdings report from a valuation.
func NewHoldings(name, source string, v skinfolio.Valuation) *Holdings {
	h := &Holdings{
		Name:       name,
		Source:     source,
		Positions:  make([]HoldingPosition, 0, len(v.Positions)),
		TotalValue: v.TotalValue.String(),
		TotalCost:  v.TotalCost.String(),
		TotalPnL:   v.TotalPnL.SignedString(),
		TotalPct:   v.TotalPct.SignedString(),
		Unpriced:   v.Unpriced,
	}
	for _, p := range v.Positions {
		hp := HoldingPosition{
			Item:        p.Item,
			Quantity:    p.Quantity,
			WAC:         p.WAC,
			CostBasis:   p.CostBasis(),
			Price:       na,
			MarketValue: na,
			PnL:         na,
			PnLPct:      p.PnLPct.SignedString(),
		}
		if p.Priced {
			hp.Price = p.Price.String()
			hp.MarketValue = p.MarketValue.String()
			hp.PnL = p.UnrealizedPnL.SignedString()
		}
		if p.Icon != "" {
			hp.Icon = "![](" + p.Icon + ")"
			h.Icons = true
		}
		h.Positions = append(h.Positions, hp)
	}
	return h
}

// RenderHoldings renders the holdings report.
func RenderHoldings(h *Holdings) string {
	partials := map[string]string{
		"holdings_title":     "holdings_title.md",
		"holdings_positions": "holdings_positions.md",
		"holdings_totals":    "holdings_totals.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, h)
}

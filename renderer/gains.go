package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/skinfolio"
)

// GainsMarkdown renders the realized gain of every sale, the realized total per
// item, and the unrealized gains of the current positions.
func GainsMarkdown(records []skinfolio.SaleRecord, v skinfolio.Valuation) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Gains Report\n\n")

	fmt.Fprint(&b, "## Realized Gains per Sale\n\n")
	if len(records) == 0 {
		fmt.Fprint(&b, "No sale recorded.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Item | Qty | Sale Price | Avg Cost | Proceeds | Gain |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
		for _, r := range records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				r.Date,
				cell(r.Item),
				r.Quantity,
				r.Price,
				r.WAC,
				r.Proceeds(),
				r.Gain.SignedString(),
			)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "## Gains per Item\n\n")
	realized := make(map[string]skinfolio.Money)
	for _, r := range records {
		realized[r.Item] = realized[r.Item].Add(r.Gain)
	}
	unrealized := make(map[string]skinfolio.PositionValuation)
	var unrealizedTotal skinfolio.Money // priced positions only
	for _, p := range v.Positions {
		unrealized[p.Item] = p
		if p.Priced {
			unrealizedTotal = unrealizedTotal.Add(p.UnrealizedPnL)
		}
		if _, ok := realized[p.Item]; !ok {
			realized[p.Item] = skinfolio.Money{}
		}
	}
	fmt.Fprintln(&b, "| Item | Realized | Unrealized |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, item := range slices.Sorted(maps.Keys(realized)) {
		u := "-"
		if p, ok := unrealized[item]; ok {
			u = na
			if p.Priced {
				u = p.UnrealizedPnL.SignedString()
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(item), realized[item].SignedString(), u)
	}
	fmt.Fprintf(&b, "| **%s** | **%s** | **%s** |\n",
		"Total",
		skinfolio.TotalRealized(records).SignedString(),
		unrealizedTotal.SignedString(),
	)

	optional(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\nUnrealized total excludes unpriced items: %s.\n", strings.Join(v.Unpriced, ", "))
		return len(v.Unpriced) > 0
	})
	return b.String()
}

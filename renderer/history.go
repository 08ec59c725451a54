package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/skinfolio"
)

// HistoryMarkdown renders the daily value of the portfolio.
func HistoryMarkdown(name string, points []skinfolio.Point) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "# History of %s\n\n", name)
	} else {
		fmt.Fprint(&b, "# History\n\n")
	}
	if len(points) == 0 {
		fmt.Fprint(&b, "No price observed yet.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Value | Change |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	var prev skinfolio.Money
	for i, p := range points {
		change := "-"
		if i > 0 {
			change = p.Value.Sub(prev).SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Date, p.Value, change)
		prev = p.Value
	}
	return b.String()
}

// ItemHistoryMarkdown renders the daily closing price of an item.
func ItemHistoryMarkdown(item string, points []skinfolio.PricePoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Price History of %s\n\n", item)
	if len(points) == 0 {
		fmt.Fprint(&b, "No price observed yet.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Price |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Date, p.Price)
	}
	return b.String()
}

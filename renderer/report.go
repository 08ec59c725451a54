package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/etnz/skinfolio"
)

// CashMarkdown renders the cash reconciliation.
func CashMarkdown(c skinfolio.CashBalance, movements []skinfolio.FinanceMovement) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Cash\n\n")
	fmt.Fprintln(&b, "| Flow | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Deposits | %s |\n", c.Deposits)
	fmt.Fprintf(&b, "| Withdrawals | %s |\n", c.Withdrawals.Neg())
	fmt.Fprintf(&b, "| Purchases | %s |\n", c.Bought.Neg())
	fmt.Fprintf(&b, "| Sales | %s |\n", c.Sold)
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", c.Balance())

	optional(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Movements\n\n")
		fmt.Fprintln(w, "| Date | Movement | Note | ID |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|")
		for _, m := range movements {
			fmt.Fprintf(w, "| %s | %s | %s | `%s` |\n", m.Date, Movement(m), cell(m.Note), m.ID)
		}
		return len(movements) > 0
	})
	return b.String()
}

// FetchMarkdown renders the outcome of a price fetch.
func FetchMarkdown(r skinfolio.FetchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Prices at %s\n\n", r.Timestamp.Format(time.RFC3339))
	if len(r.Observations) == 0 {
		fmt.Fprint(&b, "No price recorded.\n")
	} else {
		fmt.Fprintln(&b, "| Item | Lowest Ask |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, o := range r.Observations {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(o.Item), o.Price)
		}
	}
	optional(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\nNo listing: %s.\n", strings.Join(r.Skipped, ", "))
		return len(r.Skipped) > 0
	})
	optional(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\nFailed:\n\n")
		for _, item := range slices.Sorted(maps.Keys(r.Failed)) {
			fmt.Fprintf(w, "- %s: %v\n", item, r.Failed[item])
		}
		return len(r.Failed) > 0
	})
	return b.String()
}

// WarningsMarkdown renders the rows left out of the loaded files. It is empty when there is none.
func WarningsMarkdown(rejected []error) string {
	var b strings.Builder
	optional(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "> **Warning**: %d row(s) skipped.\n>\n", len(rejected))
		for _, err := range rejected {
			fmt.Fprintf(w, "> - %v\n", err)
		}
		fmt.Fprintln(w)
		return len(rejected) > 0
	})
	return b.String()
}

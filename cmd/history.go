package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/date"
	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	item  string
	start string
	end   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display portfolio or item value history" }
func (*historyCmd) Usage() string {
	return `skinfolio history [-i <item>] [-s <date>] [-d <date>]

  Displays the value of the portfolio at the end of each day, from the first
  day with both a position and a price. Days without a price observation
  carry the last known price forward.

  With -i, displays the daily closing price of a single item instead.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "i", "", "Item (market hash name) to report on")
	f.StringVar(&c.start, "s", "", "First day to display (YYYY-MM-DD)")
	f.StringVar(&c.end, "d", "", "Last day to display (YYYY-MM-DD)")
}

// window returns the range of days to display, unbounded when the flags are not set.
func (c *historyCmd) window() (date.Range, error) {
	r := date.NewRange(date.New(1, 1, 1), date.New(9999, 12, 31))
	var err error
	if c.start != "" {
		if r.From, err = date.Parse(c.start); err != nil {
			return r, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if c.end != "" {
		if r.To, err = date.Parse(c.end); err != nil {
			return r, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return r, nil
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := c.window()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ws, book, err := loadBook(ctx)
	if err != nil {
		return failf("%v", err)
	}

	if c.item != "" {
		var points []skinfolio.PricePoint
		for _, p := range skinfolio.ItemHistory(book.Observations, c.item) {
			if window.Contains(p.Date) {
				points = append(points, p)
			}
		}
		printMarkdown(renderer.ItemHistoryMarkdown(c.item, points))
		return subcommands.ExitSuccess
	}

	series, err := skinfolio.TimeSeries(book.Ledger.All(), book.Observations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing history: %v\n", err)
		return subcommands.ExitFailure
	}
	var points []skinfolio.Point
	for _, p := range series {
		if window.Contains(p.Date) {
			points = append(points, p)
		}
	}
	printMarkdown(renderer.HistoryMarkdown(ws.session.Profile().Name, points))
	return subcommands.ExitSuccess
}

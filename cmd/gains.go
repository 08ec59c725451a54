package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	live bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized and unrealized gain analysis" }
func (*gainsCmd) Usage() string {
	return `skinfolio gains [-live]

  Displays the realized gain of every sale, computed against the average cost
  at the time of the sale, and the realized and unrealized gains per item.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.live, "live", false, "Compute unrealized gains at the current lowest ask")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, book, err := loadBook(ctx)
	if err != nil {
		return failf("%v", err)
	}

	records, err := skinfolio.Realized(book.Ledger.All())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing realized gains: %v\n", err)
		return subcommands.ExitFailure
	}
	valuation, err := ws.session.Holdings(ctx, book, c.live)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.GainsMarkdown(records, valuation))
	return subcommands.ExitSuccess
}

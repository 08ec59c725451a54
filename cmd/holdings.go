package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	live  bool
	icons bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display current positions and their value" }
func (*holdingsCmd) Usage() string {
	return `skinfolio holdings [-live] [-icons]

  Displays the items held, their average cost, latest price, market value and
  unrealized gain. Prices are the latest recorded in the price history unless
  -live is set.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.live, "live", false, "Value positions at the current lowest ask instead of the price history")
	f.BoolVar(&c.icons, "icons", false, "Show the item icons")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, book, err := loadBook(ctx)
	if err != nil {
		return failf("%v", err)
	}

	valuation, err := ws.session.Holdings(ctx, book, c.live)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.icons {
		ws.session.Icons(ctx, &valuation)
	}

	source := "price history"
	if c.live {
		source = "live lowest ask"
	}
	printMarkdown(renderer.RenderHoldings(renderer.NewHoldings(ws.session.Profile().Name, source, valuation)))
	return subcommands.ExitSuccess
}

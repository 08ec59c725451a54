package cmd

import (
	"context"
	"flag"

	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
)

type cashCmd struct{}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "reconcile cash deposits, withdrawals and trades" }
func (*cashCmd) Usage() string {
	return `skinfolio cash

  Displays the marketplace wallet balance: deposits minus withdrawals, minus
  purchases, plus sales.
`
}

func (*cashCmd) SetFlags(f *flag.FlagSet) {}

func (*cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, book, err := loadBook(ctx)
	if err != nil {
		return failf("%v", err)
	}
	printMarkdown(renderer.CashMarkdown(ws.session.Cash(book), book.Movements))
	return subcommands.ExitSuccess
}

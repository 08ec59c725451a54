package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "record the current lowest ask of every item held" }
func (*fetchCmd) Usage() string {
	return `skinfolio fetch

  Queries the lowest ask of every item currently held, one at a time, and
  appends the prices to the price history under a single timestamp.
  Requires CSFLOAT_API_KEY.
`
}

func (*fetchCmd) SetFlags(f *flag.FlagSet) {}

func (*fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		return failf("%v", err)
	}
	report, err := ws.session.Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.FetchMarkdown(report))
	return subcommands.ExitSuccess
}

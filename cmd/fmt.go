package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `skinfolio fmt

  Validates and formats the ledger file. This command reads all transactions,
  validates them, sorts them by date, and writes them back in canonical CSV.
  A ledger with malformed rows or an oversell is left untouched.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		return failf("%v", err)
	}
	changed, err := ws.session.Format(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting ledger %q: %v\n", ws.session.Profile().Ledger, err)
		return subcommands.ExitFailure
	}
	if !changed {
		fmt.Fprintf(os.Stderr, "Ledger %q is already formatted.\n", ws.session.Profile().Ledger)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Formatted ledger %q.\n", ws.session.Profile().Ledger)
	return subcommands.ExitSuccess
}

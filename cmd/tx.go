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

type txCmd struct {
	item string
	head int
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list all transactions in the ledger" }
func (*txCmd) Usage() string {
	return `skinfolio tx [-i <item>] [-head <n>] [-tail <n>]

  Lists transactions from the ledger in chronological order, with options for
  filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.item, "i", "", "Show only the transactions of this item.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	_, book, err := loadBook(ctx)
	if err != nil {
		return failf("%v", err)
	}

	var transactions []skinfolio.Transaction
	for _, tx := range book.Ledger.Chronological() {
		if p.item == "" || tx.Item == p.item {
			transactions = append(transactions, tx)
		}
	}

	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[len(transactions)-p.tail:]
	}

	printMarkdown(renderer.TransactionsMarkdown(transactions))

	return subcommands.ExitSuccess
}

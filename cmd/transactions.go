package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/date"
	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// newID returns a fresh identifier for a ledger entry.
func newID() string { return uuid.NewString() }

// record appends a transaction to the ledger of the selected profile.
func record(ctx context.Context, ws *workspace, tx skinfolio.Transaction) subcommands.ExitStatus {
	err := ws.session.Record(ctx, tx)
	var oversell *skinfolio.OversellError
	switch {
	case errors.As(err, &oversell):
		fmt.Fprintf(os.Stderr, "Error: %v\n", oversell)
		return subcommands.ExitFailure
	case errors.Is(err, skinfolio.ErrConflict):
		fmt.Fprintf(os.Stderr, "Error: the ledger changed while recording, run the command again: %v\n", err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error recording transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s (id %s)\n", renderer.Transaction(tx), tx.ID)
	return subcommands.ExitSuccess
}

// tradeFlags are the flags shared by buy and sell.
type tradeFlags struct {
	date     string
	item     string
	quantity int
	price    string
	note     string
	id       string
}

func (c *tradeFlags) setFlags(f *flag.FlagSet, quantityHelp string) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.item, "i", "", "Item market hash name, e.g. \"AK-47 | Redline (Field-Tested)\"")
	f.IntVar(&c.quantity, "q", 0, quantityHelp)
	f.StringVar(&c.price, "p", "", "Unit price in USD")
	f.StringVar(&c.note, "m", "", "An optional note for the transaction")
	f.StringVar(&c.id, "id", "", "Transaction id. A random id is generated if missing")
}

// transaction builds the transaction described by the flags.
func (c *tradeFlags) transaction(kind skinfolio.Kind) (skinfolio.Transaction, error) {
	day, err := date.Parse(c.date)
	if err != nil {
		return skinfolio.Transaction{}, err
	}
	price, err := skinfolio.ParseMoney(c.price)
	if err != nil {
		return skinfolio.Transaction{}, fmt.Errorf("invalid price %q: %w", c.price, err)
	}
	id := c.id
	if id == "" {
		id = newID()
	}
	tx := skinfolio.Transaction{
		ID:        id,
		Date:      day,
		Kind:      kind,
		Item:      c.item,
		Quantity:  skinfolio.Q(c.quantity),
		UnitPrice: price,
		Note:      c.note,
	}
	return tx, nil
}

// --- Buy Command ---

type buyCmd struct{ tradeFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase items to open or add to a position" }
func (*buyCmd) Usage() string {
	return `skinfolio buy -i <item> -q <quantity> -p <price> [-d <date>] [-m <note>] [-id <id>]

  Records a purchase in the ledger. The average cost of the position is
  updated with the purchase price.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, "Number of items") }

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.item == "" || c.quantity <= 0 || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tx, err := c.transaction(skinfolio.Buy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ws, err := openWorkspace()
	if err != nil {
		return failf("%v", err)
	}
	return record(ctx, ws, tx)
}

// --- Sell Command ---

type sellCmd struct{ tradeFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell items to trim or close a position" }
func (*sellCmd) Usage() string {
	return `skinfolio sell -i <item> [-q <quantity>] -p <price> [-d <date>] [-m <note>] [-id <id>]

  Records a sale in the ledger. The average cost of the remaining items is
  unchanged. Selling more than the position held on that date is refused.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f, "Number of items, if missing the whole position is sold")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.item == "" || c.quantity < 0 || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tx, err := c.transaction(skinfolio.Sell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ws, book, err := loadBook(ctx)
	if err != nil {
		return failf("%v", err)
	}
	if c.quantity == 0 {
		tx.Quantity = book.Ledger.Position(tx.Item, tx.Date)
		if !tx.Quantity.IsPositive() {
			return failf("no %q held on %s", tx.Item, tx.Date)
		}
	}
	return record(ctx, ws, tx)
}

// --- Delete Command ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a transaction from the ledger" }
func (*deleteCmd) Usage() string {
	return `skinfolio delete <id>

  Removes the transaction with the given id from the ledger. Deleting a
  purchase that a later sale depends on is refused.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	ws, err := openWorkspace()
	if err != nil {
		return failf("%v", err)
	}
	tx, err := ws.session.Delete(ctx, id)
	switch {
	case errors.Is(err, skinfolio.ErrNotFound):
		return failf("no transaction with id %q", id)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error deleting transaction %q: %v\n", id, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted: %s on %s\n", renderer.Transaction(tx), tx.Date)
	return subcommands.ExitSuccess
}

// --- Deposit and Withdraw Commands ---

// movementFlags are the flags shared by deposit and withdraw.
type movementFlags struct {
	date   string
	amount string
	note   string
	id     string
}

func (c *movementFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Movement date (YYYY-MM-DD)")
	f.StringVar(&c.amount, "a", "", "Amount in USD")
	f.StringVar(&c.note, "m", "", "An optional note")
	f.StringVar(&c.id, "id", "", "Movement id. A random id is generated if missing")
}

func (c *movementFlags) execute(ctx context.Context, f *flag.FlagSet, kind skinfolio.MovementKind) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := skinfolio.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	m := skinfolio.FinanceMovement{ID: c.id, Date: day, Kind: kind, Amount: amount, Note: c.note}
	if m.ID == "" {
		m.ID = newID()
	}

	ws, err := openWorkspace()
	if err != nil {
		return failf("%v", err)
	}
	if err := ws.session.RecordMovement(ctx, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", kind, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s (id %s)\n", renderer.Movement(m), m.ID)
	return subcommands.ExitSuccess
}

type depositCmd struct{ movementFlags }

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record cash added to the marketplace wallet" }
func (*depositCmd) Usage() string {
	return `skinfolio deposit -a <amount> [-d <date>] [-m <note>] [-id <id>]

  Records a deposit in the finance ledger.
`
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, skinfolio.Deposit)
}

type withdrawCmd struct{ movementFlags }

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record cash taken out of the marketplace wallet" }
func (*withdrawCmd) Usage() string {
	return `skinfolio withdraw -a <amount> [-d <date>] [-m <note>] [-id <id>]

  Records a withdrawal in the finance ledger.
`
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, skinfolio.Withdraw)
}

package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/skinfolio"
)

// Transaction renders a transaction to a string.
func Transaction(tx skinfolio.Transaction) string {
	switch tx.Kind {
	case skinfolio.Buy:
		return fmt.Sprintf("Bought %s of %s for %s", tx.Quantity, tx.Item, tx.Amount())
	case skinfolio.Sell:
		return fmt.Sprintf("Sold %s of %s for %s", tx.Quantity, tx.Item, tx.Amount())
	default:
		return tx.String()
	}
}

// Movement renders a finance movement to a string.
func Movement(m skinfolio.FinanceMovement) string {
	switch m.Kind {
	case skinfolio.Deposit:
		return fmt.Sprintf("Deposited %s", m.Amount)
	case skinfolio.Withdraw:
		return fmt.Sprintf("Withdrew %s", m.Amount)
	default:
		return m.Kind.String()
	}
}

// TransactionsMarkdown renders the ledger in chronological order.
func TransactionsMarkdown(txs []skinfolio.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "The ledger is empty.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Type | Item | Qty | Price | Amount | Note | ID |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|:---|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | `%s` |\n",
			tx.Date,
			tx.Kind,
			cell(tx.Item),
			tx.Quantity,
			tx.UnitPrice,
			tx.Amount(),
			cell(tx.Note),
			tx.ID,
		)
	}
	return b.String()
}

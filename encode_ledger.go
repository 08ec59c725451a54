package skinfolio

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/skinfolio/date"
)

// TransactionHeader is the header row of the ledger file.
var TransactionHeader = []string{"date", "type", "market_hash_name", "qty", "price_usd", "note", "trade_id"}

// MovementHeader is the header row of the finance movements file.
var MovementHeader = []string{"date", "type", "amount_usd", "note", "id"}

// DecodeTransactions reads a ledger file.
//
// Malformed rows are returned in 'rejected' (as *RowError wrapping ErrInput)
// and left out of the ledger. A row without trade_id gets the id "line-<n>".
func DecodeTransactions(r io.Reader) (txs []Transaction, rejected []error, err error) {
	seen := make(map[string]bool)
	rejected, err = decodeRows(r, []string{"date", "type", "market_hash_name", "qty", "price_usd"}, func(line int, cols columns, row []string) error {
		tx, err := decodeTransaction(cols, row)
		if err != nil {
			return err
		}
		if tx.ID == "" {
			tx.ID = fmt.Sprintf("line-%d", line)
		}
		if seen[tx.ID] {
			return inputErrorf("duplicate trade_id %q", tx.ID)
		}
		seen[tx.ID] = true
		txs = append(txs, tx)
		return nil
	})
	return txs, rejected, err
}

func decodeTransaction(cols columns, row []string) (Transaction, error) {
	var tx Transaction
	var err error
	if tx.Date, err = date.Parse(cols.get(row, "date")); err != nil {
		return tx, fmt.Errorf("%w: %v", ErrInput, err)
	}
	if tx.Kind, err = ParseKind(cols.get(row, "type")); err != nil {
		return tx, err
	}
	tx.Item = cols.get(row, "market_hash_name")
	if tx.Quantity, err = ParseQuantity(cols.get(row, "qty")); err != nil {
		return tx, inputErrorf("invalid qty %q", cols.get(row, "qty"))
	}
	if tx.UnitPrice, err = ParseMoney(cols.get(row, "price_usd")); err != nil {
		return tx, inputErrorf("invalid price_usd %q", cols.get(row, "price_usd"))
	}
	tx.Note = cols.get(row, "note")
	tx.ID = cols.get(row, "trade_id")
	return tx, tx.Validate()
}

func transactionRows(txs []Transaction) [][]string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Date.String(),
			tx.Kind.String(),
			tx.Item,
			tx.Quantity.String(),
			tx.UnitPrice.Decimal().String(),
			tx.Note,
			tx.ID,
		})
	}
	return rows
}

// EncodeTransactions writes the full ledger file, header included.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	return encodeRows(w, TransactionHeader, transactionRows(txs))
}

// AppendTransactions returns the content of a ledger file with transactions
// appended. Existing rows are kept as is.
func AppendTransactions(content string, txs ...Transaction) (string, error) {
	return appendRows(content, TransactionHeader, transactionRows(txs))
}

// FormatTransactions returns the content of a ledger file.
func FormatTransactions(txs []Transaction) (string, error) {
	var b strings.Builder
	if err := EncodeTransactions(&b, txs); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DecodeMovements reads a finance movements file. Malformed rows are rejected individually.
func DecodeMovements(r io.Reader) (movements []FinanceMovement, rejected []error, err error) {
	rejected, err = decodeRows(r, []string{"date", "type", "amount_usd"}, func(line int, cols columns, row []string) error {
		var m FinanceMovement
		var err error
		if m.Date, err = date.Parse(cols.get(row, "date")); err != nil {
			return fmt.Errorf("%w: %v", ErrInput, err)
		}
		if m.Kind, err = ParseMovementKind(cols.get(row, "type")); err != nil {
			return err
		}
		if m.Amount, err = ParseMoney(cols.get(row, "amount_usd")); err != nil {
			return inputErrorf("invalid amount_usd %q", cols.get(row, "amount_usd"))
		}
		m.Note = cols.get(row, "note")
		if m.ID = cols.get(row, "id"); m.ID == "" {
			m.ID = fmt.Sprintf("line-%d", line)
		}
		if err := m.Validate(); err != nil {
			return err
		}
		movements = append(movements, m)
		return nil
	})
	return movements, rejected, err
}

// AppendMovements returns the content of a finance file with new movements appended.
func AppendMovements(content string, movements ...FinanceMovement) (string, error) {
	rows := make([][]string, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []string{m.Date.String(), m.Kind.String(), m.Amount.Decimal().String(), m.Note, m.ID})
	}
	return appendRows(content, MovementHeader, rows)
}

package skinfolio

import (
	"fmt"
	"strings"

	"github.com/etnz/skinfolio/date"
)

// Kind is the type of a ledger transaction.
type Kind int

const (
	Buy Kind = iota + 1
	Sell
)

func (k Kind) String() string {
	switch k {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses "BUY" or "SELL", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return 0, inputErrorf("unknown transaction type %q", s)
	}
}

// Transaction is an entry of the ledger. It is immutable once recorded: deleting
// it rewrites the ledger without it.
type Transaction struct {
	ID        string
	Date      date.Date
	Kind      Kind
	Item      string // market_hash_name, the marketplace identifier of the item
	Quantity  Quantity
	UnitPrice Money
	Note      string
}

// NewBuy returns a BUY transaction.
func NewBuy(on date.Date, id, item string, quantity int, price float64) Transaction {
	return Transaction{ID: id, Date: on, Kind: Buy, Item: item, Quantity: Q(quantity), UnitPrice: M(price)}
}

// NewSell returns a SELL transaction.
func NewSell(on date.Date, id, item string, quantity int, price float64) Transaction {
	return Transaction{ID: id, Date: on, Kind: Sell, Item: item, Quantity: Q(quantity), UnitPrice: M(price)}
}

// Amount returns the total amount of the transaction.
func (t Transaction) Amount() Money { return t.UnitPrice.Mul(t.Quantity) }

// Delta returns the signed quantity change the transaction makes to the position.
func (t Transaction) Delta() Quantity {
	if t.Kind == Sell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// Validate checks the intrinsic correctness of the transaction. Checks that
// need the rest of the ledger (oversell) are done by the Ledger.
func (t Transaction) Validate() error {
	switch {
	case t.Kind != Buy && t.Kind != Sell:
		return inputErrorf("unknown transaction type")
	case t.Date.IsZero():
		return inputErrorf("%s transaction has no date", t.Kind)
	case strings.TrimSpace(t.Item) == "":
		return inputErrorf("%s transaction on %s has no item", t.Kind, t.Date)
	case !t.Quantity.IsPositive():
		return inputErrorf("%s quantity must be positive, got %v", t.Kind, t.Quantity)
	case !t.Quantity.IsInteger():
		return inputErrorf("%s quantity must be a whole number, got %v", t.Kind, t.Quantity)
	case t.UnitPrice.IsNegative():
		return inputErrorf("%s price must not be negative, got %v", t.Kind, t.UnitPrice)
	}
	return nil
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %v %q @ %v", t.Date, t.Kind, t.Quantity, t.Item, t.UnitPrice)
}

// MovementKind is the type of an external cash movement.
type MovementKind int

const (
	Deposit MovementKind = iota + 1
	Withdraw
)

func (k MovementKind) String() string {
	switch k {
	case Deposit:
		return "DEPOSIT"
	case Withdraw:
		return "WITHDRAW"
	default:
		return "UNKNOWN"
	}
}

// ParseMovementKind parses "DEPOSIT" or "WITHDRAW", case-insensitively.
func ParseMovementKind(s string) (MovementKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEPOSIT":
		return Deposit, nil
	case "WITHDRAW":
		return Withdraw, nil
	default:
		return 0, inputErrorf("unknown movement type %q", s)
	}
}

// FinanceMovement records cash moved in or out of the marketplace wallet.
type FinanceMovement struct {
	ID     string
	Date   date.Date
	Kind   MovementKind
	Amount Money
	Note   string
}

// Validate checks the intrinsic correctness of the movement.
func (m FinanceMovement) Validate() error {
	switch {
	case m.Kind != Deposit && m.Kind != Withdraw:
		return inputErrorf("unknown movement type")
	case m.Date.IsZero():
		return inputErrorf("%s has no date", m.Kind)
	case !m.Amount.IsPositive():
		return inputErrorf("%s amount must be positive, got %v", m.Kind, m.Amount)
	}
	return nil
}

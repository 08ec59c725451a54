package skinfolio

import "fmt"

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// OptionalPercent is a percentage that may be undefined, e.g. a gain relative
// to a zero cost basis. An undefined value is never shown as 0%.
type OptionalPercent struct {
	Value Percent
	Valid bool
}

// SomePercent returns a defined percentage.
func SomePercent(p Percent) OptionalPercent { return OptionalPercent{Value: p, Valid: true} }

func (o OptionalPercent) String() string {
	if !o.Valid {
		return "N/A"
	}
	return o.Value.String()
}

func (o OptionalPercent) SignedString() string {
	if !o.Valid {
		return "N/A"
	}
	return o.Value.SignedString()
}

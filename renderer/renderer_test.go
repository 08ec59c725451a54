package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	AK  = "AK-47 | Redline (Field-Tested)"
	AWP = "AWP | Asiimov (Field-Tested)"
)

// table is a GFM table parsed from a rendered report: the header then the rows.
type table [][]string

// parseTables parses markdown with the GFM extension and returns its tables
// and the text of its headings.
func parseTables(t *testing.T, md string) (tables []table, headings []string) {
	t.Helper()
	source := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(source))

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			headings = append(headings, textOf(n, source))
			return ast.WalkSkipChildren, nil
		case *east.Table:
			var tb table
			for row := n.FirstChild(); row != nil; row = row.NextSibling() {
				var cells []string
				for c := row.FirstChild(); c != nil; c = c.NextSibling() {
					cells = append(cells, textOf(c, source))
				}
				tb = append(tb, cells)
			}
			tables = append(tables, tb)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("cannot walk markdown: %v", err)
	}
	return tables, headings
}

// textOf returns the plain text of a node, escaping backslashes removed.
func textOf(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(strings.ReplaceAll(b.String(), `\`, ""))
}

func valuation(t *testing.T) skinfolio.Valuation {
	t.Helper()
	positions, err := skinfolio.Rebuild([]skinfolio.Transaction{
		skinfolio.NewBuy(date.New(2024, time.January, 1), "1", AK, 10, 2),
		skinfolio.NewBuy(date.New(2024, time.January, 2), "2", AK, 5, 5),
		skinfolio.NewBuy(date.New(2024, time.January, 3), "3", AWP, 1, 50),
	})
	if err != nil {
		t.Fatal(err)
	}
	return skinfolio.Value(positions, map[string]skinfolio.Money{AK: skinfolio.M(4)})
}

func TestRenderHoldings(t *testing.T) {
	md := RenderHoldings(NewHoldings("main", "price history", valuation(t)))

	tables, headings := parseTables(t, md)
	if len(headings) != 2 || headings[0] != "Holdings of main" || headings[1] != "Totals" {
		t.Errorf("headings = %q", headings)
	}
	if len(tables) != 2 {
		t.Fatalf("found %d tables, want 2:\n%s", len(tables), md)
	}
	positions := tables[0]
	if len(positions) != 3 {
		t.Fatalf("positions table has %d lines, want a header and 2 rows:\n%s", len(positions), md)
	}
	for i, row := range positions {
		if len(row) != 8 {
			t.Errorf("line %d has %d cells, want 8: %q", i, len(row), row)
		}
	}
	if ak := positions[1]; ak[0] != AK || ak[1] != "15" || ak[2] != "$3.00" || ak[5] != "$60.00" || ak[6] != "+$15.00" || ak[7] != "+33.33%" {
		t.Errorf("AK row = %q", ak)
	}
	if awp := positions[2]; awp[0] != AWP || awp[4] != "N/A" || awp[6] != "N/A" || awp[7] != "N/A" {
		t.Errorf("unpriced row = %q", awp)
	}
	if !strings.Contains(md, "excluded from the market value: "+AWP) {
		t.Errorf("unpriced items not listed:\n%s", md)
	}
}

func TestRenderHoldings_Icons(t *testing.T) {
	v := valuation(t)
	v.Positions[0].Icon = "https://example.com/ak.png"
	md := RenderHoldings(NewHoldings("", "live", v))
	tables, _ := parseTables(t, md)
	if len(tables) == 0 || len(tables[0][0]) != 9 || tables[0][0][8] != "Icon" {
		t.Fatalf("positions table without an Icon column:\n%s", md)
	}
	if !strings.Contains(md, "![](https://example.com/ak.png)") {
		t.Errorf("icon not rendered:\n%s", md)
	}
}

func TestRenderHoldings_Empty(t *testing.T) {
	md := RenderHoldings(NewHoldings("", "live", skinfolio.Value(nil, nil)))
	if !strings.Contains(md, "No position held.") {
		t.Errorf("empty holdings:\n%s", md)
	}
}

func TestGainsMarkdown(t *testing.T) {
	txs := []skinfolio.Transaction{
		skinfolio.NewBuy(date.New(2024, time.January, 1), "1", AK, 10, 2),
		skinfolio.NewBuy(date.New(2024, time.January, 2), "2", AK, 5, 5),
		skinfolio.NewSell(date.New(2024, time.January, 3), "3", AK, 5, 4),
	}
	records, err := skinfolio.Realized(txs)
	if err != nil {
		t.Fatal(err)
	}
	md := GainsMarkdown(records, valuation(t))
	tables, _ := parseTables(t, md)
	if len(tables) != 2 {
		t.Fatalf("found %d tables, want 2:\n%s", len(tables), md)
	}
	if sale := tables[0][1]; sale[1] != AK || sale[6] != "+$5.00" {
		t.Errorf("sale row = %q", sale)
	}
	perItem := tables[1]
	if total := perItem[len(perItem)-1]; total[0] != "Total" || total[1] != "+$5.00" {
		t.Errorf("total row = %q", total)
	}
}

func TestGainsMarkdown_UnpricedExcludedFromTotal(t *testing.T) {
	positions, err := skinfolio.Rebuild([]skinfolio.Transaction{
		skinfolio.NewBuy(date.New(2024, time.January, 1), "1", AK, 1, 10),
		skinfolio.NewBuy(date.New(2024, time.January, 1), "2", AWP, 1, 100),
	})
	if err != nil {
		t.Fatal(err)
	}
	v := skinfolio.Value(positions, map[string]skinfolio.Money{AK: skinfolio.M(12)})

	md := GainsMarkdown(nil, v)
	tables, _ := parseTables(t, md)
	if len(tables) != 1 {
		t.Fatalf("found %d tables, want 1:\n%s", len(tables), md)
	}
	perItem := tables[0]
	if ak := perItem[1]; ak[0] != AK || ak[2] != "+$2.00" {
		t.Errorf("priced row = %q", ak)
	}
	if awp := perItem[2]; awp[0] != AWP || awp[2] != "N/A" {
		t.Errorf("unpriced row = %q", awp)
	}
	if total := perItem[len(perItem)-1]; total[0] != "Total" || total[2] != "+$2.00" {
		t.Errorf("total row = %q, want the unrealized total of the priced items", total)
	}
	if !strings.Contains(md, "Unrealized total excludes unpriced items: "+AWP+".") {
		t.Errorf("unpriced items not listed:\n%s", md)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	points := []skinfolio.Point{
		{Date: date.New(2024, time.March, 1), Value: skinfolio.M(20)},
		{Date: date.New(2024, time.March, 2), Value: skinfolio.M(24)},
	}
	tables, _ := parseTables(t, HistoryMarkdown("main", points))
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("tables = %q", tables)
	}
	if row := tables[0][2]; row[0] != "2024-03-02" || row[1] != "$24.00" || row[2] != "+$4.00" {
		t.Errorf("row = %q", row)
	}
	if md := HistoryMarkdown("", nil); !strings.Contains(md, "No price observed yet.") {
		t.Errorf("empty history:\n%s", md)
	}

	tables, headings := parseTables(t, ItemHistoryMarkdown(AK, []skinfolio.PricePoint{{Date: date.New(2024, time.March, 1), Price: skinfolio.M(4)}}))
	if len(tables) != 1 || tables[0][1][1] != "$4.00" || headings[0] != "Price History of "+AK {
		t.Errorf("item history = %q %q", headings, tables)
	}
}

func TestTransactionsMarkdown(t *testing.T) {
	tx := skinfolio.NewBuy(date.New(2024, time.January, 1), "abc", AK, 10, 2)
	tx.Note = "from | trade"
	tables, _ := parseTables(t, TransactionsMarkdown([]skinfolio.Transaction{tx}))
	if len(tables) != 1 || len(tables[0]) != 2 {
		t.Fatalf("tables = %q", tables)
	}
	want := []string{"2024-01-01", "BUY", AK, "10", "$2.00", "$20.00", "from | trade", "abc"}
	row := tables[0][1]
	if strings.Join(row, ";") != strings.Join(want, ";") {
		t.Errorf("row = %q, want %q", row, want)
	}
	if got := Transaction(tx); got != "Bought 10 of "+AK+" for $20.00" {
		t.Errorf("Transaction() = %q", got)
	}
}

func TestCashMarkdown(t *testing.T) {
	c := skinfolio.CashBalance{Deposits: skinfolio.M(100), Withdrawals: skinfolio.M(30), Bought: skinfolio.M(20), Sold: skinfolio.M(20)}
	movements := []skinfolio.FinanceMovement{{ID: "m1", Date: date.New(2024, time.January, 1), Kind: skinfolio.Deposit, Amount: skinfolio.M(100)}}
	tables, _ := parseTables(t, CashMarkdown(c, movements))
	if len(tables) != 2 {
		t.Fatalf("found %d tables, want 2", len(tables))
	}
	if balance := tables[0][len(tables[0])-1]; balance[1] != "$70.00" {
		t.Errorf("balance row = %q", balance)
	}
	if m := tables[1][1]; m[1] != "Deposited $100.00" {
		t.Errorf("movement row = %q", m)
	}
}

func TestFetchMarkdown(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	md := FetchMarkdown(skinfolio.FetchReport{
		Timestamp:    ts,
		Observations: []skinfolio.PriceObservation{{Timestamp: ts, Item: AK, Price: skinfolio.M(4.5)}},
		Skipped:      []string{AWP},
		Failed:       map[string]error{"Recoil Case": skinfolio.ErrOracleUnavailable},
	})
	tables, headings := parseTables(t, md)
	if headings[0] != "Prices at 2024-03-01T12:00:00Z" || len(tables) != 1 || tables[0][1][1] != "$4.50" {
		t.Errorf("fetch report = %q %q", headings, tables)
	}
	if !strings.Contains(md, "No listing: "+AWP) || !strings.Contains(md, "Recoil Case") {
		t.Errorf("skipped and failed items missing:\n%s", md)
	}
}

func TestWarningsMarkdown(t *testing.T) {
	if got := WarningsMarkdown(nil); got != "" {
		t.Errorf("WarningsMarkdown(nil) = %q, want empty", got)
	}
	md := WarningsMarkdown([]error{&skinfolio.RowError{Line: 3, Err: errors.New("bad qty")}})
	if !strings.Contains(md, "1 row(s) skipped") || !strings.Contains(md, "line 3: bad qty") {
		t.Errorf("WarningsMarkdown() = %q", md)
	}
}

package skinfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// columns indexes the header row of a CSV file.
type columns map[string]int

// readHeader reads the header row and checks that every required column is present.
// An empty input has no header and no rows: it returns a nil index and io.EOF.
func readHeader(r *csv.Reader, required ...string) (columns, error) {
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	cols := make(columns, len(header))
	for i, name := range header {
		// the first cell may carry a BOM when the file was edited in a spreadsheet.
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, inputErrorf("missing required column(s) %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// get returns the trimmed cell of the named column, or "" when the row is too short or the column unknown.
func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// has reports whether the header has the named column.
func (c columns) has(name string) bool {
	_, ok := c[name]
	return ok
}

// newReader returns a csv reader tolerant to ragged rows, they are checked row by row.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// decodeRows calls decode on every data row of a CSV file with a header.
//
// A row that decode rejects is reported in 'rejected' and skipped; only an
// unreadable file or a missing required column is a fatal error.
func decodeRows(r io.Reader, required []string, decode func(line int, cols columns, row []string) error) (rejected []error, err error) {
	cr := newReader(r)
	cols, err := readHeader(cr, required...)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rejected, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rejected = append(rejected, &RowError{Line: perr.Line, Err: fmt.Errorf("%w: %v", ErrInput, perr.Err)})
				continue
			}
			return rejected, err
		}
		if isBlank(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if err := decode(line, cols, row); err != nil {
			rejected = append(rejected, &RowError{Line: line, Err: err})
		}
	}
}

func isBlank(row []string) bool {
	return !slices.ContainsFunc(row, func(cell string) bool { return strings.TrimSpace(cell) != "" })
}

// encodeRows writes a header and rows to w.
func encodeRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// appendRows returns content with rows appended. The existing content is kept
// as is, the header is written only when content is empty.
func appendRows(content string, header []string, rows [][]string) (string, error) {
	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	if content != "" {
		header = nil
	}
	if err := encodeRows(&b, header, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

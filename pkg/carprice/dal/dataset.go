package dal

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Dataset is a CSV file loaded into typed cells. Each column is inferred as
// a whole: int64 when every non-empty cell is an integer, float64 when every
// non-empty cell is a number, string otherwise. Empty cells are nil.
type Dataset struct {
	Columns []string
	Rows    [][]interface{}
	index   map[string]int
}

// LoadCSV reads a CSV file with a header row.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV data with a header row.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	ds := &Dataset{
		Columns: header,
		Rows:    make([][]interface{}, len(records)),
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		ds.index[name] = i
	}

	kinds := make([]cellKind, len(header))
	for c := range header {
		kinds[c] = inferColumn(records, c)
	}
	for r, rec := range records {
		row := make([]interface{}, len(header))
		for c := range header {
			row[c] = convertCell(rec[c], kinds[c])
		}
		ds.Rows[r] = row
	}
	return ds, nil
}

type cellKind int

const (
	kindInt cellKind = iota
	kindFloat
	kindString
)

func inferColumn(records [][]string, c int) cellKind {
	kind := kindInt
	for _, rec := range records {
		s := rec[c]
		if s == "" {
			continue
		}
		if kind == kindInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			kind = kindFloat
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return kindString
		}
	}
	return kind
}

func convertCell(s string, kind cellKind) interface{} {
	if s == "" {
		return nil
	}
	switch kind {
	case kindInt:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	return s
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset has the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Value returns the cell at row r in the named column.
func (d *Dataset) Value(r int, column string) (interface{}, bool) {
	c, ok := d.index[column]
	if !ok || r < 0 || r >= len(d.Rows) {
		return nil, false
	}
	return d.Rows[r][c], true
}

// Record returns row r as a column → value map.
func (d *Dataset) Record(r int) map[string]interface{} {
	rec := make(map[string]interface{}, len(d.Columns))
	for c, name := range d.Columns {
		rec[name] = d.Rows[r][c]
	}
	return rec
}

// Unique returns the distinct non-empty text values of a column in
// first-seen order.
func (d *Dataset) Unique(column string) []string {
	return d.UniqueWhere(column, "", "")
}

// UniqueWhere is Unique restricted to rows whose filterColumn equals
// filterValue. An empty filterColumn selects every row.
func (d *Dataset) UniqueWhere(column, filterColumn, filterValue string) []string {
	c, ok := d.index[column]
	if !ok {
		return nil
	}
	fc := -1
	if filterColumn != "" {
		if fc, ok = d.index[filterColumn]; !ok {
			return nil
		}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, row := range d.Rows {
		if fc >= 0 && cellText(row[fc]) != filterValue {
			continue
		}
		v := row[c]
		if v == nil {
			continue
		}
		s := cellText(v)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// IntRange returns the minimum and maximum of a numeric column.
func (d *Dataset) IntRange(column string) (lo, hi int, ok bool) {
	c, found := d.index[column]
	if !found {
		return 0, 0, false
	}
	for _, row := range d.Rows {
		f, isNum := cellFloat(row[c])
		if !isNum || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		n := int(f)
		if !ok || n < lo {
			lo = n
		}
		if !ok || n > hi {
			hi = n
		}
		ok = true
	}
	return lo, hi, ok
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func cellFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

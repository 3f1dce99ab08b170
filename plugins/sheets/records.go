package sheets

import (
	"math"
	"strconv"
	"strings"

	"github.com/va6996/agenttools/tools"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one spreadsheet row keyed by the header row. Keys keep the
// column order of the sheet, so JSON output mirrors the spreadsheet layout.
type Record struct {
	*orderedmap.OrderedMap[string, any]
}

// NewRecord zips header with values. Missing trailing cells become "" and
// cells beyond the header are dropped.
func NewRecord(header []string, values []any) Record {
	om := orderedmap.New[string, any]()
	for i, key := range header {
		var v any = ""
		if i < len(values) {
			v = values[i]
		}
		om.Set(key, v)
	}
	return Record{om}
}

// Value returns the cell under key.
func (r Record) Value(key string) (any, bool) {
	if r.OrderedMap == nil {
		return nil, false
	}
	return r.Get(key)
}

// Text returns the cell under key rendered as a string, or def when the
// column is absent.
func (r Record) Text(key, def string) string {
	v, ok := r.Value(key)
	if !ok {
		return def
	}
	return tools.Stringify(v)
}

// recordsFromValues turns a values grid (header row first) into records.
// Cells are numericised so integer ids compare the same whether the sheet
// stores them as numbers or as text.
func recordsFromValues(values [][]any) []Record {
	if len(values) == 0 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = tools.Stringify(cell)
	}

	records := make([]Record, 0, len(values)-1)
	for _, row := range values[1:] {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = numericise(cell)
		}
		records = append(records, NewRecord(header, cells))
	}
	return records
}

func numericise(v any) any {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
		return val
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return val
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
		return val
	default:
		return v
	}
}

package silverpop

import (
	"sort"

	"github.com/natserract/silverpop/pkg/codec"
)

// Column is one custom field on a recipient record.
type Column struct {
	Name  string
	Value string
}

// ToColumns converts data into columns ordered by name.
func ToColumns(data map[string]string) []Column {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, Column{Name: name, Value: data[name]})
	}
	return columns
}

func columnFields(columns []Column) []codec.Fields {
	out := make([]codec.Fields, 0, len(columns))
	for _, c := range columns {
		out = append(out, codec.Fields{
			{Name: keyName, Value: c.Name},
			{Name: keyValue, Value: c.Value},
		})
	}
	return out
}

// FromColumns returns a copy of result whose COLUMNS.COLUMN entries are
// replaced by a map[string]string keyed by column name. A single COLUMN is
// handled like a one-element list and duplicate names keep the last value.
// result is returned unchanged when it carries no columns.
func FromColumns(result map[string]any) map[string]any {
	raw, ok := codec.Lookup(result, keyColumns, keyColumn)
	if !ok {
		return result
	}
	entries := codec.List(raw)
	if len(entries) == 0 || raw == "" {
		return result
	}

	columns := make(map[string]string, len(entries))
	for _, entry := range entries {
		column, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := column[keyName].(string)
		value, _ := column[keyValue].(string)
		columns[name] = value
	}

	out := make(map[string]any, len(result))
	for k, v := range result {
		out[k] = v
	}
	out[keyColumns] = columns
	return out
}

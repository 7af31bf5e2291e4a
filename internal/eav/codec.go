package eav

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"restoflow/internal/domain"
)

// Pivot groups rows by instance id. When an instance carries the same
// attribute more than once the byte-wise greatest value wins, matching
// MAX(value) over a text column with C collation.
func Pivot(rows []Row) map[int64]Record {
	out := make(map[int64]Record)
	for _, row := range rows {
		rec, ok := out[row.InstanceID]
		if !ok {
			rec = make(Record)
			out[row.InstanceID] = rec
		}
		if cur, seen := rec[row.Attribute]; !seen || row.Value > cur {
			rec[row.Attribute] = row.Value
		}
	}
	return out
}

// Resolve returns the physical row Pivot would read for attr.
// Among equal values the newest row is chosen.
func Resolve(rows []Row, attr string) (Row, bool) {
	var (
		best  Row
		found bool
	)
	for _, row := range rows {
		if row.Attribute != attr {
			continue
		}
		if !found || row.Value > best.Value || (row.Value == best.Value && row.ID > best.ID) {
			best = row
			found = true
		}
	}
	return best, found
}

// Entities pivots rows of one type into entities ordered by instance id.
func Entities(entityType string, rows []Row) []Entity {
	grouped := Pivot(rows)
	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sortIDs(ids)

	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, Entity{Type: entityType, ID: id, Attrs: grouped[id]})
	}
	return out
}

// ToRows flattens fields into rows, keeping field order.
func ToRows(entityType string, id int64, fields []Field) []Row {
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, Row{
			EntityType: entityType,
			Attribute:  f.Name,
			InstanceID: id,
			Value:      f.Value,
		})
	}
	return rows
}

// Intersect returns the ids present in every input, sorted.
func Intersect(sets ...[]int64) []int64 {
	if len(sets) == 0 {
		return nil
	}
	counts := make(map[int64]int)
	for _, set := range sets {
		seen := make(map[int64]bool, len(set))
		for _, id := range set {
			if !seen[id] {
				seen[id] = true
				counts[id]++
			}
		}
	}
	out := make([]int64, 0)
	for id, n := range counts {
		if n == len(sets) {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}

func FormatTime(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatValue renders a decoded JSON scalar as stored text.
func FormatValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return FormatBool(val), nil
	case float64:
		return FormatFloat(val), nil
	case float32:
		return FormatFloat(float64(val)), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return FormatInt(val), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", fmt.Errorf("%w: unsupported value of type %T", domain.ErrValidation, v)
	}
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

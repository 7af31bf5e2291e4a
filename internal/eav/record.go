package eav

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"restoflow/internal/domain"
)

// TimestampLayout is used for every created_at/updated_at value the services write.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Record maps attribute names to their stored text.
type Record map[string]string

func (r Record) Has(attr string) bool {
	_, ok := r[attr]
	return ok
}

func (r Record) String(attr string) string {
	return r[attr]
}

// Int returns 0 for a missing or empty attribute.
func (r Record) Int(attr string) (int64, error) {
	raw := strings.TrimSpace(r[attr])
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, invalidAttr(attr, raw, "integer")
	}
	return int64(f), nil
}

func (r Record) Float(attr string) (float64, error) {
	raw := strings.TrimSpace(r[attr])
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidAttr(attr, raw, "number")
	}
	return f, nil
}

func (r Record) Bool(attr string) (bool, error) {
	raw := strings.TrimSpace(r[attr])
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidAttr(attr, raw, "boolean")
	}
	return b, nil
}

// Time returns the zero time for a missing attribute.
func (r Record) Time(attr string) (time.Time, error) {
	raw := strings.TrimSpace(r[attr])
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := ParseTime(raw)
	if err != nil {
		return time.Time{}, invalidAttr(attr, raw, "datetime")
	}
	return t, nil
}

// ParseTime accepts ISO-8601 datetimes with or without seconds, fraction and zone.
// Datetimes are restaurant wall-clock times: a zone offset, when present, is
// dropped and the wall time is returned in UTC, so "19:00+05:00" and "19:00"
// name the same slot.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid datetime %q", domain.ErrValidation, raw)
}

func invalidAttr(attr, raw, kind string) error {
	return fmt.Errorf("%w: attribute %q holds %q, expected %s", domain.ErrValidation, attr, raw, kind)
}

package domain

import (
	"time"
)

// Record is a loosely typed row returned by a RecordSource. Field presence
// is not guaranteed across records of the same entity, so all access goes
// through the accessors below; none of them panic on a missing field.
// Values are scalars: float64, string, time.Time, bool, or nil.
type Record map[string]any

func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Number returns the field as a float64. Integer values are widened;
// anything non-numeric (or missing) reports false.
func (r Record) Number(field string) (float64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return AsNumber(v)
}

func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Time returns the field as a time.Time, accepting time values directly
// and date strings in either RFC 3339 or plain 2006-01-02 form.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// AsNumber widens any numeric scalar to float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// SortSpec selects at most one field to order by.
type SortSpec struct {
	Field string
	Desc  bool
}

// FilterSpec maps field names to required exact values; a record matches
// iff every entry matches.
type FilterSpec map[string]any

// Page bounds a record slice. A nil Limit means no truncation.
type Page struct {
	Offset int
	Limit  *int
}

// DateRange is a reporting window; both ends are interpreted inclusively
// by the SQL adapter.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (d DateRange) Days() int {
	return int(d.To.Sub(d.From).Hours() / 24)
}

// Package transform provides generic, entity-agnostic operations over
// record collections: stable sort, exact-match filtering, grouping,
// summing and pagination. Every metric deriver is composed from these.
// None of the operations fail; malformed records degrade to defaults.
package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finboard/finboard/pkg/models/domain"
)

// Sort returns a stably sorted copy of records. Numeric fields compare
// numerically; everything else compares by its string form, byte-wise.
// Records missing the sort field are equal to each other and keep their
// original relative order.
func Sort(records []domain.Record, spec domain.SortSpec) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	if spec.Field == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compareField(out[i], out[j], spec.Field)
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Filter keeps records matching every entry of spec. An empty spec is the
// identity.
func Filter(records []domain.Record, spec domain.FilterSpec) []domain.Record {
	if len(spec) == 0 {
		return records
	}
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if matches(r, spec) {
			out = append(out, r)
		}
	}
	return out
}

// Group is one bucket of a GroupBy result. Records keep their input order.
type Group struct {
	Key     string
	Records []domain.Record
}

// GroupBy partitions records by the string form of a field. Groups appear
// in first-seen order; a missing field maps to the "<nil>" sentinel key.
func GroupBy(records []domain.Record, field string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		key := Key(r, field)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// SumField adds up the numeric values of a field. Records where the field
// is missing or non-numeric contribute 0.
func SumField(records []domain.Record, field string) float64 {
	var sum float64
	for _, r := range records {
		if n, ok := r.Number(field); ok {
			sum += n
		}
	}
	return sum
}

// Paginate slices records by page, clamped to bounds. An offset past the
// end yields an empty slice; a nil limit means no truncation.
func Paginate(records []domain.Record, page domain.Page) []domain.Record {
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []domain.Record{}
	}
	end := len(records)
	if page.Limit != nil {
		limit := *page.Limit
		if limit < 0 {
			limit = 0
		}
		if offset+limit < end {
			end = offset + limit
		}
	}
	return records[offset:end]
}

func matches(r domain.Record, spec domain.FilterSpec) bool {
	for field, want := range spec {
		got, ok := r.Get(field)
		if !ok {
			return false
		}
		if !scalarEqual(got, want) {
			return false
		}
	}
	return true
}

func scalarEqual(a, b any) bool {
	an, aNum := domain.AsNumber(a)
	bn, bNum := domain.AsNumber(b)
	if aNum && bNum {
		return an == bn
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareField(a, b domain.Record, field string) int {
	av, aok := a.Get(field)
	bv, bok := b.Get(field)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	an, aNum := domain.AsNumber(av)
	bn, bNum := domain.AsNumber(bv)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(av), fmt.Sprint(bv))
}

// Key is the grouping key for a record's field: the string form of the
// value, or the "<nil>" sentinel when the field is missing.
func Key(r domain.Record, field string) string {
	v, ok := r.Get(field)
	if !ok {
		return "<nil>"
	}
	return fmt.Sprint(v)
}

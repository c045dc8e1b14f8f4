package movie

import (
	"cmp"
	"slices"
	"strings"
)

// Comparator orders two records, returning a negative number when a sorts
// before b.
type Comparator func(a, b *Record) int

// SortField names a sortable field.
type SortField string

const (
	SortTitle    SortField = "title"
	SortYear     SortField = "year"
	SortCategory SortField = "category"
	SortDirector SortField = "director"
	SortDuration SortField = "duration"
)

// ByField returns the comparator for field, or false if field is unknown.
func ByField(field SortField, ascending bool) (Comparator, bool) {
	switch SortField(strings.ToLower(string(field))) {
	case SortTitle:
		return ByTitle(ascending), true
	case SortYear:
		return ByYear(ascending), true
	case SortCategory:
		return ByCategory(ascending), true
	case SortDirector:
		return ByDirector(ascending), true
	case SortDuration:
		return ByDuration(ascending), true
	}
	return nil, false
}

// ByTitle orders by title.
func ByTitle(ascending bool) Comparator {
	return func(a, b *Record) int {
		if ascending {
			return cmp.Compare(a.title, b.title)
		}
		return cmp.Compare(b.title, a.title)
	}
}

// ByYear orders by release year, then title ascending.
func ByYear(ascending bool) Comparator {
	return byField(func(r *Record) int { return r.Year }, ascending)
}

// ByCategory orders by category, then title ascending.
func ByCategory(ascending bool) Comparator {
	return byField(func(r *Record) string { return r.Category }, ascending)
}

// ByDirector orders by director, then title ascending.
func ByDirector(ascending bool) Comparator {
	return byField(func(r *Record) string { return r.Director }, ascending)
}

// ByDuration orders by duration, then title ascending.
func ByDuration(ascending bool) Comparator {
	return byField(func(r *Record) int { return r.Duration }, ascending)
}

// byField compares on field in the given direction; ties always fall back to
// title ascending.
func byField[T cmp.Ordered](field func(*Record) T, ascending bool) Comparator {
	return func(a, b *Record) int {
		c := cmp.Compare(field(a), field(b))
		if !ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.title, b.title)
	}
}

// Sort orders records in place.
func Sort(records []*Record, c Comparator) {
	slices.SortStableFunc(records, c)
}

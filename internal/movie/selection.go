package movie

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
)

func selectWhere(records []*Record, keep func(*Record) bool) []*Record {
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// SelectByTitle keeps records whose title is exactly value.
func SelectByTitle(records []*Record, value string) []*Record {
	return selectWhere(records, func(r *Record) bool { return r.title == value })
}

// SelectByTitleFuzzy keeps records whose title contains the characters of
// pattern in order, ignoring case and accents.
func SelectByTitleFuzzy(records []*Record, pattern string) []*Record {
	return selectWhere(records, func(r *Record) bool {
		return fuzzy.MatchNormalizedFold(pattern, r.title)
	})
}

// SelectByYear keeps records released in [year-delta, year+delta].
func SelectByYear(records []*Record, year, delta int) []*Record {
	return selectWhere(records, func(r *Record) bool {
		return year-delta <= r.Year && r.Year <= year+delta
	})
}

// SelectByCategory keeps records of the given category.
func SelectByCategory(records []*Record, value string) []*Record {
	return selectWhere(records, func(r *Record) bool { return r.Category == value })
}

// SelectByDirector keeps records by the given director.
func SelectByDirector(records []*Record, value string) []*Record {
	return selectWhere(records, func(r *Record) bool { return r.Director == value })
}

// SelectByDuration keeps records lasting [minutes-delta, minutes+delta].
func SelectByDuration(records []*Record, minutes, delta int) []*Record {
	return selectWhere(records, func(r *Record) bool {
		return minutes-delta <= r.Duration && r.Duration <= minutes+delta
	})
}

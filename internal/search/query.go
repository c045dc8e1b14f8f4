package search

import (
	"cmp"
	"math"
	"slices"

	"github.com/hbollon/go-edlib"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity for a query term with
// no exact match to be expanded to an indexed term.
const FuzzyThreshold = 0.9

// Hit is one ranked search result.
type Hit struct {
	Title string
	Score float64
}

// Search ranks the documents matching any query term, best first. Ties are
// ordered by title. limit <= 0 returns every hit.
func (i *Index) Search(query string, limit int) ([]Hit, error) {
	if i.closed {
		return nil, ErrClosed
	}

	n := float64(len(i.docs))
	scores := make(map[string]float64)
	seen := make(map[string]bool)
	for _, term := range Tokenize(query) {
		if seen[term] {
			continue
		}
		seen[term] = true

		if p, ok := i.postings[term]; ok {
			accumulate(scores, p, n, 1)
			continue
		}
		for indexed, p := range i.postings {
			sim := edlib.JaroWinklerSimilarity(term, indexed)
			if float64(sim) >= FuzzyThreshold {
				accumulate(scores, p, n, float64(sim))
			}
		}
	}

	hits := make([]Hit, 0, len(scores))
	for title, score := range scores {
		hits = append(hits, Hit{Title: title, Score: score})
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	i.logger.Debug("search", "query", query, "hits", len(hits))
	return hits, nil
}

// accumulate adds the tf-idf contribution of one posting list.
func accumulate(scores map[string]float64, postings map[string]float64, n, scale float64) {
	idf := math.Log(1 + n/float64(len(postings)))
	for title, tf := range postings {
		scores[title] += scale * tf * idf
	}
}

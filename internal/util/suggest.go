package util

import "sort"

// Suggest ranks candidates by Levenshtein distance to name, keeping only
// those within the distance bound the validator and evaluator share:
// 1 for names of length <=3, 2 otherwise. Returns at most 3, nearest
// first, ties broken by candidate order.
func Suggest(name string, candidates []string) []string {
	bound := 2
	if len([]rune(name)) <= 3 {
		bound = 1
	}

	type scored struct {
		name string
		dist int
		idx  int
	}
	var hits []scored
	for i, c := range candidates {
		if c == name {
			continue
		}
		d := LevenshteinDistance(name, c)
		if d <= bound {
			hits = append(hits, scored{c, d, i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].idx < hits[j].idx
	})

	if len(hits) > 3 {
		hits = hits[:3]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

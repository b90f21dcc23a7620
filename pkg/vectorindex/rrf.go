package vectorindex

import "sort"

// rrfK is the Reciprocal Rank Fusion rank-damping constant.
const rrfK = 60

// fused is one id's combined RRF score plus the payload captured from
// whichever source list returned it first.
type fused struct {
	id    string
	score float64
	point Point
}

// fuseRRF combines a dense-vector result list and a text-index result list
// by Reciprocal Rank Fusion: each id accumulates 1/(k+r) per list it
// appears in, where r is its 1-based rank within that list. On payload
// collision the dense list's point wins.
func fuseRRF(dense []SearchResult, text []Point) []fused {
	scores := make(map[string]float64)
	points := make(map[string]Point)
	order := make([]string, 0, len(dense)+len(text))

	for rank, r := range dense {
		id := r.Point.ID
		if _, ok := scores[id]; !ok {
			order = append(order, id)
			points[id] = r.Point
		}
		scores[id] += 1.0 / float64(rrfK+rank+1)
	}
	for rank, p := range text {
		id := p.ID
		if _, ok := scores[id]; !ok {
			order = append(order, id)
			points[id] = p
		}
		scores[id] += 1.0 / float64(rrfK+rank+1)
	}

	results := make([]fused, 0, len(order))
	for _, id := range order {
		results = append(results, fused{id: id, score: scores[id], point: points[id]})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	return results
}

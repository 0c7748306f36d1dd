// Package ranking implements competition ranking ("1-2-2-4"): tied scores
// share a rank and the next distinct score skips as many ranks as there were
// tied entries.
package ranking

import "sort"

// Score reads the ranking value from an item. ok=false means the value is
// absent; absent values are coerced to 0 rather than rejected.
type Score[T any] func(T) (int, bool)

// Ranked wraps an item with its competition rank (1-based).
type Ranked[T any] struct {
	Item T
	Rank int
}

// RankedWithChange additionally carries the signed rank movement against a
// previous snapshot: positive = moved up, negative = moved down, zero =
// unchanged or no history.
type RankedWithChange[T any] struct {
	Item   T
	Rank   int
	Change int
}

// Identity builds an identity resolver from ordered accessor fallbacks. The
// first accessor that yields a non-empty value wins; upstream data is not
// consistent about which field carries the user identity, so callers list
// every accepted spelling. An item no accessor resolves gets the empty
// identity and is excluded from rank-change matching.
func Identity[T any](accessors ...func(T) (string, bool)) func(T) string {
	return func(item T) string {
		for _, accessor := range accessors {
			if id, ok := accessor(item); ok && id != "" {
				return id
			}
		}
		return ""
	}
}

// Ranks sorts a copy of items descending by the resolved score and assigns
// competition ranks. The sort is stable, so equally-scored items keep their
// input order; callers wanting a deterministic tie order pre-sort by a
// secondary key. Empty input yields empty output.
func Ranks[T any](items []T, score Score[T]) []Ranked[T] {
	if len(items) == 0 {
		return []Ranked[T]{}
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return resolve(sorted[i], score) > resolve(sorted[j], score)
	})

	out := make([]Ranked[T], 0, len(sorted))
	rank := 1
	tied := 1
	previous := 0
	for idx, item := range sorted {
		value := resolve(item, score)
		if idx > 0 {
			if value == previous {
				tied++
			} else {
				rank += tied
				tied = 1
			}
		}
		previous = value
		out = append(out, Ranked[T]{Item: item, Rank: rank})
	}
	return out
}

// RanksWithChange annotates already-ranked items with their movement against
// a previous scoring snapshot. The previous ranks are computed by re-ranking
// the same set by the previous-score accessor; items are matched back by
// identity and Change = previousRank - currentRank.
//
// When no item has previous-score data they are all treated as previously
// tied at 0, i.e. all previously rank 1, so Change becomes 1-currentRank for
// everyone. That skew falls out of the missing-value-as-zero rule and is kept
// for compatibility with the historical leaderboards.
func RanksWithChange[T any](ranked []Ranked[T], previous Score[T], identity func(T) string) []RankedWithChange[T] {
	if len(ranked) == 0 {
		return []RankedWithChange[T]{}
	}

	items := make([]T, 0, len(ranked))
	for _, row := range ranked {
		items = append(items, row.Item)
	}

	previousRankByID := make(map[string]int, len(items))
	for _, row := range Ranks(items, previous) {
		id := identity(row.Item)
		if id == "" {
			continue
		}
		if _, exists := previousRankByID[id]; exists {
			continue
		}
		previousRankByID[id] = row.Rank
	}

	out := make([]RankedWithChange[T], 0, len(ranked))
	for _, row := range ranked {
		change := 0
		if previousRank, ok := previousRankByID[identity(row.Item)]; ok {
			change = previousRank - row.Rank
		}
		out = append(out, RankedWithChange[T]{Item: row.Item, Rank: row.Rank, Change: change})
	}
	return out
}

func resolve[T any](item T, score Score[T]) int {
	value, ok := score(item)
	if !ok {
		return 0
	}
	return value
}

// Package tally computes the figures shown next to vote counts.
package tally

// Total sums vote counts.
func Total(counts ...int64) int64 {
	var total int64
	for _, c := range counts {
		total += c
	}

	return total
}

// Share returns the percentage of total that count represents. An empty tally has no
// meaningful share, so it is reported as 0 rather than NaN.
func Share(count int64, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return float64(count) * 100 / float64(total)
}

// Leading returns the indexes of the highest counts. Nobody leads until a vote has been cast,
// and ties all lead.
func Leading(counts ...int64) []int {
	var best int64
	leaders := []int{}
	for i, c := range counts {
		switch {
		case c <= 0 || c < best:
		case c > best:
			best = c
			leaders = append(leaders[:0], i)
		default:
			leaders = append(leaders, i)
		}
	}

	return leaders
}

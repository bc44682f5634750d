package align

// damerauLevenshtein computes the optimal string alignment distance
// between a and b over runes: substitutions, insertions, deletions, and
// transpositions of adjacent runes each cost one edit.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			best := d[i-1][j] + 1 // deletion
			if v := d[i][j-1] + 1; v < best {
				best = v // insertion
			}
			if v := d[i-1][j-1] + cost; v < best {
				best = v // substitution (or match)
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := d[i-2][j-2] + 1; v < best {
					best = v // adjacent transposition
				}
			}
			d[i][j] = best
		}
	}
	return d[m][n]
}

// levLE1 reports whether a and b are within one Damerau-Levenshtein edit
// of each other: lev_le_1("can't", "cant") and lev_le_1("the", "then")
// are both true, lev_le_1("abc", "xyz") is false.
func levLE1(a, b string) bool {
	return damerauLevenshtein(a, b) <= 1
}

package catalog

// Ratio computes a similarity score in [0,1] between two strings as
// 2*M/(len(a)+len(b)), where M is the total size of the longest matching
// blocks found by recursive longest-common-substring decomposition. This is
// the classic gestalt pattern matching ratio, which rewards shared
// contiguous fragments rather than pure edit distance.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 0
	}

	m := matchTotal(ar, br, 0, len(ar), 0, len(br))
	return 2 * float64(m) / float64(total)
}

// matchTotal sums matching block sizes within a[alo:ahi] / b[blo:bhi]:
// find the longest common block, then recurse on the pieces to its left
// and right.
func matchTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return k +
		matchTotal(a, b, alo, i, blo, j) +
		matchTotal(a, b, i+k, ahi, j+k, bhi)
}

// longestMatch finds the longest block of runes common to a[alo:ahi] and
// b[blo:bhi]. Of all maximal blocks it returns the one starting earliest
// in a, then earliest in b, so results are deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

package matcher

import "strings"

// Similarity returns the longest-matching-blocks ratio of a and b, compared case-insensitively.
//
// The longest common run of characters is found first (earliest in a, then earliest in b on ties),
// then the unmatched text on either side of it is searched the same way until nothing is left.
// The score is 2*M / (len(a)+len(b)), where M is the total matched length and lengths count runes.
// Two empty strings are identical and score 1.
//
// Tie-breaking makes the ratio order-sensitive for some inputs, so callers pass the channel name first.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	return 2.0 * float64(matchedLength(ra, rb)) / float64(total)
}

type span struct {
	alo, ahi, blo, bhi int
}

// matchedLength sums the sizes of all matching blocks between a and b.
func matchedLength(a, b []rune) int {
	index := make(map[rune][]int, len(b))
	for j, r := range b {
		index[r] = append(index[r], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, index, s)
		if k == 0 {
			continue
		}
		matched += k

		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}

	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside s.
// index maps each rune of b to its ascending positions.
func longestMatch(a []rune, index map[rune][]int, s span) (besti, bestj, bestk int) {
	besti, bestj = s.alo, s.blo

	// runLen[j] is the length of the match ending at a[i-1], b[j]
	runLen := map[int]int{}
	for i := s.alo; i < s.ahi; i++ {
		next := map[int]int{}
		for _, j := range index[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := runLen[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		runLen = next
	}

	return besti, bestj, bestk
}

package knowledge

// Ratio computes a lexical similarity score in [0, 1] between two strings:
// twice the number of characters in common matching blocks divided by the
// total length. Equivalent to Python difflib's SequenceMatcher ratio, which
// the question-matching behavior is calibrated against. Purely lexical; it
// does not understand meaning.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingChars(ra, rb)) / float64(total)
}

// matchingChars sums the lengths of the matching blocks found by repeatedly
// taking the longest common contiguous run and recursing on both sides of it.
func matchingChars(a, b []rune) int {
	ai, bi, n := longestCommonRun(a, b)
	if n == 0 {
		return 0
	}
	return n +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+n:], b[bi+n:])
}

// longestCommonRun finds the longest contiguous run shared by a and b,
// returning its start offsets and length. Earliest-in-a wins ties, which keeps
// the blocks stable for identical inputs.
func longestCommonRun(a, b []rune) (ai, bi, n int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// runs[j] = length of the common run ending at a[i-1], b[j-1]
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > n {
					n = cur[j]
					ai = i - n
					bi = j - n
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, n
}

package services

// ResolveResult picks the most frequent answer in [1, options]. Ties go to the
// highest option number. Values outside the range are not counted.
func ResolveResult(answers []int, options int) int {
	if options < 1 {
		return 0
	}

	counts := make([]int, options)
	for _, a := range answers {
		if a >= 1 && a <= options {
			counts[a-1]++
		}
	}

	best := 0
	for i := range counts {
		if counts[i] >= counts[best] {
			best = i
		}
	}
	return best + 1
}

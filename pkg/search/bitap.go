package search

import "math"

// maxBits is the longest pattern one bitmask can hold.
const maxBits = 32

type bitapOptions struct {
	Location           int
	Distance           int
	Threshold          float64
	MinMatchCharLength int
	IgnoreLocation     bool
}

type bitapResult struct {
	IsMatch bool
	Score   float64 // 0 is a perfect match, 1 a total mismatch
}

// bitapScore combines edit errors with distance from the expected location.
func bitapScore(patternLen, errors, currentLocation, expectedLocation int, opts bitapOptions) float64 {
	accuracy := float64(errors) / float64(patternLen)
	if opts.IgnoreLocation {
		return accuracy
	}
	proximity := expectedLocation - currentLocation
	if proximity < 0 {
		proximity = -proximity
	}
	if opts.Distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(opts.Distance)
}

func patternAlphabet(pattern []rune) map[rune]uint64 {
	mask := make(map[rune]uint64, len(pattern))
	n := len(pattern)
	for i, r := range pattern {
		mask[r] |= 1 << uint(n-i-1)
	}
	return mask
}

func at(arr []uint64, i int) uint64 {
	if i < 0 || i >= len(arr) {
		return 0
	}
	return arr[i]
}

func indexRunes(text, pattern []rune, from int) int {
	if from < 0 {
		from = 0
	}
outer:
	for i := from; i+len(pattern) <= len(text); i++ {
		for j, r := range pattern {
			if text[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

// bitapSearch finds pattern in text allowing errors, preferring matches
// near opts.Location. pattern must be at most maxBits runes.
func bitapSearch(text, pattern []rune, alphabet map[rune]uint64, opts bitapOptions) bitapResult {
	patternLen := len(pattern)
	textLen := len(text)
	expectedLocation := opts.Location
	if expectedLocation > textLen {
		expectedLocation = textLen
	}
	if expectedLocation < 0 {
		expectedLocation = 0
	}
	currentThreshold := opts.Threshold
	bestLocation := expectedLocation
	matchMask := make([]bool, textLen)

	// Exact occurrences tighten the threshold before the fuzzy pass.
	for {
		index := indexRunes(text, pattern, bestLocation)
		if index < 0 {
			break
		}
		score := bitapScore(patternLen, 0, index, expectedLocation, opts)
		currentThreshold = math.Min(score, currentThreshold)
		bestLocation = index + patternLen
		for i := 0; i < patternLen; i++ {
			matchMask[index+i] = true
		}
	}

	bestLocation = -1
	var lastBitArr []uint64
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint64(1) << uint(patternLen-1)

	for i := 0; i < patternLen; i++ {
		// Binary search for how far from the expected location a match
		// with i errors may still be accepted.
		binMin := 0
		binMid := binMax
		for binMin < binMid {
			score := bitapScore(patternLen, i, expectedLocation+binMid, expectedLocation, opts)
			if score <= currentThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := expectedLocation - binMid + 1
		if start < 1 {
			start = 1
		}
		finish := expectedLocation + binMid
		if finish > textLen {
			finish = textLen
		}
		finish += patternLen

		bitArr := make([]uint64, finish+2)
		bitArr[finish+1] = (uint64(1) << uint(i)) - 1

		for j := finish; j >= start; j-- {
			currentLocation := j - 1
			var charMatch uint64
			if currentLocation < textLen {
				charMatch = alphabet[text[currentLocation]]
				matchMask[currentLocation] = matchMask[currentLocation] || charMatch != 0
			}

			bitArr[j] = ((bitArr[j+1] << 1) | 1) & charMatch
			if i > 0 {
				bitArr[j] |= ((at(lastBitArr, j+1) | at(lastBitArr, j)) << 1) | 1 | at(lastBitArr, j+1)
			}

			if bitArr[j]&mask != 0 {
				finalScore = bitapScore(patternLen, i, currentLocation, expectedLocation, opts)
				if finalScore <= currentThreshold {
					currentThreshold = finalScore
					bestLocation = currentLocation
					if bestLocation <= expectedLocation {
						break
					}
					start = 2*expectedLocation - bestLocation
					if start < 1 {
						start = 1
					}
				}
			}
		}

		if bitapScore(patternLen, i+1, expectedLocation, expectedLocation, opts) > currentThreshold {
			break
		}
		lastBitArr = bitArr
	}

	res := bitapResult{
		IsMatch: bestLocation >= 0,
		Score:   math.Max(0.001, finalScore),
	}
	if res.IsMatch && !hasRun(matchMask, opts.MinMatchCharLength) {
		res.IsMatch = false
	}
	return res
}

// hasRun reports whether mask holds at least n consecutive matched runes.
func hasRun(mask []bool, n int) bool {
	if n < 1 {
		n = 1
	}
	run := 0
	for _, m := range mask {
		if !m {
			run = 0
			continue
		}
		run++
		if run >= n {
			return true
		}
	}
	return false
}

// Package progress computes per-chapter progress percentages.
package progress

const (
	// PassThreshold is the minimum mock test score that unlocks a chapter.
	PassThreshold = 60

	// solvedWeight is what opening a chapter contributes. It is 98, not 100,
	// so a chapter never reads 100% from opening alone.
	solvedWeight = 98

	maxScore = 100
)

// Compute maps a chapter's solved flag and latest test score to a 0-99 percentage.
// The mean of the two contributions is rounded half up.
func Compute(solved bool, testScore int) int {
	contribution := 0
	if solved {
		contribution = solvedWeight
	}
	sum := contribution + ClampScore(testScore)
	return (sum + 1) / 2
}

// ClampScore coerces a score into [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// Passed reports whether score meets the unlock threshold.
func Passed(score int) bool {
	return ClampScore(score) >= PassThreshold
}

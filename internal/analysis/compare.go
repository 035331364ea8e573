// Package analysis compares strengths profiles without touching the
// store. Similarity is the sum of absolute rank differences across the
// 34 themes: lower means more alike.
package analysis

import (
	"sort"

	"clifton/internal/profile"
)

// Comparison is one profile scored against the target.
type Comparison struct {
	Profile profile.Profile `json:"profile"`
	Score   int             `json:"similarity_score"`
}

// missingPenalty is charged per theme absent from the other profile.
const missingPenalty = profile.ThemeCount

// Compare scores each candidate against target and returns them sorted
// most-similar first. Candidates without a full 34-theme ranking are
// skipped rather than scored misleadingly.
func Compare(target profile.Profile, others []profile.Profile) []Comparison {
	targetRanks := make(map[string]int, len(target.Strengths))
	for i, theme := range target.Strengths {
		targetRanks[theme] = i + 1
	}

	comparisons := []Comparison{}
	for _, other := range others {
		if len(other.Strengths) < profile.ThemeCount {
			continue
		}

		otherRanks := make(map[string]int, len(other.Strengths))
		for i, theme := range other.Strengths {
			otherRanks[theme] = i + 1
		}

		distance := 0
		for theme, rank := range targetRanks {
			if otherRank, ok := otherRanks[theme]; ok {
				distance += abs(rank - otherRank)
			} else {
				distance += missingPenalty
			}
		}

		comparisons = append(comparisons, Comparison{Profile: other, Score: distance})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].Score < comparisons[j].Score
	})
	return comparisons
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

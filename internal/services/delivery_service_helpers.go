package services

import (
	"strconv"

	"github.com/internlink/assessment-service/internal/models"
)

// pickSubset draws count distinct indices from [0, total) using a
// shrinking-pool shuffle. The intn parameter is injected so tests can
// drive the draw deterministically.
func pickSubset(total, count int, intn func(int) int) []int {
	pool := make([]int, total)
	for i := range pool {
		pool[i] = i
	}

	picked := make([]int, count)
	for i := 0; i < count; i++ {
		j := intn(len(pool))
		picked[i] = pool[j]
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return picked
}

// scoreAnswers grades a sparse answer map keyed by original question index.
// Keys that do not parse as integers or point outside the bank are skipped.
func scoreAnswers(questions []models.Question, answers map[string]int) (score, totalAnswered int) {
	for key, selected := range answers {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(questions) {
			continue
		}
		totalAnswered++
		if questions[idx].CorrectAnswer == selected {
			score++
		}
	}
	return score, totalAnswered
}

// levelForScore maps a score ratio to a competency level. Ninety percent
// or better is Advanced, seventy percent or better Intermediate, anything
// below that Beginner.
func levelForScore(score, maxScore int) models.SkillLevel {
	if maxScore <= 0 {
		return models.LevelBeginner
	}
	ratio := float64(score) / float64(maxScore)
	switch {
	case ratio >= 0.9:
		return models.LevelAdvanced
	case ratio >= 0.7:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

// mergeSkillResult records a result on the profile. A retake of an already
// assessed skill replaces the existing entry in place so the list keeps at
// most one entry per skill; a first attempt appends.
func mergeSkillResult(existing []models.SkillAssessment, result models.SkillAssessment) []models.SkillAssessment {
	merged := make([]models.SkillAssessment, len(existing))
	copy(merged, existing)

	for i := range merged {
		if merged[i].Skill == result.Skill {
			merged[i] = result
			return merged
		}
	}
	return append(merged, result)
}

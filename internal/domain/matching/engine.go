package matching

import "skill-share/internal/domain/skill"

type Result struct {
	Score   int
	Matched []skill.Skill
	Missing []skill.Skill
}

// Score counts the required skills the user either knows or is learning.
func Score(userSkills, required skill.Set) int {
	score := 0
	for s := range required {
		if userSkills.Has(s) {
			score++
		}
	}
	return score
}

// Calculate scores a user's ledger against a project's requirements and
// reports which requirements were covered. Known and learning skills weigh
// the same.
func Calculate(known, learning, required skill.Set) Result {
	matched := make([]skill.Skill, 0, required.Len())
	missing := make([]skill.Skill, 0)

	for _, r := range required.Sorted() {
		if known.Has(r) || learning.Has(r) {
			matched = append(matched, r)
			continue
		}
		missing = append(missing, r)
	}

	return Result{
		Score:   len(matched),
		Matched: matched,
		Missing: missing,
	}
}

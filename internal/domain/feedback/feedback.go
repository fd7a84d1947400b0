package feedback

import "skill-share/internal/domain/skill"

// PromotionThreshold is the rating a member must strictly exceed for the
// skills they were learning on the project to count as learned.
const PromotionThreshold = 50

// Feedback is the rating a project owner gives a member at completion time,
// paired with the skills the project exercised.
type Feedback struct {
	TargetSkills skill.Set
	Rating       int
}

func New(target skill.Set, rating int) Feedback {
	return Feedback{TargetSkills: target.Clone(), Rating: rating}
}

func (f Feedback) Qualifies() bool {
	return f.Rating > PromotionThreshold
}

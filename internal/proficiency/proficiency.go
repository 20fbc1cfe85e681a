// Package proficiency maps numeric assessment scores to ordinal labels.
// Two independent ladders are used: a five-tier skill scale for contact
// center skills and the six-tier CEFR scale for languages.
package proficiency

// SkillLevel is a contact center skill proficiency tier.
type SkillLevel string

const (
	Novice       SkillLevel = "Novice"
	Basic        SkillLevel = "Basic"
	Intermediate SkillLevel = "Intermediate"
	Advanced     SkillLevel = "Advanced"
	Expert       SkillLevel = "Expert"
)

// CEFRLevel is a Common European Framework of Reference language tier.
type CEFRLevel string

const (
	A1 CEFRLevel = "A1"
	A2 CEFRLevel = "A2"
	B1 CEFRLevel = "B1"
	B2 CEFRLevel = "B2"
	C1 CEFRLevel = "C1"
	C2 CEFRLevel = "C2"
)

// ForSkill maps a 0-100 score to a skill tier. Boundaries are inclusive on
// the lower bound, so a score exactly at a threshold lands in the higher
// tier. Out-of-range input clamps to the nearest bound.
func ForSkill(score float64) SkillLevel {
	switch score = clamp(score); {
	case score >= 90:
		return Expert
	case score >= 75:
		return Advanced
	case score >= 60:
		return Intermediate
	case score >= 40:
		return Basic
	default:
		return Novice
	}
}

// ForLanguage maps a 0-100 score to a CEFR tier with the same boundary
// semantics as ForSkill.
func ForLanguage(score float64) CEFRLevel {
	switch score = clamp(score); {
	case score >= 95:
		return C2
	case score >= 80:
		return C1
	case score >= 65:
		return B2
	case score >= 50:
		return B1
	case score >= 35:
		return A2
	default:
		return A1
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

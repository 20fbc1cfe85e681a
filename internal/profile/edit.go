package profile

import "fmt"

// EditKind selects which profile list an Add or Remove targets. Modeled as
// an enum with exhaustive switching instead of branching on a type string.
type EditKind int

const (
	EditTechnical EditKind = iota
	EditProfessional
	EditSoft
	EditIndustry
	EditCompany
)

func (k EditKind) String() string {
	switch k {
	case EditTechnical:
		return "technical skill"
	case EditProfessional:
		return "professional skill"
	case EditSoft:
		return "soft skill"
	case EditIndustry:
		return "industry"
	case EditCompany:
		return "notable company"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

const defaultSkillLevel = 50

// Add appends value to the list selected by kind. Duplicates (exact match)
// are ignored. Skills get a neutral default level the user can adjust later.
func (p *Profile) Add(kind EditKind, value string) error {
	switch kind {
	case EditTechnical:
		p.Skills.Technical = addSkill(p.Skills.Technical, value)
	case EditProfessional:
		p.Skills.Professional = addSkill(p.Skills.Professional, value)
	case EditSoft:
		p.Skills.Soft = addSkill(p.Skills.Soft, value)
	case EditIndustry:
		p.ProfessionalSummary.Industries = addString(p.ProfessionalSummary.Industries, value)
	case EditCompany:
		p.ProfessionalSummary.NotableCompanies = addString(p.ProfessionalSummary.NotableCompanies, value)
	default:
		return fmt.Errorf("unknown edit kind: %v", kind)
	}
	return nil
}

// Remove deletes value from the list selected by kind. Removing a value
// that is not present is a no-op.
func (p *Profile) Remove(kind EditKind, value string) error {
	switch kind {
	case EditTechnical:
		p.Skills.Technical = removeSkill(p.Skills.Technical, value)
	case EditProfessional:
		p.Skills.Professional = removeSkill(p.Skills.Professional, value)
	case EditSoft:
		p.Skills.Soft = removeSkill(p.Skills.Soft, value)
	case EditIndustry:
		p.ProfessionalSummary.Industries = removeString(p.ProfessionalSummary.Industries, value)
	case EditCompany:
		p.ProfessionalSummary.NotableCompanies = removeString(p.ProfessionalSummary.NotableCompanies, value)
	default:
		return fmt.Errorf("unknown edit kind: %v", kind)
	}
	return nil
}

func addSkill(list []RatedSkill, value string) []RatedSkill {
	for _, s := range list {
		if s.Skill == value {
			return list
		}
	}
	return append(list, RatedSkill{Skill: value, Level: defaultSkillLevel})
}

func removeSkill(list []RatedSkill, value string) []RatedSkill {
	out := list[:0]
	for _, s := range list {
		if s.Skill != value {
			out = append(out, s)
		}
	}
	return out
}

func addString(list []string, value string) []string {
	for _, s := range list {
		if s == value {
			return list
		}
	}
	return append(list, value)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, s := range list {
		if s != value {
			out = append(out, s)
		}
	}
	return out
}

// Package profile holds the base professional profile assembled from a CV
// import and edited before the assessment session starts.
package profile

// Language is a language the candidate claims, with a CEFR proficiency
// either self-reported or produced by the language assessment.
type Language struct {
	Name        string `json:"language" mapstructure:"language"`
	Proficiency string `json:"proficiency,omitempty" mapstructure:"proficiency"`
}

// RatedSkill is a named skill with a 0-100 self-assessed level.
type RatedSkill struct {
	Skill string  `json:"skill" mapstructure:"skill"`
	Level float64 `json:"level" mapstructure:"level"`
}

// PersonalInfo is the contact block of the profile.
type PersonalInfo struct {
	Name      string     `json:"name" validate:"required"`
	Location  string     `json:"location" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone" validate:"required,phone"`
	Languages []Language `json:"languages" validate:"min=1"`
}

// ProfessionalSummary describes the candidate's career shape.
type ProfessionalSummary struct {
	CurrentRole       string   `json:"currentRole" validate:"required"`
	YearsOfExperience string   `json:"yearsOfExperience" validate:"required"`
	Industries        []string `json:"industries" validate:"min=1"`
	NotableCompanies  []string `json:"notableCompanies" validate:"min=1"`
}

// Skills groups the candidate's skills by kind.
type Skills struct {
	Technical    []RatedSkill `json:"technical"`
	Professional []RatedSkill `json:"professional"`
	Soft         []RatedSkill `json:"soft"`
}

// Experience is one position held.
type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

// Profile is the full base profile. ID is assigned by the remote store on
// creation and empty until then.
type Profile struct {
	ID                  string              `json:"id,omitempty"`
	PersonalInfo        PersonalInfo        `json:"personalInfo"`
	ProfessionalSummary ProfessionalSummary `json:"professionalSummary"`
	Skills              Skills              `json:"skills"`
	Experience          []Experience        `json:"experience"`
	Summary             string              `json:"summary,omitempty"`
}

// LanguageNames lists the languages to assess, in profile order.
func (p *Profile) LanguageNames() []string {
	names := make([]string, 0, len(p.PersonalInfo.Languages))
	for _, l := range p.PersonalInfo.Languages {
		names = append(names, l.Name)
	}
	return names
}

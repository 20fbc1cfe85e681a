// Package cvimport turns a CV file into a draft profile. Extraction is
// local; structuring runs as a staged sequence of oracle calls so each
// verdict stays small enough to validate. The draft still goes through
// profile validation and manual editing before a session can start.
package cvimport

import (
	"context"
	"fmt"
	"strings"

	"github.com/harx-ai/reps-assessor/internal/oracle"
	"github.com/harx-ai/reps-assessor/internal/profile"

	"go.uber.org/zap"
)

const basicInfoPrompt = `You are an expert CV analyzer. Extract the following basic information from the CV and return it in the exact JSON format shown below:
{
  "name": "string",
  "location": "string",
  "email": "string",
  "phone": "string",
  "currentRole": "string",
  "yearsOfExperience": "string"
}`

const basicInfoSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"location": {"type": "string"},
		"email": {"type": "string"},
		"phone": {"type": "string"},
		"currentRole": {"type": "string"},
		"yearsOfExperience": {"type": "string"}
	},
	"required": ["name"]
}`

const experiencePrompt = `Analyze the work experience section of this CV and return it in the exact JSON format shown below. Follow these rules strictly:

Date Formatting Rules:
1. All dates must be in ISO format (YYYY-MM-DD)
2. For current/ongoing positions:
   - endDate MUST be exactly the string "present" (lowercase)
   - Do not use any other variations like "Present", "now", "current", etc.
3. For completed positions:
   - endDate must be a valid date in YYYY-MM-DD format
   - If only month and year are provided, use the last day of that month
   - If only year is provided, use December 31st of that year
4. For startDate:
   - Must always be a valid date in YYYY-MM-DD format
   - If only month and year are provided, use the first day of that month
   - If only year is provided, use January 1st of that year

Return in this exact format:
{
  "roles": [{
    "title": "string",
    "company": "string",
    "startDate": "YYYY-MM-DD",
    "endDate": "YYYY-MM-DD" | "present",
    "responsibilities": ["string"],
    "achievements": ["string"]
  }],
  "industries": ["string"],
  "keyAreas": ["string"],
  "notableCompanies": ["string"]
}`

const experienceSchema = `{
	"type": "object",
	"properties": {
		"roles": {"type": "array", "items": {"type": "object"}},
		"industries": {"type": "array", "items": {"type": "string"}},
		"keyAreas": {"type": "array", "items": {"type": "string"}},
		"notableCompanies": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["roles"]
}`

const skillsPrompt = `Analyze the CV for skills and competencies, with special attention to language proficiency evaluation. For languages, you must intelligently map any proficiency description to the CEFR scale (A1-C2) based on the following comprehensive guidelines:

CEFR Level Assessment Guidelines:

A1 (Beginner/Basic)
- Can understand and use basic phrases
- Expressions suggesting A1: basic, elementary, débutant, notions, beginner

A2 (Elementary)
- Can communicate in simple, routine situations
- Expressions suggesting A2: pre-intermediate, basic working knowledge, connaissance basique

B1 (Intermediate)
- Can deal with most situations while traveling
- Expressions suggesting B1: intermediate, working knowledge, niveau moyen, conversational

B2 (Upper Intermediate)
- Can interact with degree of fluency with native speakers
- Expressions suggesting B2: upper intermediate, professional working, fluent, professional proficiency

C1 (Advanced)
- Can use language flexibly and effectively
- Expressions suggesting C1: advanced, highly fluent, excellent, native-like, full professional proficiency

C2 (Mastery)
- Can understand virtually everything heard or read
- Expressions suggesting C2: native, mother tongue, bilingual, langue maternelle

Analysis Instructions:
1. Look for both explicit statements and contextual clues about language use
2. Consider the professional context where the language is used
3. If the CV mentions work experience or education in a country, factor this into the assessment
4. Default to B1 only if there's significant uncertainty and no contextual clues

Return in this exact JSON format:
{
  "technical": [{"name": "string", "confidence": number, "context": "string"}],
  "professional": [{"name": "string", "confidence": number, "context": "string"}],
  "soft": [{"name": "string", "confidence": number, "context": "string"}],
  "languages": [{"language": "string", "proficiency": "string (MUST be one of: A1, A2, B1, B2, C1, C2)"}]
}`

const skillsSchema = `{
	"type": "object",
	"properties": {
		"technical": {"type": "array", "items": {"type": "object"}},
		"professional": {"type": "array", "items": {"type": "object"}},
		"soft": {"type": "array", "items": {"type": "object"}},
		"languages": {"type": "array", "items": {"type": "object"}}
	},
	"required": ["languages"]
}`

const summaryPrompt = `You are a professional CV writer. Create a compelling professional summary that follows the REPS framework:
- Role: Current position and career focus
- Experience: Years of experience and key industries
- Projects: Notable achievements and contributions
- Skills: Core technical and professional competencies

Keep the summary concise, impactful, and achievement-oriented.`

type basicInfo struct {
	Name              string `json:"name"`
	Location          string `json:"location"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	CurrentRole       string `json:"currentRole"`
	YearsOfExperience string `json:"yearsOfExperience"`
}

type experienceInfo struct {
	Roles []struct {
		Title            string   `json:"title"`
		Company          string   `json:"company"`
		StartDate        string   `json:"startDate"`
		EndDate          string   `json:"endDate"`
		Responsibilities []string `json:"responsibilities"`
		Achievements     []string `json:"achievements"`
	} `json:"roles"`
	Industries       []string `json:"industries"`
	KeyAreas         []string `json:"keyAreas"`
	NotableCompanies []string `json:"notableCompanies"`
}

type ratedEntry struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context"`
}

type skillsInfo struct {
	Technical    []ratedEntry `json:"technical"`
	Professional []ratedEntry `json:"professional"`
	Soft         []ratedEntry `json:"soft"`
	Languages    []struct {
		Language    string `json:"language"`
		Proficiency string `json:"proficiency"`
	} `json:"languages"`
}

// Importer runs the staged CV structuring.
type Importer struct {
	completer oracle.Completer
	logger    *zap.Logger
}

func NewImporter(completer oracle.Completer, log *zap.Logger) *Importer {
	return &Importer{completer: completer, logger: log}
}

// Import structures raw CV text into a draft profile, then generates the
// REPS summary from it.
func (im *Importer) Import(ctx context.Context, rawText string) (*profile.Profile, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("empty CV text")
	}

	basic, err := im.extractBasicInfo(ctx, rawText)
	if err != nil {
		return nil, err
	}
	im.logger.Info("basic information extracted", zap.String("name", basic.Name))

	experience, err := im.extractExperience(ctx, rawText)
	if err != nil {
		return nil, err
	}
	im.logger.Info("work experience analyzed", zap.Int("roles", len(experience.Roles)))

	skills, err := im.extractSkills(ctx, rawText)
	if err != nil {
		return nil, err
	}
	if len(skills.Languages) == 0 {
		return nil, fmt.Errorf("no languages found in the CV; list the languages you speak")
	}
	im.logger.Info("skills categorized",
		zap.Int("technical", len(skills.Technical)),
		zap.Int("languages", len(skills.Languages)),
	)

	p := assemble(basic, experience, skills)

	summary, err := im.generateSummary(ctx, p)
	if err != nil {
		return nil, err
	}
	p.Summary = summary

	return p, nil
}

func (im *Importer) extractBasicInfo(ctx context.Context, rawText string) (*basicInfo, error) {
	raw, err := im.completer.Complete(ctx, oracle.Request{
		System:       basicInfoPrompt,
		User:         rawText,
		Temperature:  0.3,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &oracle.GenerationError{Op: "basic info extraction", Cause: err}
	}
	var info basicInfo
	if err := oracle.DecodeJSON("basic info extraction", raw, basicInfoSchema, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (im *Importer) extractExperience(ctx context.Context, rawText string) (*experienceInfo, error) {
	raw, err := im.completer.Complete(ctx, oracle.Request{
		System:       experiencePrompt,
		User:         rawText,
		Temperature:  0.3,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &oracle.GenerationError{Op: "experience analysis", Cause: err}
	}
	var info experienceInfo
	if err := oracle.DecodeJSON("experience analysis", raw, experienceSchema, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (im *Importer) extractSkills(ctx context.Context, rawText string) (*skillsInfo, error) {
	raw, err := im.completer.Complete(ctx, oracle.Request{
		System:       skillsPrompt,
		User:         rawText,
		Temperature:  0.3,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &oracle.GenerationError{Op: "skills extraction", Cause: err}
	}
	var info skillsInfo
	if err := oracle.DecodeJSON("skills extraction", raw, skillsSchema, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (im *Importer) generateSummary(ctx context.Context, p *profile.Profile) (string, error) {
	raw, err := im.completer.Complete(ctx, oracle.Request{
		System:      summaryPrompt,
		User:        fmt.Sprintf("Create a professional REPS summary based on this profile data: %s", describe(p)),
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", &oracle.GenerationError{Op: "summary generation", Cause: err}
	}
	return strings.TrimSpace(raw), nil
}

func describe(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s; Role: %s; Experience: %s; Industries: %s; Companies: %s",
		p.PersonalInfo.Name,
		p.ProfessionalSummary.CurrentRole,
		p.ProfessionalSummary.YearsOfExperience,
		strings.Join(p.ProfessionalSummary.Industries, ", "),
		strings.Join(p.ProfessionalSummary.NotableCompanies, ", "),
	)
	return b.String()
}

func assemble(basic *basicInfo, exp *experienceInfo, skills *skillsInfo) *profile.Profile {
	p := &profile.Profile{
		PersonalInfo: profile.PersonalInfo{
			Name:     basic.Name,
			Location: basic.Location,
			Email:    basic.Email,
			Phone:    basic.Phone,
		},
		ProfessionalSummary: profile.ProfessionalSummary{
			CurrentRole:       basic.CurrentRole,
			YearsOfExperience: basic.YearsOfExperience,
			Industries:        exp.Industries,
			NotableCompanies:  exp.NotableCompanies,
		},
		Skills: profile.Skills{
			Technical:    rate(skills.Technical),
			Professional: rate(skills.Professional),
			Soft:         rate(skills.Soft),
		},
	}

	for _, l := range skills.Languages {
		p.PersonalInfo.Languages = append(p.PersonalInfo.Languages, profile.Language{
			Name:        l.Language,
			Proficiency: l.Proficiency,
		})
	}

	for _, r := range exp.Roles {
		duration := r.StartDate
		if r.EndDate != "" {
			duration = r.StartDate + " - " + r.EndDate
		}
		p.Experience = append(p.Experience, profile.Experience{
			Title:            r.Title,
			Company:          r.Company,
			Duration:         duration,
			Responsibilities: r.Responsibilities,
			Achievements:     r.Achievements,
		})
	}

	return p
}

func rate(entries []ratedEntry) []profile.RatedSkill {
	out := make([]profile.RatedSkill, 0, len(entries))
	for _, e := range entries {
		level := e.Confidence
		if level <= 1 {
			level *= 100
		}
		if level > 100 {
			level = 100
		}
		out = append(out, profile.RatedSkill{Skill: e.Name, Level: level})
	}
	return out
}

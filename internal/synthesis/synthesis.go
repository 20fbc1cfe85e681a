// Package synthesis turns the complete results map and the base profile into
// the final aggregated profile. It runs once per session: a failed attempt
// may be retried, but a successful synthesis is never repeated or mutated.
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harx-ai/reps-assessor/internal/evaluate"
	"github.com/harx-ai/reps-assessor/internal/oracle"
	"github.com/harx-ai/reps-assessor/internal/profile"

	"go.uber.org/zap"
)

// AggregatedProfile is the composite output of a full assessment session.
type AggregatedProfile struct {
	OverallScore            float64           `json:"overallScore"`
	ProfileSummary          string            `json:"profileSummary"`
	KeyStrengths            []string          `json:"keyStrengths"`
	DevelopmentAreas        []string          `json:"developmentAreas"`
	RecommendedRoles        []RecommendedRole `json:"recommendedRoles"`
	CareerPath              CareerPath        `json:"careerPath"`
	TrainingRecommendations []string          `json:"trainingRecommendations"`
	KeySkills               []KeySkill        `json:"keySkills"`
}

type RecommendedRole struct {
	Role         string   `json:"role"`
	Confidence   float64  `json:"confidence"`
	Rationale    string   `json:"rationale"`
	Requirements []string `json:"requirements"`
	SkillsMatch  []string `json:"skillsMatch"`
}

type CareerPath struct {
	Immediate string `json:"immediate"`
	ShortTerm string `json:"shortTerm"`
	LongTerm  string `json:"longTerm"`
}

type KeySkill struct {
	Name        string  `json:"name"`
	Proficiency float64 `json:"proficiency"`
}

const systemPrompt = `As a contact center career advisor, analyze the assessment results and provide comprehensive recommendations.
Format response as JSON:
{
  "overallScore": number,
  "profileSummary": "string",
  "keyStrengths": ["string"],
  "developmentAreas": ["string"],
  "recommendedRoles": [{
    "role": "string",
    "confidence": number,
    "rationale": "string",
    "requirements": ["string"],
    "skillsMatch": ["string"]
  }],
  "careerPath": {
    "immediate": "string",
    "shortTerm": "string",
    "longTerm": "string"
  },
  "trainingRecommendations": ["string"],
  "keySkills": [{
    "name": "string",
    "proficiency": number
  }]
}`

const aggregatedSchema = `{
	"type": "object",
	"properties": {
		"overallScore": {"type": "number"},
		"profileSummary": {"type": "string"},
		"keyStrengths": {"type": "array", "items": {"type": "string"}},
		"developmentAreas": {"type": "array", "items": {"type": "string"}},
		"recommendedRoles": {"type": "array", "items": {"type": "object"}},
		"careerPath": {"type": "object"},
		"trainingRecommendations": {"type": "array", "items": {"type": "string"}},
		"keySkills": {"type": "array", "items": {"type": "object"}}
	},
	"required": ["overallScore", "profileSummary"]
}`

// Synthesizer makes the single aggregation call.
type Synthesizer struct {
	completer oracle.Completer
	logger    *zap.Logger

	mu   sync.Mutex
	done *AggregatedProfile
}

func New(completer oracle.Completer, log *zap.Logger) *Synthesizer {
	return &Synthesizer{completer: completer, logger: log}
}

// Synthesize embeds every recorded result plus the base profile in one
// oracle call. Failure is blocking: the caller retries explicitly, nothing
// partial is kept. After the first success the stored profile is returned
// unchanged no matter how often it is called again.
func (s *Synthesizer) Synthesize(ctx context.Context, results map[string]*evaluate.Result, p *profile.Profile) (*AggregatedProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return s.done, nil
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("encoding results: %w", err)
	}
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	raw, err := s.completer.Complete(ctx, oracle.Request{
		System:       systemPrompt,
		User:         fmt.Sprintf("Assessment results: %s\nProfile data: %s", resultsJSON, profileJSON),
		Temperature:  0.7,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &oracle.GenerationError{Op: "final synthesis", Cause: err}
	}

	var aggregated AggregatedProfile
	if err := oracle.DecodeJSON("final synthesis", raw, aggregatedSchema, &aggregated); err != nil {
		return nil, err
	}

	s.logger.Info("final profile synthesized",
		zap.Float64("overall_score", aggregated.OverallScore),
		zap.Int("results", len(results)),
		zap.Int("recommended_roles", len(aggregated.RecommendedRoles)),
	)

	s.done = &aggregated
	return s.done, nil
}

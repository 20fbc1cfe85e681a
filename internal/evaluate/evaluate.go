// Package evaluate scores a captured response against its scenario. Contact
// center evaluation runs an ordered list of strategies sharing one result
// contract: the store's dedicated endpoint first, then a generic oracle
// chat completion. Language evaluation grades a read passage.
package evaluate

import (
	"context"
	"fmt"

	"github.com/harx-ai/reps-assessor/internal/capture"
	"github.com/harx-ai/reps-assessor/internal/proficiency"
	"github.com/harx-ai/reps-assessor/internal/scenario"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is the structured outcome of one evaluation. Proficiency is derived
// deterministically from OverallScore; everything else is oracle output.
type Result struct {
	OverallScore float64            `json:"score" mapstructure:"score"`
	SubScores    map[string]float64 `json:"keyMetrics" mapstructure:"keyMetrics"`
	Strengths    []string           `json:"strengths" mapstructure:"strengths"`
	Improvements []string           `json:"improvements" mapstructure:"improvements"`
	Feedback     string             `json:"feedback" mapstructure:"feedback"`
	Tips         []string           `json:"tips" mapstructure:"tips"`
	Proficiency  string             `json:"proficiency" mapstructure:"proficiency"`
}

// Input bundles what a strategy needs to score a response.
type Input struct {
	Scenario     *scenario.Scenario
	Capture      *capture.Capture
	SkillName    string
	CategoryName string
}

// Strategy is one way of obtaining a verdict. Strategies are tried in order
// until one succeeds.
type Strategy interface {
	Name() string
	// Applicable reports whether the strategy can handle this input at all
	// (e.g. the store endpoint needs an uploaded recording).
	Applicable(in Input) bool
	Evaluate(ctx context.Context, in Input) (*Result, error)
}

// Store is the slice of the profile store client that evaluation needs.
type Store interface {
	UploadAudio(path, destinationName string) (string, error)
	EvaluateContactCenter(fileURI string, scenarioData, target any) error
	AnalyseRecording(fileURI, textToCompare string) (string, error)
}

// SkillEvaluator scores contact center skill responses.
type SkillEvaluator struct {
	store      Store
	strategies []Strategy
	logger     *zap.Logger
}

func NewSkillEvaluator(store Store, strategies []Strategy, log *zap.Logger) *SkillEvaluator {
	return &SkillEvaluator{store: store, strategies: strategies, logger: log}
}

// Evaluate uploads the capture's audio when needed, then walks the strategy
// list. Upload failures, oracle failures and malformed verdicts surface as
// distinct typed errors; session state is never touched here.
func (e *SkillEvaluator) Evaluate(ctx context.Context, in Input) (*Result, error) {
	if in.Capture.Empty() {
		return nil, fmt.Errorf("nothing captured for %s", in.SkillName)
	}

	if err := ensureUploaded(in.Capture, e.store); err != nil {
		return nil, err
	}

	var lastErr error
	for _, s := range e.strategies {
		if !s.Applicable(in) {
			continue
		}

		result, err := s.Evaluate(ctx, in)
		if err != nil {
			e.logger.Warn("evaluation strategy failed",
				zap.String("strategy", s.Name()),
				zap.String("skill", in.SkillName),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		e.logger.Info("response evaluated",
			zap.String("strategy", s.Name()),
			zap.String("skill", in.SkillName),
			zap.Float64("score", result.OverallScore),
		)

		result.Proficiency = string(proficiency.ForSkill(result.OverallScore))
		return result, nil
	}

	if lastErr == nil {
		return nil, fmt.Errorf("no evaluation strategy applicable for %s capture", in.Capture.Kind)
	}
	return nil, fmt.Errorf("all evaluation strategies failed: %w", lastErr)
}

func ensureUploaded(c *capture.Capture, store Store) error {
	if c.Kind != capture.Audio || c.FileURI != "" {
		return nil
	}

	uri, err := store.UploadAudio(c.AudioPath, fmt.Sprintf("audio-%s.opus", uuid.NewString()))
	if err != nil {
		return err
	}
	c.FileURI = uri
	return nil
}

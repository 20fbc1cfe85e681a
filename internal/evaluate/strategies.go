package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/harx-ai/reps-assessor/internal/capture"
	"github.com/harx-ai/reps-assessor/internal/oracle"
)

const verdictSchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "number"},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"improvements": {"type": "array", "items": {"type": "string"}},
		"feedback": {"type": "string"},
		"tips": {"type": "array", "items": {"type": "string"}},
		"keyMetrics": {"type": "object"}
	},
	"required": ["score"]
}`

// storeStrategy uses the store's dedicated contact center evaluation
// endpoint. It only handles uploaded audio captures.
type storeStrategy struct {
	store Store
}

// NewStoreStrategy builds the primary contact center evaluation strategy.
func NewStoreStrategy(store Store) Strategy {
	return &storeStrategy{store: store}
}

func (s *storeStrategy) Name() string { return "store_endpoint" }

func (s *storeStrategy) Applicable(in Input) bool {
	return in.Capture.Kind == capture.Audio && in.Capture.FileURI != ""
}

func (s *storeStrategy) Evaluate(_ context.Context, in Input) (*Result, error) {
	var result Result
	if err := s.store.EvaluateContactCenter(in.Capture.FileURI, in.Scenario, &result); err != nil {
		return nil, err
	}

	if result.OverallScore <= 0 {
		return nil, fmt.Errorf("store verdict missing score")
	}

	return &result, nil
}

const evaluationSystemPrompt = `You are an expert contact center trainer. Analyze the agent's response based on %s criteria.
Provide detailed feedback in JSON format:
{
  "score": number (1-100),
  "strengths": ["string"],
  "improvements": ["string"],
  "feedback": "string",
  "tips": ["string"],
  "keyMetrics": {
    "professionalism": number (1-10),
    "effectiveness": number (1-10),
    "customerFocus": number (1-10)
  }
}`

// oracleStrategy is the generic chat-completion fallback. It handles typed
// text directly and audio captures through their transcript.
type oracleStrategy struct {
	completer oracle.Completer
}

// NewOracleStrategy builds the fallback evaluation strategy.
func NewOracleStrategy(completer oracle.Completer) Strategy {
	return &oracleStrategy{completer: completer}
}

func (s *oracleStrategy) Name() string { return "oracle_completion" }

func (s *oracleStrategy) Applicable(in Input) bool {
	return strings.TrimSpace(in.Capture.Text) != ""
}

func (s *oracleStrategy) Evaluate(ctx context.Context, in Input) (*Result, error) {
	criteria := strings.Join(in.Scenario.EvaluationCriteria, ", ")

	raw, err := s.completer.Complete(ctx, oracle.Request{
		System:       fmt.Sprintf(evaluationSystemPrompt, in.SkillName),
		User:         fmt.Sprintf("Scenario: %s\nAgent's Response: %s\nEvaluation Criteria: %s", in.Scenario.Text, in.Capture.Text, criteria),
		Temperature:  0.7,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &oracle.GenerationError{Op: "response evaluation", Cause: err}
	}

	var result Result
	if err := oracle.DecodeJSON("response evaluation", raw, verdictSchema, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

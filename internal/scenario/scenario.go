// Package scenario asks the oracle for synthetic contact center test
// scenarios. Scenarios are created per assessment item and discarded after
// evaluation; nothing is cached, so a retry starts from scratch.
package scenario

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/harx-ai/reps-assessor/internal/logger"
	"github.com/harx-ai/reps-assessor/internal/oracle"

	"go.uber.org/zap"
)

// Scenario is the task a candidate responds to.
type Scenario struct {
	Text               string   `json:"scenario"`
	CustomerProfile    string   `json:"customerProfile"`
	Challenge          string   `json:"challenge"`
	ExpectedElements   []string `json:"expectedElements"`
	EvaluationCriteria []string `json:"evaluationCriteria"`
	Difficulty         string   `json:"difficulty"`
}

const schema = `{
	"type": "object",
	"properties": {
		"scenario": {"type": "string"},
		"customerProfile": {"type": "string"},
		"challenge": {"type": "string"},
		"expectedElements": {"type": "array", "items": {"type": "string"}},
		"evaluationCriteria": {"type": "array", "items": {"type": "string"}},
		"difficulty": {"type": "string"}
	},
	"required": ["scenario", "evaluationCriteria"]
}`

const systemPrompt = `Create a realistic contact center scenario to test %s skills. Include:
1. Customer situation/problem
2. Key challenges
3. Expected response elements
4. Evaluation criteria

Format as JSON:
{
  "scenario": "string",
  "customerProfile": "string",
  "challenge": "string",
  "expectedElements": ["string"],
  "evaluationCriteria": ["string"],
  "difficulty": "string"
}`

// Generator produces scenarios through the oracle.
type Generator struct {
	completer oracle.Completer
	logger    *zap.Logger
	maxLogLen int
}

const defaultMaxLogLength = 200

func NewGenerator(completer oracle.Completer, log *zap.Logger, maxLogLength int) *Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Generator{completer: completer, logger: log, maxLogLen: maxLogLength}
}

// Generate requests a scenario for the given skill within its category.
// Failures, including malformed JSON, are *oracle.GenerationError; the
// caller must not advance the session on error.
func (g *Generator) Generate(ctx context.Context, skillName, categoryName string) (*Scenario, error) {
	req := oracle.Request{
		System:       fmt.Sprintf(systemPrompt, skillName),
		User:         fmt.Sprintf("Generate a scenario for testing %s in %s", skillName, categoryName),
		Temperature:  0.7,
		JSONResponse: true,
	}

	raw, err := g.completer.Complete(ctx, req)
	if err != nil {
		return nil, &oracle.GenerationError{Op: "scenario generation", Cause: err}
	}

	g.logger.Debug("scenario response",
		zap.String("skill", skillName),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, g.maxLogLen)),
	)

	var s Scenario
	if err := oracle.DecodeJSON("scenario generation", raw, schema, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

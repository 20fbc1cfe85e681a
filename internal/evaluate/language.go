package evaluate

import (
	"context"
	"fmt"

	"github.com/harx-ai/reps-assessor/internal/capture"
	"github.com/harx-ai/reps-assessor/internal/oracle"
	"github.com/harx-ai/reps-assessor/internal/proficiency"

	"go.uber.org/zap"
)

// languageVerdict mirrors the JSON shape the grading prompt requests: four
// sub-metrics on a 1-10 scale plus an overall 1-100 score.
type languageVerdict struct {
	Pronunciation metric `json:"pronunciation"`
	Fluency       metric `json:"fluency"`
	Comprehension metric `json:"comprehension"`
	Vocabulary    metric `json:"vocabulary"`
	Overall       metric `json:"overall"`
}

type metric struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

const languageVerdictSchema = `{
	"type": "object",
	"properties": {
		"pronunciation": {"type": "object"},
		"fluency": {"type": "object"},
		"comprehension": {"type": "object"},
		"vocabulary": {"type": "object"},
		"overall": {
			"type": "object",
			"properties": {"score": {"type": "number"}},
			"required": ["score"]
		}
	},
	"required": ["overall"]
}`

const languageSystemPrompt = `You are a language assessment expert. Analyze the candidate's reading of the provided passage and provide a detailed assessment with scores and feedback in the following JSON format:
{
  "pronunciation": {"score": number (1-10), "feedback": "string"},
  "fluency": {"score": number (1-10), "feedback": "string"},
  "comprehension": {"score": number (1-10), "feedback": "string"},
  "vocabulary": {"score": number (1-10), "feedback": "string"},
  "overall": {"score": number (1-100), "feedback": "string"}
}`

// LanguageEvaluator grades a read-aloud passage. Audio goes through the
// store's dedicated analysis endpoint first; the generic oracle completion
// is the fallback and the only path for transcript-only captures.
type LanguageEvaluator struct {
	store     Store
	completer oracle.Completer
	logger    *zap.Logger
}

func NewLanguageEvaluator(store Store, completer oracle.Completer, log *zap.Logger) *LanguageEvaluator {
	return &LanguageEvaluator{store: store, completer: completer, logger: log}
}

// Evaluate scores the capture against the passage text for the given
// language and attaches the CEFR label.
func (e *LanguageEvaluator) Evaluate(ctx context.Context, language, passageText string, c *capture.Capture) (*Result, error) {
	if c.Empty() {
		return nil, fmt.Errorf("nothing captured for %s assessment", language)
	}

	if err := ensureUploaded(c, e.store); err != nil {
		return nil, err
	}

	raw, err := e.analyse(ctx, language, passageText, c)
	if err != nil {
		return nil, err
	}

	var verdict languageVerdict
	if err := oracle.DecodeJSON("language evaluation", raw, languageVerdictSchema, &verdict); err != nil {
		return nil, err
	}

	result := &Result{
		OverallScore: verdict.Overall.Score,
		Feedback:     verdict.Overall.Feedback,
		SubScores: map[string]float64{
			"pronunciation": verdict.Pronunciation.Score,
			"fluency":       verdict.Fluency.Score,
			"comprehension": verdict.Comprehension.Score,
			"vocabulary":    verdict.Vocabulary.Score,
		},
		Proficiency: string(proficiency.ForLanguage(verdict.Overall.Score)),
	}

	e.logger.Info("language response evaluated",
		zap.String("language", language),
		zap.Float64("score", result.OverallScore),
		zap.String("proficiency", result.Proficiency),
	)

	return result, nil
}

func (e *LanguageEvaluator) analyse(ctx context.Context, language, passageText string, c *capture.Capture) (string, error) {
	if c.Kind == capture.Audio && c.FileURI != "" {
		raw, err := e.store.AnalyseRecording(c.FileURI, passageText)
		if err == nil {
			return raw, nil
		}
		e.logger.Warn("dedicated audio analysis failed, falling back to oracle",
			zap.String("language", language),
			zap.Error(err),
		)
	}

	raw, err := e.completer.Complete(ctx, oracle.Request{
		System:       languageSystemPrompt,
		User:         fmt.Sprintf("Reading passage: %s\nCandidate transcript: %s\nAssess %s language proficiency.", passageText, c.Text, language),
		Temperature:  0.7,
		JSONResponse: true,
	})
	if err != nil {
		return "", &oracle.GenerationError{Op: "language evaluation", Cause: err}
	}

	return raw, nil
}

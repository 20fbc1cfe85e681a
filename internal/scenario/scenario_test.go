package scenario

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harx-ai/reps-assessor/internal/oracle"

	"go.uber.org/zap"
)

type stubCompleter struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, req oracle.Request) (string, error) {
	s.lastPrompt = req.System + "\n" + req.User
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestGenerate(t *testing.T) {
	stub := &stubCompleter{response: `{
		"scenario": "An upset customer calls about a double charge.",
		"customerProfile": "Long-time subscriber",
		"challenge": "De-escalate while checking billing",
		"expectedElements": ["acknowledge", "verify"],
		"evaluationCriteria": ["empathy", "accuracy"],
		"difficulty": "intermediate"
	}`}
	gen := NewGenerator(stub, zap.NewNop(), 0)

	s, err := gen.Generate(context.Background(), "Active Listening", "Communication")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Text == "" {
		t.Fatal("expected scenario text")
	}
	if len(s.EvaluationCriteria) != 2 {
		t.Fatalf("expected 2 criteria, got %d", len(s.EvaluationCriteria))
	}
	if !strings.Contains(stub.lastPrompt, "Active Listening") {
		t.Fatalf("prompt does not mention the skill: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Communication") {
		t.Fatalf("prompt does not mention the category: %s", stub.lastPrompt)
	}
}

func TestGenerateNonJSONIsGenerationError(t *testing.T) {
	stub := &stubCompleter{response: "Sure! Here is a scenario for you..."}
	gen := NewGenerator(stub, zap.NewNop(), 0)

	_, err := gen.Generate(context.Background(), "Empathy", "Communication")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}

	var genErr *oracle.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *oracle.GenerationError, got %T", err)
	}
}

func TestGenerateOracleFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("quota exceeded")}
	gen := NewGenerator(stub, zap.NewNop(), 0)

	_, err := gen.Generate(context.Background(), "Empathy", "Communication")
	var genErr *oracle.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *oracle.GenerationError, got %T", err)
	}
}

package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harx-ai/reps-assessor/internal/evaluate"
	"github.com/harx-ai/reps-assessor/internal/oracle"
	"github.com/harx-ai/reps-assessor/internal/profile"

	"go.uber.org/zap"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (s *stubCompleter) Complete(_ context.Context, req oracle.Request) (string, error) {
	s.calls++
	s.lastUser = req.User
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const goodResponse = `{
	"overallScore": 78,
	"profileSummary": "Strong communicator with solid technical grounding.",
	"keyStrengths": ["empathy"],
	"developmentAreas": ["conflict handling"],
	"recommendedRoles": [{"role": "Customer Success Lead", "confidence": 85, "rationale": "r", "requirements": ["CRM"], "skillsMatch": ["empathy"]}],
	"careerPath": {"immediate": "now", "shortTerm": "soon", "longTerm": "later"},
	"trainingRecommendations": ["de-escalation workshop"],
	"keySkills": [{"name": "Empathy", "proficiency": 82}]
}`

func sampleResults() map[string]*evaluate.Result {
	return map[string]*evaluate.Result{
		"lang-english":  {OverallScore: 82, Proficiency: "C1"},
		"skill-empathy": {OverallScore: 78, Proficiency: "Advanced"},
		"skill-clarity": {OverallScore: 61, Proficiency: "Intermediate"},
	}
}

func TestSynthesizeEmbedsAllResults(t *testing.T) {
	c := &stubCompleter{response: goodResponse}
	s := New(c, zap.NewNop())

	got, err := s.Synthesize(context.Background(), sampleResults(), &profile.Profile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.OverallScore != 78 {
		t.Fatalf("expected 78, got %v", got.OverallScore)
	}
	if len(got.RecommendedRoles) != 1 || got.RecommendedRoles[0].Role != "Customer Success Lead" {
		t.Fatalf("unexpected roles: %+v", got.RecommendedRoles)
	}
	for _, key := range []string{"lang-english", "skill-empathy", "skill-clarity"} {
		if !strings.Contains(c.lastUser, key) {
			t.Fatalf("prompt should embed result %q", key)
		}
	}
}

func TestSynthesizeRunsOnce(t *testing.T) {
	c := &stubCompleter{response: goodResponse}
	s := New(c, zap.NewNop())

	first, err := s.Synthesize(context.Background(), sampleResults(), &profile.Profile{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Synthesize(context.Background(), sampleResults(), &profile.Profile{})
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Fatal("a successful synthesis must be returned unchanged on repeat calls")
	}
	if c.calls != 1 {
		t.Fatalf("expected exactly one oracle call, got %d", c.calls)
	}
}

func TestSynthesizeFailureAllowsRetry(t *testing.T) {
	c := &stubCompleter{err: errors.New("quota exceeded")}
	s := New(c, zap.NewNop())

	_, err := s.Synthesize(context.Background(), sampleResults(), &profile.Profile{})
	if err == nil {
		t.Fatal("expected error")
	}
	var genErr *oracle.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *oracle.GenerationError, got %T", err)
	}

	// The retry succeeds and becomes the stored result.
	c.err = nil
	c.response = goodResponse
	got, err := s.Synthesize(context.Background(), sampleResults(), &profile.Profile{})
	if err != nil {
		t.Fatal(err)
	}
	if got.OverallScore != 78 {
		t.Fatalf("unexpected score after retry: %v", got.OverallScore)
	}
	if c.calls != 2 {
		t.Fatalf("expected two oracle calls, got %d", c.calls)
	}
}

func TestSynthesizeRejectsMalformedVerdict(t *testing.T) {
	c := &stubCompleter{response: `{"profileSummary": "missing score"}`}
	s := New(c, zap.NewNop())

	if _, err := s.Synthesize(context.Background(), sampleResults(), &profile.Profile{}); err == nil {
		t.Fatal("expected schema validation to reject the verdict")
	}
}

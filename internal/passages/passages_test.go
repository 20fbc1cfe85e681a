package passages

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harx-ai/reps-assessor/internal/oracle"

	"go.uber.org/zap"
)

type stubCompleter struct {
	responses []string
	calls     []oracle.Request
}

func (s *stubCompleter) Complete(_ context.Context, req oracle.Request) (string, error) {
	s.calls = append(s.calls, req)
	if len(s.responses) == 0 {
		return "", nil
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r, nil
}

func TestGetStockByCode(t *testing.T) {
	c := &stubCompleter{}
	m := NewManager(c, zap.NewNop())

	p, err := m.Get(context.Background(), "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != "fr" {
		t.Fatalf("expected fr, got %s", p.Code)
	}
	if !strings.HasPrefix(p.Text, "La révolution numérique") {
		t.Fatalf("unexpected passage text: %s", p.Text)
	}
	if len(c.calls) != 0 {
		t.Fatalf("stock language must not touch the oracle, got %d calls", len(c.calls))
	}
}

func TestGetStockByName(t *testing.T) {
	m := NewManager(&stubCompleter{}, zap.NewNop())

	for _, name := range []string{"English", "english", "French", "Français", "Anglais", "中文", "Deutsch"} {
		if _, err := m.Get(context.Background(), name); err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
	}
}

func TestGetNameAndCodeAgree(t *testing.T) {
	m := NewManager(&stubCompleter{}, zap.NewNop())

	byName, err := m.Get(context.Background(), "Spanish")
	if err != nil {
		t.Fatal(err)
	}
	byCode, err := m.Get(context.Background(), "es")
	if err != nil {
		t.Fatal(err)
	}
	if byName.Text != byCode.Text {
		t.Fatal("name and code lookups must return the same passage")
	}
}

func TestGetTranslatesUnknownCode(t *testing.T) {
	c := &stubCompleter{responses: []string{"Mapinduzi ya kidijitali yamebadilisha jinsi tunavyoishi na kufanya kazi."}}
	m := NewManager(c, zap.NewNop())

	p, err := m.Get(context.Background(), "sw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Code != "sw" {
		t.Fatalf("expected sw, got %s", p.Code)
	}
	if !strings.Contains(p.Text, "Mapinduzi") {
		t.Fatalf("expected translated text, got %s", p.Text)
	}
	if len(c.calls) != 1 {
		t.Fatalf("expected one translation call, got %d", len(c.calls))
	}
	if !strings.Contains(c.calls[0].System, "Swahili") {
		t.Fatalf("translation prompt should name the target language: %s", c.calls[0].System)
	}

	// Second lookup is served from the cache.
	if _, err := m.Get(context.Background(), "sw"); err != nil {
		t.Fatal(err)
	}
	if len(c.calls) != 1 {
		t.Fatalf("cached passage must not be re-translated, got %d calls", len(c.calls))
	}
}

func TestGetResolvesUnknownNameThroughOracle(t *testing.T) {
	c := &stubCompleter{responses: []string{"sw", "Mapinduzi ya kidijitali."}}
	m := NewManager(c, zap.NewNop())

	p, err := m.Get(context.Background(), "Kiswahili sanifu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != "sw" {
		t.Fatalf("expected sw, got %s", p.Code)
	}
	if len(c.calls) != 2 {
		t.Fatalf("expected code resolution plus translation, got %d calls", len(c.calls))
	}
}

func TestGetRejectsBadOracleCode(t *testing.T) {
	c := &stubCompleter{responses: []string{"not-a-code"}}
	m := NewManager(c, zap.NewNop())

	_, err := m.Get(context.Background(), "Some Invented Tongue")
	if err == nil {
		t.Fatal("expected an error for an invalid resolved code")
	}
	var genErr *oracle.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *oracle.GenerationError, got %T", err)
	}
}

func TestGetEmptyLanguage(t *testing.T) {
	m := NewManager(&stubCompleter{}, zap.NewNop())
	if _, err := m.Get(context.Background(), "  "); err == nil {
		t.Fatal("expected an error for an empty language")
	}
}

package oracle

import (
	"errors"
	"testing"
)

func TestExtractJSONHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"score\": 80}\n```"
	if got := ExtractJSON(raw); got != `{"score": 80}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONPassesPlainJSON(t *testing.T) {
	raw := `  {"score": 80}  `
	if got := ExtractJSON(raw); got != `{"score": 80}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Score float64 `json:"score"`
	}

	if err := DecodeJSON("test", "```json\n{\"score\": 42}\n```", "", &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Score != 42 {
		t.Fatalf("expected score 42, got %v", target.Score)
	}
}

func TestDecodeJSONMalformedIsGenerationError(t *testing.T) {
	var target map[string]any
	err := DecodeJSON("scenario", "this is not json", "", &target)
	if err == nil {
		t.Fatal("expected an error")
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Op != "scenario" {
		t.Fatalf("unexpected op: %q", genErr.Op)
	}
}

func TestDecodeJSONSchemaMismatch(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"score": {"type": "number"}},
		"required": ["score"]
	}`

	var target map[string]any
	err := DecodeJSON("evaluation", `{"feedback": "good"}`, schema, &target)
	if err == nil {
		t.Fatal("expected schema violation error")
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
}

func TestDecodeJSONSchemaMatch(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"score": {"type": "number"}},
		"required": ["score"]
	}`

	var target struct {
		Score float64 `json:"score"`
	}
	if err := DecodeJSON("evaluation", `{"score": 91}`, schema, &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Score != 91 {
		t.Fatalf("expected 91, got %v", target.Score)
	}
}

// Package oracle defines the contract for the generative AI service that
// produces scenarios, evaluations and the final profile synthesis. Providers
// live in subpackages; callers depend only on the Completer interface.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request is a single chat-completion style exchange. When JSONResponse is
// set the provider must ask the model for a JSON object response.
type Request struct {
	System       string
	User         string
	Temperature  float32
	JSONResponse bool
	MaxTokens    int
}

// Completer is implemented by oracle providers.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// GenerationError covers a failed oracle call or an unusable response:
// transport errors, empty output and malformed JSON all collapse into it so
// callers can treat "no usable scenario/evaluation" uniformly.
type GenerationError struct {
	Op    string
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("oracle %s failed: %v", e.Op, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// ExtractJSON strips markdown code fences that models frequently wrap JSON
// responses in.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// DecodeJSON parses an oracle response into target, optionally validating it
// against a JSON schema first. Every failure mode is a *GenerationError.
func DecodeJSON(op, raw, schema string, target any) error {
	cleaned := ExtractJSON(raw)

	if schema != "" {
		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(schema),
			gojsonschema.NewStringLoader(cleaned),
		)
		if err != nil {
			return &GenerationError{Op: op, Cause: fmt.Errorf("schema validation: %w", err)}
		}
		if !result.Valid() {
			descs := make([]string, 0, len(result.Errors()))
			for _, verr := range result.Errors() {
				descs = append(descs, verr.String())
			}
			return &GenerationError{Op: op, Cause: fmt.Errorf("response does not match schema: %s", strings.Join(descs, "; "))}
		}
	}

	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return &GenerationError{Op: op, Cause: fmt.Errorf("parse response: %w", err)}
	}

	return nil
}

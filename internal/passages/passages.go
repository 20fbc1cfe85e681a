// Package passages serves the reading passage for a language assessment.
// Stock languages ship with a curated translation of the English reference
// passage; anything else is resolved to an ISO 639-1 code and translated by
// the oracle, then cached for the rest of the session.
package passages

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harx-ai/reps-assessor/internal/oracle"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const referenceCode = "en"

// Passage is one read-aloud text with its expected reading time in seconds.
type Passage struct {
	Text              string
	EstimatedDuration int
	Difficulty        string
	Code              string
}

const codeSystemPrompt = `You are a language expert. Given a language name or identifier, return ONLY the corresponding ISO 639-1 two-letter language code.
For example:
- "English" -> "en"
- "français" -> "fr"
- "中文" -> "zh"
- "العربية" -> "ar"
Return ONLY the two-letter code, nothing else.`

// Manager resolves language identifiers and hands out passages.
type Manager struct {
	completer oracle.Completer
	logger    *zap.Logger

	mu    sync.Mutex
	cache map[string]Passage
	// names maps lowercased language names (English, French and native
	// spellings of the stock languages) to their codes.
	names map[string]string
}

func NewManager(completer oracle.Completer, log *zap.Logger) *Manager {
	m := &Manager{
		completer: completer,
		logger:    log,
		cache:     make(map[string]Passage, len(stock)),
		names:     make(map[string]string),
	}
	for code, p := range stock {
		m.cache[code] = p
	}
	m.indexNames()
	return m
}

func (m *Manager) indexNames() {
	namers := []display.Namer{
		display.English.Languages(),
		display.French.Languages(),
		display.Self,
	}
	for code := range stock {
		tag := language.MustParse(code)
		for _, n := range namers {
			if name := n.Name(tag); name != "" {
				m.names[strings.ToLower(name)] = code
			}
		}
	}
}

// Get returns the passage for a language, translating the reference passage
// when no stock translation exists. Candidates may name the language any way
// they like ("French", "Français", "fr").
func (m *Manager) Get(ctx context.Context, lang string) (Passage, error) {
	code, err := m.resolveCode(ctx, lang)
	if err != nil {
		return Passage{}, err
	}

	m.mu.Lock()
	p, ok := m.cache[code]
	m.mu.Unlock()
	if ok {
		return p, nil
	}

	m.logger.Info("translating reference passage", zap.String("language", lang), zap.String("code", code))

	p, err = m.translate(ctx, code)
	if err != nil {
		return Passage{}, err
	}

	m.mu.Lock()
	m.cache[code] = p
	m.mu.Unlock()
	return p, nil
}

func (m *Manager) resolveCode(ctx context.Context, lang string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(lang))
	if norm == "" {
		return "", fmt.Errorf("empty language")
	}

	// A code or BCP 47 tag first ("fr", "en-US").
	if tag, err := language.Parse(norm); err == nil {
		base, conf := tag.Base()
		if conf >= language.High {
			return base.String(), nil
		}
	}

	if code, ok := m.names[norm]; ok {
		return code, nil
	}

	// Last resort: ask the oracle for the code.
	raw, err := m.completer.Complete(ctx, oracle.Request{
		System:      codeSystemPrompt,
		User:        lang,
		Temperature: 0.1,
		MaxTokens:   4,
	})
	if err != nil {
		return "", &oracle.GenerationError{Op: "language code resolution", Cause: err}
	}

	code := strings.ToLower(strings.TrimSpace(raw))
	if _, err := language.Parse(code); err != nil || len(code) != 2 {
		return "", &oracle.GenerationError{Op: "language code resolution",
			Cause: fmt.Errorf("invalid language code %q for %q", code, lang)}
	}
	return code, nil
}

func (m *Manager) translate(ctx context.Context, code string) (Passage, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return Passage{}, fmt.Errorf("unsupported language code %q", code)
	}
	name := display.English.Languages().Name(tag)

	ref := stock[referenceCode]
	raw, err := m.completer.Complete(ctx, oracle.Request{
		System: fmt.Sprintf(`You are a professional translator. Translate the following text to %s (%s).
Maintain the same tone, formality, and meaning. Return ONLY the translated text, nothing else.`, name, code),
		User:        ref.Text,
		Temperature: 0.3,
	})
	if err != nil {
		return Passage{}, &oracle.GenerationError{Op: "passage translation", Cause: err}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return Passage{}, &oracle.GenerationError{Op: "passage translation",
			Cause: fmt.Errorf("empty translation for %q", code)}
	}

	return Passage{
		Text:              text,
		EstimatedDuration: ref.EstimatedDuration,
		Difficulty:        ref.Difficulty,
		Code:              code,
	}, nil
}

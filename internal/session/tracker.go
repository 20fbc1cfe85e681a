// Package session drives one assessment session: an ordered list of items
// walked through two phases, and the aggregator that records each verdict
// locally and pushes it to the profile store in the background.
package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ItemKind tells a language item from a contact center skill item.
type ItemKind int

const (
	LanguageItem ItemKind = iota
	ContactCenterItem
)

func (k ItemKind) String() string {
	switch k {
	case LanguageItem:
		return "language"
	case ContactCenterItem:
		return "contact_center"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// ItemState is the lifecycle of one assessment item.
type ItemState int

const (
	Pending ItemState = iota
	InProgress
	AwaitingEvaluation
	Completed
)

func (s ItemState) String() string {
	switch s {
	case Pending:
		return "pending"
	case InProgress:
		return "in_progress"
	case AwaitingEvaluation:
		return "awaiting_evaluation"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
}

// Phase is the session-level state.
type Phase int

const (
	LanguagePhase Phase = iota
	ContactCenterPhase
	Synthesizing
	Done
)

func (p Phase) String() string {
	switch p {
	case LanguagePhase:
		return "languages"
	case ContactCenterPhase:
		return "contact_center"
	case Synthesizing:
		return "synthesizing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Item is one assessment unit: a language to read or a skill to demonstrate.
type Item struct {
	ID       string
	Kind     ItemKind
	Name     string
	Category string
	State    ItemState
}

// SkillRef names one contact center skill and its category.
type SkillRef struct {
	Name     string
	Category string
}

// Tracker owns the ordered item list and the session phase. The index only
// moves forward except through an explicit Retreat.
type Tracker struct {
	items   []Item
	current int
	phase   Phase
	logger  *zap.Logger
}

// NewTracker lays out the session: every language first, then every skill.
func NewTracker(languages []string, skills []SkillRef, log *zap.Logger) (*Tracker, error) {
	if len(languages) == 0 && len(skills) == 0 {
		return nil, fmt.Errorf("nothing to assess")
	}

	items := make([]Item, 0, len(languages)+len(skills))
	for _, lang := range languages {
		items = append(items, Item{
			ID:   "lang-" + slug(lang),
			Kind: LanguageItem,
			Name: lang,
		})
	}
	for _, s := range skills {
		items = append(items, Item{
			ID:       "skill-" + slug(s.Name),
			Kind:     ContactCenterItem,
			Name:     s.Name,
			Category: s.Category,
		})
	}

	phase := LanguagePhase
	if len(languages) == 0 {
		phase = ContactCenterPhase
	}

	return &Tracker{items: items, phase: phase, logger: log}, nil
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// Current returns the active item, or nil once the session left the
// assessment phases.
func (t *Tracker) Current() *Item {
	if t.phase == Synthesizing || t.phase == Done {
		return nil
	}
	return &t.items[t.current]
}

// Items returns the full ordered list.
func (t *Tracker) Items() []Item {
	out := make([]Item, len(t.items))
	copy(out, t.items)
	return out
}

// Phase returns the session-level state.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Begin moves the current item into InProgress. Reopened items restart here
// too.
func (t *Tracker) Begin() error {
	item := t.Current()
	if item == nil {
		return fmt.Errorf("session is %s, no item to begin", t.phase)
	}
	if item.State != Pending && item.State != InProgress {
		return fmt.Errorf("item %s is %s, cannot begin", item.ID, item.State)
	}
	item.State = InProgress
	return nil
}

// AwaitEvaluation marks the current item as captured and waiting for its
// verdict. At most one evaluation is in flight per item.
func (t *Tracker) AwaitEvaluation() error {
	item := t.Current()
	if item == nil {
		return fmt.Errorf("session is %s, nothing to evaluate", t.phase)
	}
	if item.State != InProgress {
		return fmt.Errorf("item %s is %s, cannot await evaluation", item.ID, item.State)
	}
	item.State = AwaitingEvaluation
	return nil
}

// Complete marks the current item done. The caller records the result with
// the aggregator first; an item is complete iff its result is recorded.
func (t *Tracker) Complete() error {
	item := t.Current()
	if item == nil {
		return fmt.Errorf("session is %s, nothing to complete", t.phase)
	}
	if item.State != AwaitingEvaluation {
		return fmt.Errorf("item %s is %s, cannot complete", item.ID, item.State)
	}
	item.State = Completed
	return nil
}

// Reopen puts the current item back into InProgress for a retry. Its stored
// result stays until a new verdict overwrites it.
func (t *Tracker) Reopen() error {
	item := t.Current()
	if item == nil {
		return fmt.Errorf("session is %s, nothing to reopen", t.phase)
	}
	item.State = InProgress
	return nil
}

// Advance moves to the next item. It is a no-op returning false unless the
// current item is Completed. Leaving the last item of the last phase
// transitions the session to Synthesizing exactly once.
func (t *Tracker) Advance() bool {
	item := t.Current()
	if item == nil || item.State != Completed {
		return false
	}

	if t.current == len(t.items)-1 {
		t.phase = Synthesizing
		t.logger.Info("all items completed, synthesizing")
		return true
	}

	t.current++
	if t.items[t.current].Kind == ContactCenterItem && t.phase == LanguagePhase {
		t.phase = ContactCenterPhase
		t.logger.Info("language phase completed")
	}
	return true
}

// Retreat steps back to the previous item of the same phase and reopens it.
// The item being left is reset to Pending when it was still in flight; its
// abandoned result is the aggregator's to discard.
func (t *Tracker) Retreat() bool {
	item := t.Current()
	if item == nil || t.current == 0 {
		return false
	}
	prev := &t.items[t.current-1]
	if prev.Kind != item.Kind {
		return false
	}

	if item.State == InProgress || item.State == AwaitingEvaluation {
		item.State = Pending
	}
	t.current--
	prev.State = InProgress
	return true
}

// JumpToSummary leaves the current phase early. It is legal only when every
// item of the phase is already Completed.
func (t *Tracker) JumpToSummary() error {
	if t.phase == Synthesizing || t.phase == Done {
		return fmt.Errorf("session is %s, no phase to leave", t.phase)
	}

	kind := t.items[t.current].Kind
	next := -1
	for i, item := range t.items {
		if item.Kind == kind && item.State != Completed {
			return fmt.Errorf("item %s is %s, phase is not finished", item.ID, item.State)
		}
		if item.Kind != kind && next == -1 && i > t.current {
			next = i
		}
	}

	if next == -1 {
		t.phase = Synthesizing
		return nil
	}
	t.current = next
	t.phase = ContactCenterPhase
	return nil
}

// FinishSynthesis marks the session done after the aggregated profile is
// produced.
func (t *Tracker) FinishSynthesis() error {
	if t.phase != Synthesizing {
		return fmt.Errorf("session is %s, not synthesizing", t.phase)
	}
	t.phase = Done
	return nil
}

// Completion reports the share of completed items as a percentage.
func (t *Tracker) Completion() float64 {
	if len(t.items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range t.items {
		if item.State == Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(t.items)) * 100
}

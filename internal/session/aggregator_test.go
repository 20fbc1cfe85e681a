package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/harx-ai/reps-assessor/internal/evaluate"
	"github.com/harx-ai/reps-assessor/internal/localstore"
	"github.com/harx-ai/reps-assessor/internal/repstore"

	"go.uber.org/zap"
)

type memLocal struct {
	mu        sync.Mutex
	pending   map[string]string
	confirmed map[string]bool
	synced    map[string]bool
	discarded []string
}

func newMemLocal() *memLocal {
	return &memLocal{
		pending:   map[string]string{},
		confirmed: map[string]bool{},
		synced:    map[string]bool{},
	}
}

func (m *memLocal) SavePending(r localstore.ResultRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[r.ID] = r.Payload
	return nil
}

func (m *memLocal) Confirm(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed[id] = true
	return nil
}

func (m *memLocal) MarkSynced(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced[id] = true
	return nil
}

func (m *memLocal) Discard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = append(m.discarded, id)
	return nil
}

type stubRemote struct {
	mu         sync.Mutex
	languages  []*repstore.LanguageAssessment
	ccPayloads []any
	err        error
	block      chan struct{}
}

func (r *stubRemote) AddLanguageAssessment(_ string, a *repstore.LanguageAssessment) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.languages = append(r.languages, a)
	return nil
}

func (r *stubRemote) AddContactCenterAssessment(_ string, assessment any) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.ccPayloads = append(r.ccPayloads, assessment)
	return nil
}

func langItem() Item {
	return Item{ID: "lang-english", Kind: LanguageItem, Name: "English"}
}

func skillItem() Item {
	return Item{ID: "skill-empathy", Kind: ContactCenterItem, Name: "Empathy", Category: "Communication"}
}

func TestRecordPersistsAndPushes(t *testing.T) {
	local := newMemLocal()
	remote := &stubRemote{}
	agg := NewAggregator(local, remote, "profile-1", zap.NewNop())

	result := &evaluate.Result{OverallScore: 82, Proficiency: "C1"}
	if err := agg.Record(langItem(), result); err != nil {
		t.Fatalf("Record: %v", err)
	}
	agg.Wait()

	if !agg.Has("lang-english") {
		t.Fatal("result must be in the map")
	}
	if _, ok := local.pending["lang-english"]; !ok {
		t.Fatal("local pending row missing")
	}
	if !local.confirmed["lang-english"] {
		t.Fatal("row should be confirmed after the push finished")
	}
	if !local.synced["lang-english"] {
		t.Fatal("row should be synced after a successful push")
	}
	if len(remote.languages) != 1 || remote.languages[0].Language != "English" || remote.languages[0].Proficiency != "C1" {
		t.Fatalf("unexpected remote payload: %+v", remote.languages)
	}
}

func TestRemoteFailureKeepsResultLocally(t *testing.T) {
	local := newMemLocal()
	remote := &stubRemote{err: errors.New("store unreachable")}
	agg := NewAggregator(local, remote, "profile-1", zap.NewNop())

	if err := agg.Record(skillItem(), &evaluate.Result{OverallScore: 70}); err != nil {
		t.Fatalf("a remote failure must not surface from Record: %v", err)
	}
	agg.Wait()

	if !agg.Has("skill-empathy") {
		t.Fatal("result must stay in the map")
	}
	if !local.confirmed["skill-empathy"] {
		t.Fatal("row should be confirmed even when the push failed")
	}
	if local.synced["skill-empathy"] {
		t.Fatal("failed push must leave the row unsynced")
	}
}

func TestRecordRejectedWhileWriteInFlight(t *testing.T) {
	local := newMemLocal()
	remote := &stubRemote{block: make(chan struct{})}
	agg := NewAggregator(local, remote, "profile-1", zap.NewNop())

	if err := agg.Record(langItem(), &evaluate.Result{OverallScore: 50}); err != nil {
		t.Fatal(err)
	}
	if err := agg.Record(langItem(), &evaluate.Result{OverallScore: 60}); err == nil {
		t.Fatal("re-submission must be rejected while a write is in flight")
	}

	close(remote.block)
	agg.Wait()

	// Once the write finished, a retry for the same item is accepted.
	remote.block = nil
	if err := agg.Record(langItem(), &evaluate.Result{OverallScore: 60}); err != nil {
		t.Fatalf("retry after the write finished: %v", err)
	}
	agg.Wait()
}

func TestRecordingOneItemNeverMutatesAnother(t *testing.T) {
	local := newMemLocal()
	agg := NewAggregator(local, &stubRemote{}, "profile-1", zap.NewNop())

	langResult := &evaluate.Result{OverallScore: 82, Proficiency: "C1"}
	skillResult := &evaluate.Result{OverallScore: 61, Proficiency: "Intermediate"}
	if err := agg.Record(langItem(), langResult); err != nil {
		t.Fatal(err)
	}
	if err := agg.Record(skillItem(), skillResult); err != nil {
		t.Fatal(err)
	}
	agg.Wait()

	got, _ := agg.Get("lang-english")
	if got.OverallScore != 82 {
		t.Fatalf("language result mutated: %v", got.OverallScore)
	}
	got, _ = agg.Get("skill-empathy")
	if got.OverallScore != 61 {
		t.Fatalf("skill result mutated: %v", got.OverallScore)
	}
}

func TestDiscardAbandoned(t *testing.T) {
	local := newMemLocal()
	agg := NewAggregator(local, &stubRemote{}, "profile-1", zap.NewNop())

	if err := agg.Record(langItem(), &evaluate.Result{OverallScore: 30}); err != nil {
		t.Fatal(err)
	}
	agg.Wait()

	agg.DiscardAbandoned("lang-english")
	if agg.Has("lang-english") {
		t.Fatal("discarded result must leave the map")
	}
	if len(local.discarded) != 1 || local.discarded[0] != "lang-english" {
		t.Fatalf("local discard not issued: %v", local.discarded)
	}
}

func TestNilRemoteConfirmsLocally(t *testing.T) {
	local := newMemLocal()
	agg := NewAggregator(local, nil, "", zap.NewNop())

	if err := agg.Record(langItem(), &evaluate.Result{OverallScore: 75}); err != nil {
		t.Fatal(err)
	}
	agg.Wait()

	if !local.confirmed["lang-english"] || !local.synced["lang-english"] {
		t.Fatal("without a remote the row is confirmed and counts as synced")
	}
}

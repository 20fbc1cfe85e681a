package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harx-ai/reps-assessor/internal/evaluate"
	"github.com/harx-ai/reps-assessor/internal/localstore"
	"github.com/harx-ai/reps-assessor/internal/repstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Local is the slice of the local store the aggregator writes.
type Local interface {
	SavePending(r localstore.ResultRecord) error
	Confirm(id string) error
	MarkSynced(id string) error
	Discard(id string) error
}

// Remote is the slice of the profile store client the aggregator pushes to.
type Remote interface {
	AddLanguageAssessment(id string, a *repstore.LanguageAssessment) error
	AddContactCenterAssessment(id string, assessment any) error
}

// Aggregator merges verdicts into the in-memory results map and the local
// store synchronously, then pushes to the remote store in the background.
// A remote failure never blocks the session; the row just stays unsynced.
type Aggregator struct {
	local     Local
	remote    Remote
	profileID string
	sessionID string
	logger    *zap.Logger
	group     errgroup.Group

	mu       sync.Mutex
	results  map[string]*evaluate.Result
	inflight map[string]struct{}
}

func NewAggregator(local Local, remote Remote, profileID string, log *zap.Logger) *Aggregator {
	return &Aggregator{
		local:     local,
		remote:    remote,
		profileID: profileID,
		sessionID: uuid.NewString(),
		logger:    log,
		results:   make(map[string]*evaluate.Result),
		inflight:  make(map[string]struct{}),
	}
}

// SessionID identifies this run in the local store.
func (a *Aggregator) SessionID() string {
	return a.sessionID
}

// Record stores the verdict for one item. The in-memory and local writes are
// synchronous; the remote push runs in the background and the row moves from
// pending to confirmed once it finishes either way. Recording is rejected
// while an earlier write for the same item is still in flight, so concurrent
// remote writes always target distinct items.
func (a *Aggregator) Record(item Item, result *evaluate.Result) error {
	a.mu.Lock()
	if _, busy := a.inflight[item.ID]; busy {
		a.mu.Unlock()
		return fmt.Errorf("a write for %s is still in flight", item.ID)
	}
	a.results[item.ID] = result
	a.inflight[item.ID] = struct{}{}
	a.mu.Unlock()

	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte("{}")
	}
	if err := a.local.SavePending(localstore.ResultRecord{
		ID:        item.ID,
		SessionID: a.sessionID,
		Kind:      item.Kind.String(),
		Name:      item.Name,
		Payload:   string(payload),
	}); err != nil {
		// The in-memory copy is authoritative for this session; losing the
		// local row only weakens crash recovery.
		a.logger.Warn("local result write failed", zap.String("item", item.ID), zap.Error(err))
	}

	a.group.Go(func() error {
		a.push(item, result)
		return nil
	})
	return nil
}

func (a *Aggregator) push(item Item, result *evaluate.Result) {
	defer func() {
		a.mu.Lock()
		delete(a.inflight, item.ID)
		a.mu.Unlock()
	}()

	err := a.pushRemote(item, result)

	if cerr := a.local.Confirm(item.ID); cerr != nil {
		a.logger.Warn("confirming local result failed", zap.String("item", item.ID), zap.Error(cerr))
	}

	if err != nil {
		a.logger.Warn("remote result push failed, result kept locally",
			zap.String("item", item.ID),
			zap.Error(err),
		)
		return
	}

	if err := a.local.MarkSynced(item.ID); err != nil {
		a.logger.Warn("marking result synced failed", zap.String("item", item.ID), zap.Error(err))
	}
	a.logger.Debug("result pushed to profile store", zap.String("item", item.ID))
}

func (a *Aggregator) pushRemote(item Item, result *evaluate.Result) error {
	if a.remote == nil {
		return nil
	}
	switch item.Kind {
	case LanguageItem:
		return a.remote.AddLanguageAssessment(a.profileID, &repstore.LanguageAssessment{
			Language:    item.Name,
			Proficiency: result.Proficiency,
			Results:     result,
		})
	case ContactCenterItem:
		return a.remote.AddContactCenterAssessment(a.profileID, map[string]any{
			"skill":    item.Name,
			"category": item.Category,
			"result":   result,
		})
	default:
		return fmt.Errorf("unknown item kind %s", item.Kind)
	}
}

// Has reports whether a result is recorded for the item. An item counts as
// complete exactly when this is true.
func (a *Aggregator) Has(itemID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.results[itemID]
	return ok
}

// Get returns the recorded result for one item.
func (a *Aggregator) Get(itemID string) (*evaluate.Result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.results[itemID]
	return r, ok
}

// Results returns a copy of the results map for synthesis.
func (a *Aggregator) Results() map[string]*evaluate.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]*evaluate.Result, len(a.results))
	for id, r := range a.results {
		out[id] = r
	}
	return out
}

// DiscardAbandoned drops the result of an item the candidate walked away
// from. Only pending local rows are removed.
func (a *Aggregator) DiscardAbandoned(itemID string) {
	a.mu.Lock()
	delete(a.results, itemID)
	a.mu.Unlock()

	if err := a.local.Discard(itemID); err != nil {
		a.logger.Warn("discarding abandoned result failed", zap.String("item", itemID), zap.Error(err))
	}
}

// Wait blocks until every background push has finished.
func (a *Aggregator) Wait() {
	_ = a.group.Wait()
}

package localstore

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPendingConfirmedLifecycle(t *testing.T) {
	s := openTestStore(t)

	rec := ResultRecord{
		ID:        "item-1",
		SessionID: "sess-1",
		Kind:      "contact_center",
		Name:      "Empathy",
		Payload:   `{"score": 82}`,
	}
	if err := s.SavePending(rec); err != nil {
		t.Fatalf("SavePending: %v", err)
	}

	got, err := s.GetResult("item-1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected pending, got %s", got.Status)
	}
	if got.Synced {
		t.Fatal("fresh result should not be synced")
	}

	if err := s.Confirm("item-1"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	got, _ = s.GetResult("item-1")
	if got.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}

	// Confirming twice fails: the row is no longer pending.
	if err := s.Confirm("item-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double confirm, got %v", err)
	}
}

func TestRetryOverwritesPending(t *testing.T) {
	s := openTestStore(t)

	rec := ResultRecord{ID: "item-1", SessionID: "sess-1", Kind: "language", Name: "English", Payload: `{"score": 40}`}
	if err := s.SavePending(rec); err != nil {
		t.Fatal(err)
	}

	rec.Payload = `{"score": 75}`
	if err := s.SavePending(rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetResult("item-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Payload != `{"score": 75}` {
		t.Fatalf("retry should overwrite the earlier verdict, got %s", got.Payload)
	}
	if got.Status != StatusPending {
		t.Fatalf("overwritten row should stay pending, got %s", got.Status)
	}
}

func TestDiscardOnlyRemovesPending(t *testing.T) {
	s := openTestStore(t)

	if err := s.SavePending(ResultRecord{ID: "a", SessionID: "s", Kind: "language", Name: "English", Payload: "{}"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePending(ResultRecord{ID: "b", SessionID: "s", Kind: "language", Name: "French", Payload: "{}"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Confirm("b"); err != nil {
		t.Fatal(err)
	}

	if err := s.Discard("a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Discard("b"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetResult("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("pending row should be gone, got %v", err)
	}
	if _, err := s.GetResult("b"); err != nil {
		t.Fatalf("confirmed row must survive a discard, got %v", err)
	}
}

func TestUnsyncedTracking(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SavePending(ResultRecord{ID: id, SessionID: "s", Kind: "contact_center", Name: id, Payload: "{}"}); err != nil {
			t.Fatal(err)
		}
		if err := s.Confirm(id); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.MarkSynced("b"); err != nil {
		t.Fatal(err)
	}

	unsynced, err := s.Unsynced()
	if err != nil {
		t.Fatal(err)
	}
	if len(unsynced) != 2 {
		t.Fatalf("expected 2 unsynced rows, got %d", len(unsynced))
	}
	for _, r := range unsynced {
		if r.ID == "b" {
			t.Fatal("synced row should not be listed")
		}
	}
}

func TestSessionResultsScopedBySession(t *testing.T) {
	s := openTestStore(t)

	if err := s.SavePending(ResultRecord{ID: "a", SessionID: "one", Kind: "language", Name: "English", Payload: "{}"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePending(ResultRecord{ID: "b", SessionID: "two", Kind: "language", Name: "English", Payload: "{}"}); err != nil {
		t.Fatal(err)
	}

	results, err := s.SessionResults("one")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Fatalf("unexpected session results: %+v", results)
	}
}

func TestAuthState(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetAuthKey("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.SetAuthKey("token", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAuthKey("token", "def"); err != nil {
		t.Fatal(err)
	}

	v, err := s.GetAuthKey("token")
	if err != nil {
		t.Fatal(err)
	}
	if v != "def" {
		t.Fatalf("expected updated value, got %q", v)
	}
}

package auth

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) GetAuthKey(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memStore) SetAuthKey(key, value string) error {
	m.values[key] = value
	return nil
}

func TestResolveFlagsWin(t *testing.T) {
	store := newMemStore()
	store.values["user_id"] = "persisted-user"
	store.values["token"] = "persisted-token"

	c, err := Resolve(Options{UserID: "flag-user", Token: "flag-token"}, store, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.UserID != "flag-user" {
		t.Fatalf("explicit option must win, got %q", c.UserID)
	}
	if c.Token != "flag-token" {
		t.Fatalf("explicit option must win, got %q", c.Token)
	}
}

func TestResolveFallsBackToPersistedState(t *testing.T) {
	store := newMemStore()
	store.values["user_id"] = "persisted-user"
	store.values["token"] = "persisted-token"
	store.values["return_url"] = "https://reps.harx.ai/wizard"

	c, err := Resolve(Options{}, store, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.UserID != "persisted-user" || c.Token != "persisted-token" {
		t.Fatalf("persisted state should fill empty options: %+v", c)
	}
	if c.ReturnURL != "https://reps.harx.ai/wizard" {
		t.Fatalf("return url not restored: %q", c.ReturnURL)
	}
}

func TestResolveStandaloneEnvDefaults(t *testing.T) {
	t.Setenv("REPS_STANDALONE_USER_ID", "env-user")
	t.Setenv("REPS_STANDALONE_TOKEN", "env-token")

	c, err := Resolve(Options{Standalone: true}, newMemStore(), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.UserID != "env-user" || c.Token != "env-token" {
		t.Fatalf("standalone env defaults not applied: %+v", c)
	}
}

func TestResolveEnvIgnoredOutsideStandalone(t *testing.T) {
	t.Setenv("REPS_STANDALONE_USER_ID", "env-user")
	t.Setenv("REPS_STANDALONE_TOKEN", "env-token")

	_, err := Resolve(Options{}, newMemStore(), zap.NewNop())
	if err == nil {
		t.Fatal("env defaults must not apply without --standalone")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected a token error, got %v", err)
	}
}

func TestResolvePersistsBack(t *testing.T) {
	store := newMemStore()

	_, err := Resolve(Options{UserID: "u", AgentID: "a", Token: "t"}, store, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for key, want := range map[string]string{"user_id": "u", "agent_id": "a", "token": "t"} {
		if store.values[key] != want {
			t.Fatalf("expected %s=%q persisted, got %q", key, want, store.values[key])
		}
	}
	if _, ok := store.values["return_url"]; ok {
		t.Fatal("empty values must not be persisted")
	}
}

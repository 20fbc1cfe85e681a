// Package auth resolves the caller's identity exactly once at startup. The
// resolved Context is handed to every component that needs it; nothing reads
// identity from ambient globals mid-flow.
package auth

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Standalone-mode env defaults, the lowest rung of the resolution order.
const (
	envStandaloneUserID  = "REPS_STANDALONE_USER_ID"
	envStandaloneAgentID = "REPS_STANDALONE_AGENT_ID"
	envStandaloneToken   = "REPS_STANDALONE_TOKEN"
)

// localstore keys for persisted identity.
const (
	keyUserID    = "user_id"
	keyAgentID   = "agent_id"
	keyToken     = "token"
	keyReturnURL = "return_url"
)

// Context is the resolved caller identity for one invocation.
type Context struct {
	UserID    string
	AgentID   string
	Token     string
	ReturnURL string
	// Standalone marks a session launched without an upstream handoff;
	// identity then comes from env defaults instead of a real login.
	Standalone bool
}

// Options carries the values provided on the command line. Empty fields fall
// through to the persisted state and, in standalone mode, the env defaults.
type Options struct {
	UserID     string
	AgentID    string
	Token      string
	ReturnURL  string
	Standalone bool
}

// Store is the slice of the local store that auth needs.
type Store interface {
	GetAuthKey(key string) (string, error)
	SetAuthKey(key, value string) error
}

// Resolve builds the Context from, in priority order: explicit options, the
// persisted local state, then standalone env defaults. Resolved values are
// written back to the store for the next invocation.
func Resolve(opts Options, store Store, log *zap.Logger) (*Context, error) {
	c := &Context{
		UserID:     opts.UserID,
		AgentID:    opts.AgentID,
		Token:      opts.Token,
		ReturnURL:  opts.ReturnURL,
		Standalone: opts.Standalone,
	}

	fill(&c.UserID, store, keyUserID)
	fill(&c.AgentID, store, keyAgentID)
	fill(&c.Token, store, keyToken)
	fill(&c.ReturnURL, store, keyReturnURL)

	if c.Standalone {
		if c.UserID == "" {
			c.UserID = os.Getenv(envStandaloneUserID)
		}
		if c.AgentID == "" {
			c.AgentID = os.Getenv(envStandaloneAgentID)
		}
		if c.Token == "" {
			c.Token = os.Getenv(envStandaloneToken)
		}
	}

	if c.Token == "" {
		return nil, errors.New("no access token: pass --token, or set " + envStandaloneToken + " with --standalone")
	}
	if c.UserID == "" {
		return nil, errors.New("no user id: pass --user-id, or set " + envStandaloneUserID + " with --standalone")
	}

	if err := persist(c, store); err != nil {
		return nil, fmt.Errorf("persisting auth state: %w", err)
	}

	log.Debug("auth context resolved",
		zap.String("user_id", c.UserID),
		zap.String("agent_id", c.AgentID),
		zap.Bool("standalone", c.Standalone),
	)

	return c, nil
}

// fill is best effort: a missing key or a broken store only loses the cache.
func fill(target *string, store Store, key string) {
	if *target != "" {
		return
	}
	if v, err := store.GetAuthKey(key); err == nil {
		*target = v
	}
}

func persist(c *Context, store Store) error {
	pairs := map[string]string{
		keyUserID:    c.UserID,
		keyAgentID:   c.AgentID,
		keyToken:     c.Token,
		keyReturnURL: c.ReturnURL,
	}
	for key, value := range pairs {
		if value == "" {
			continue
		}
		if err := store.SetAuthKey(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Package repstore is the client for the remote REPS profile store. The
// store is the durable owner of assessment results; local copies are caches
// that a successful fetch supersedes.
package repstore

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIURL = "https://api-repcreationwizard.harx.ai/api"
	userAgent     = "reps-assessor"
)

// PersistenceError marks a failed store write or read. Writes of completed
// results treat it as non-blocking: the result stays local and unsynced.
type PersistenceError struct {
	Op     string
	Status string
	Cause  error
}

func (e *PersistenceError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("profile store %s: bad status %s", e.Op, e.Status)
	}
	return fmt.Sprintf("profile store %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// UploadError marks a failed audio upload. Unlike PersistenceError it blocks
// the evaluation of the item it belongs to.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string { return fmt.Sprintf("audio upload: %v", e.Cause) }

func (e *UploadError) Unwrap() error { return e.Cause }

// Client talks to the profile store with a bearer token.
type Client struct {
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a store client. The context is used for all requests issued
// through the client.
func New(ctx context.Context, logger *zap.Logger, token, apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

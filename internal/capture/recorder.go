package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder records one audio take at a time. Starting a new take discards
// any unsaved prior one.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (string, error)
	Reset()
	Recording() bool
}

const defaultBinary = "arecord"

// ExecRecorder shells out to an external capture command that writes a file
// and stops on SIGINT. The default is arecord; sox/rec style tools work the
// same way.
type ExecRecorder struct {
	binary string
	args   []string
	dir    string
	logger *zap.Logger

	mu       sync.Mutex
	cmd      *exec.Cmd
	lastPath string
}

// NewExecRecorder validates that the recorder binary is present. A missing
// binary is a *PermissionError so callers can degrade to text-only capture.
func NewExecRecorder(binary string, args []string, dir string, log *zap.Logger) (*ExecRecorder, error) {
	if binary == "" {
		binary = defaultBinary
	}
	if dir == "" {
		dir = os.TempDir()
	}

	if _, err := exec.LookPath(binary); err != nil {
		return nil, &PermissionError{Cause: err}
	}

	return &ExecRecorder{binary: binary, args: args, dir: dir, logger: log}, nil
}

// Start begins a new take. A take already in flight is stopped and its file
// discarded first.
func (r *ExecRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.discardLocked()

	path := filepath.Join(r.dir, fmt.Sprintf("take-%s.opus", uuid.NewString()))
	args := append(append([]string{}, r.args...), path)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	if err := cmd.Start(); err != nil {
		return &PermissionError{Cause: err}
	}

	r.cmd = cmd
	r.lastPath = path

	r.logger.Debug("recording started", zap.String("path", path))
	return nil
}

// Stop ends the in-flight take and returns the recorded file path.
func (r *ExecRecorder) Stop() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return "", errors.New("no recording in progress")
	}

	if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = r.cmd.Process.Kill()
	}
	// Recorder tools exit non-zero on interrupt; the file is still valid.
	_ = r.cmd.Wait()
	r.cmd = nil

	if _, err := os.Stat(r.lastPath); err != nil {
		return "", fmt.Errorf("recording produced no file: %w", err)
	}

	r.logger.Debug("recording stopped", zap.String("path", r.lastPath))
	return r.lastPath, nil
}

// Reset discards the in-flight take, if any, and its file.
func (r *ExecRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discardLocked()
}

// Recording reports whether a take is in flight.
func (r *ExecRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

func (r *ExecRecorder) discardLocked() {
	if r.cmd != nil {
		_ = r.cmd.Process.Kill()
		_ = r.cmd.Wait()
		r.cmd = nil
	}
	if r.lastPath != "" {
		_ = os.Remove(r.lastPath)
		r.lastPath = ""
	}
}

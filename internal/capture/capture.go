// Package capture collects a candidate's response to a scenario: either
// typed text or a single recorded audio take. Both may exist transiently
// while the user decides; exactly one is submitted.
package capture

import (
	"fmt"
)

// Kind discriminates the two capture modes.
type Kind int

const (
	Text Kind = iota
	Audio
)

func (k Kind) String() string {
	if k == Audio {
		return "audio"
	}
	return "text"
}

// Capture is one collected response. For audio captures FileURI is filled
// once the recording has been uploaded; the local path is retained even
// after transcription so the original audio can still be (re)uploaded.
type Capture struct {
	Kind      Kind
	Text      string
	AudioPath string
	FileURI   string
}

// Empty reports whether there is nothing to submit.
func (c *Capture) Empty() bool {
	if c == nil {
		return true
	}
	if c.Kind == Audio {
		return c.AudioPath == ""
	}
	return c.Text == ""
}

// PermissionError reports that audio recording is unavailable (no recorder
// binary, no device access). It is non-fatal: typed text remains available.
type PermissionError struct {
	Cause error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("audio recording unavailable: %v", e.Cause)
}

func (e *PermissionError) Unwrap() error { return e.Cause }

// TranscriptionError reports a failed best-effort transcription. The caller
// leaves the text field empty and lets the user type manually.
type TranscriptionError struct {
	Cause error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Cause)
}

func (e *TranscriptionError) Unwrap() error { return e.Cause }

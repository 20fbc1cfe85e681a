package capture

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubMedia struct {
	uploadURI     string
	uploadErr     error
	transcription string
	transcribeErr error
	uploads       int
}

func (s *stubMedia) UploadAudio(string, string) (string, error) {
	s.uploads++
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.uploadURI, nil
}

func (s *stubMedia) Transcribe(string, string) (string, error) {
	if s.transcribeErr != nil {
		return "", s.transcribeErr
	}
	return s.transcription, nil
}

func TestCaptureEmpty(t *testing.T) {
	var nilCapture *Capture
	if !nilCapture.Empty() {
		t.Fatal("nil capture should be empty")
	}
	if !(&Capture{Kind: Text}).Empty() {
		t.Fatal("blank text capture should be empty")
	}
	if (&Capture{Kind: Text, Text: "hi"}).Empty() {
		t.Fatal("text capture with content should not be empty")
	}
	if (&Capture{Kind: Audio, AudioPath: "/tmp/a.opus"}).Empty() {
		t.Fatal("audio capture with a path should not be empty")
	}
}

func TestTranscribeFillsTextAndKeepsAudio(t *testing.T) {
	media := &stubMedia{uploadURI: "gs://b/a.opus", transcription: "hello"}
	c := &Capture{Kind: Audio, AudioPath: "/tmp/a.opus"}

	if err := Transcribe(c, media, "en-US", zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Text != "hello" {
		t.Fatalf("expected transcript, got %q", c.Text)
	}
	if c.AudioPath == "" || c.FileURI != "gs://b/a.opus" {
		t.Fatalf("audio handle must be retained: %+v", c)
	}
}

func TestTranscribeReusesUploadedURI(t *testing.T) {
	media := &stubMedia{uploadURI: "gs://b/a.opus", transcription: "hello"}
	c := &Capture{Kind: Audio, AudioPath: "/tmp/a.opus", FileURI: "gs://b/already.opus"}

	if err := Transcribe(c, media, "en-US", zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if media.uploads != 0 {
		t.Fatalf("expected no new upload, got %d", media.uploads)
	}
}

func TestTranscribeFailureLeavesTextEmpty(t *testing.T) {
	media := &stubMedia{uploadURI: "gs://b/a.opus", transcribeErr: errors.New("stt down")}
	c := &Capture{Kind: Audio, AudioPath: "/tmp/a.opus"}

	err := Transcribe(c, media, "en-US", zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}

	var terr *TranscriptionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TranscriptionError, got %T", err)
	}
	if c.Text != "" {
		t.Fatalf("text must stay empty on failure, got %q", c.Text)
	}
	if c.AudioPath == "" {
		t.Fatal("audio handle must be retained on failure")
	}
}

func TestTranscribeTextCaptureRejected(t *testing.T) {
	err := Transcribe(&Capture{Kind: Text, Text: "typed"}, &stubMedia{}, "en-US", zap.NewNop())
	if err == nil {
		t.Fatal("expected error for text capture")
	}
}

func TestNewExecRecorderMissingBinaryIsPermissionError(t *testing.T) {
	_, err := NewExecRecorder("definitely-not-a-real-recorder-binary", nil, t.TempDir(), zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}

	var perr *PermissionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PermissionError, got %T", err)
	}
}

package capture

import (
	"fmt"

	"go.uber.org/zap"
)

// Media is the slice of the profile store client that capture needs:
// durable upload plus speech-to-text.
type Media interface {
	UploadAudio(path, destinationName string) (string, error)
	Transcribe(fileURI, languageCode string) (string, error)
}

// Transcribe uploads the capture's audio (when not already uploaded) and
// fills Text with the transcription. It is best-effort: on failure Text is
// left empty, the audio handle is kept, and the returned error is a
// *TranscriptionError the caller may report without aborting.
func Transcribe(c *Capture, media Media, languageCode string, log *zap.Logger) error {
	if c == nil || c.Kind != Audio || c.AudioPath == "" {
		return &TranscriptionError{Cause: fmt.Errorf("no audio capture to transcribe")}
	}

	if c.FileURI == "" {
		uri, err := media.UploadAudio(c.AudioPath, "")
		if err != nil {
			return &TranscriptionError{Cause: err}
		}
		c.FileURI = uri
	}

	text, err := media.Transcribe(c.FileURI, languageCode)
	if err != nil {
		return &TranscriptionError{Cause: err}
	}

	c.Text = text
	log.Debug("audio transcribed",
		zap.String("file_uri", c.FileURI),
		zap.Int("transcript_length", len(text)),
	)
	return nil
}

package repstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
)

const (
	apiAudioUploadPath   = "/vertex/audio/upload"
	apiAudioAnalysePath  = "/vertex/audio/analyse"
	apiContactCenterPath = "/vertex/contactCenter/evaluate"
	apiTranscribePath    = "/speechToText/transcribe"
)

// UploadAudio pushes a local recording to the storage collaborator and
// returns the durable file URI the oracle endpoints accept.
func (c *Client) UploadAudio(path, destinationName string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &UploadError{Cause: err}
	}
	defer file.Close()

	if destinationName == "" {
		destinationName = filepath.Base(path)
	}

	var resp struct {
		FileURI string `json:"fileUri"`
	}

	fields := map[string]string{"destinationName": destinationName}
	if err := c.postMultipart("upload audio", c.APIURL+apiAudioUploadPath, "file", destinationName, file, fields, &resp); err != nil {
		return "", &UploadError{Cause: err}
	}

	if resp.FileURI == "" {
		return "", &UploadError{Cause: errors.New("store returned empty fileUri")}
	}

	return resp.FileURI, nil
}

// Transcribe asks the store's speech-to-text collaborator for a transcription
// of an uploaded recording.
func (c *Client) Transcribe(fileURI, languageCode string) (string, error) {
	body := map[string]string{
		"fileUri":      fileURI,
		"languageCode": languageCode,
	}

	var resp struct {
		Transcription string `json:"transcription"`
	}
	if err := c.sendJSON("transcribe audio", "POST", c.APIURL+apiTranscribePath, body, &resp); err != nil {
		return "", err
	}

	return resp.Transcription, nil
}

// AnalyseRecording runs the store's dedicated audio analysis against a
// reference text and returns the model's raw textual verdict.
func (c *Client) AnalyseRecording(fileURI, textToCompare string) (string, error) {
	body := map[string]string{
		"fileUri":       fileURI,
		"textToCompare": textToCompare,
	}

	// The endpoint proxies the model response verbatim.
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := c.sendJSON("analyse recording", "POST", c.APIURL+apiAudioAnalysePath, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &PersistenceError{Op: "analyse recording", Cause: errors.New("empty candidates in response")}
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// EvaluateContactCenter runs the store's dedicated contact center evaluation
// endpoint and decodes the untyped verdict into target.
func (c *Client) EvaluateContactCenter(fileURI string, scenarioData, target any) error {
	body := map[string]any{
		"fileUri":      fileURI,
		"scenarioData": scenarioData,
	}

	var raw map[string]any
	if err := c.sendJSON("evaluate contact center", "POST", c.APIURL+apiContactCenterPath, body, &raw); err != nil {
		return err
	}

	if err := mapstructure.WeakDecode(raw, target); err != nil {
		return &PersistenceError{Op: "evaluate contact center", Cause: fmt.Errorf("decode verdict: %w", err)}
	}

	return nil
}

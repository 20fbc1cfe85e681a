package repstore

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

func (c *Client) getJSON(op, url string, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, url, nil)
	if err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.doJSON(op, req, target)
}

func (c *Client) sendJSON(op, method, url string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &PersistenceError{Op: op, Cause: fmt.Errorf("marshal body: %w", err)}
	}

	req, err := http.NewRequestWithContext(c.ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.doJSON(op, req, target)
}

// postMultipart uploads a single file field plus plain form fields and
// decodes the JSON response into target.
func (c *Client) postMultipart(op, url, fieldName, fileName string, file io.Reader, fields map[string]string, target any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}
	if _, err = io.Copy(part, file); err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}

	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			return &PersistenceError{Op: op, Cause: err}
		}
	}
	w.Close()

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, url, &b)
	if err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.doJSON(op, req, target)
}

func (c *Client) doJSON(op string, req *http.Request, target any) error {
	c.logger.Debug("profile store request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return &PersistenceError{Op: op, Cause: err}
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return &PersistenceError{Op: op, Cause: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &PersistenceError{Op: op, Status: resp.Status}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return &PersistenceError{Op: op, Cause: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

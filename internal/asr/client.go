// Package asr talks to the speech-to-text service. The service owns the
// model lifecycle; this client only uploads audio and decodes responses.
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/httputil"
	"github.com/ppiankov/claimstream/internal/model"
)

// Client is the transcription service client
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a transcription client. Transcription of a whole
// file is slow, so timeout should be generous (minutes, not seconds).
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// Transcribe uploads the audio file and returns the transcription
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*model.Transcription, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, errs.Transport("transcribe", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.Transport("transcribe", fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var result model.Transcription
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errs.Parse("transcribe response", err)
	}

	return &result, nil
}

// Health reports whether the transcription service is up and has its
// model loaded.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Transport("health", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.Transport("health", fmt.Errorf("status %d", resp.StatusCode))
	}

	var status struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return errs.Parse("health response", err)
	}
	if !status.ModelLoaded {
		return fmt.Errorf("transcription model not loaded")
	}

	return nil
}

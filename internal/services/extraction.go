package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const extractionTimeout = 30 * time.Second

var (
	// ErrJobPending means the backend accepted the job but has no result yet.
	ErrJobPending = errors.New("extraction job still pending")
	// ErrJobFailed means the backend gave up on the document.
	ErrJobFailed = errors.New("extraction job failed")
)

// ExtractionClient talks to the remote document-extraction backend. The
// backend runs the heavy OCR/ML pipeline; this client only submits documents
// and fetches results.
type ExtractionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ExtractionResult is the backend's output for one document
type ExtractionResult struct {
	Status           string          `json:"status"`
	TemplateType     string          `json:"templateType"`
	OutputFormatName string          `json:"outputFormatName"`
	Payload          json.RawMessage `json:"payload"`
	Error            string          `json:"error,omitempty"`
}

// NewExtractionClient creates a client for the extraction backend. An empty
// baseURL disables remote extraction; callers fall back to local OCR.
func NewExtractionClient(baseURL, apiKey string) *ExtractionClient {
	return &ExtractionClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: extractionTimeout,
		},
	}
}

// Enabled reports whether a backend is configured
func (c *ExtractionClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// SubmitDocument uploads a document to the backend and returns the job id
func (c *ExtractionClient) SubmitDocument(ctx context.Context, filename, contentType string, document io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, document); err != nil {
		return "", fmt.Errorf("failed to copy document into form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/jobs", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Source-Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("extraction submit failed: HTTP %d", resp.StatusCode)
	}

	var submitResp struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitResp); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if submitResp.JobID == "" {
		return "", errors.New("extraction backend returned no job id")
	}
	return submitResp.JobID, nil
}

// FetchResult retrieves the result of a previously submitted job. Returns
// ErrJobPending while the backend is still working and ErrJobFailed when the
// backend reports a terminal failure.
func (c *ExtractionClient) FetchResult(ctx context.Context, jobID string) (*ExtractionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction poll failed: HTTP %d", resp.StatusCode)
	}

	result := &ExtractionResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("failed to decode poll response: %w", err)
	}

	switch result.Status {
	case "completed":
		return result, nil
	case "failed":
		if result.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrJobFailed, result.Error)
		}
		return nil, ErrJobFailed
	default:
		return nil, ErrJobPending
	}
}

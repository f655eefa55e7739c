package opus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mindcraftr/mindcraftr-api/internal/config"
)

// Job statuses reported by the Opus service. Anything outside this set is
// treated as "still running".
const (
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusError     = "ERROR"
	StatusCancelled = "CANCELLED"
	StatusUnknown   = "UNKNOWN"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 5 * time.Minute
	requestTimeout      = 60 * time.Second
)

// Client talks to the Opus workflow service. It is safe for concurrent
// use: the workflow ID is a per-call parameter, never client state, so
// concurrent runs of different workflows cannot contaminate each other.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	serviceKey        string
	gradingWorkflowID string
	pollInterval      time.Duration
	logger            *slog.Logger
}

// NewClient creates a Client from configuration.
//
// GradingWorkflowID is only used to pick default job titles in
// InitiateJob; which workflow actually runs is decided per call.
func NewClient(cfg config.OpusConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("opus base URL cannot be empty")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("opus service key cannot be empty")
	}

	pollInterval := defaultPollInterval
	if cfg.PollIntervalSeconds > 0 {
		pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}

	return &Client{
		httpClient:        &http.Client{Timeout: requestTimeout},
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey:        cfg.ServiceKey,
		gradingWorkflowID: cfg.GradingWorkflowID,
		pollInterval:      pollInterval,
		logger:            logger.With(slog.String("component", "opus_client")),
	}, nil
}

// do performs one request against the Opus service. Every failure mode
// (marshalling, transport, non-2xx status, undecodable body) is wrapped
// into ErrRemote so callers can treat "the call itself failed" as one
// error kind.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshaling %s %s request: %v", ErrRemote, method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: building %s %s request: %v", ErrRemote, method, path, err)
	}
	req.Header.Set("x-service-key", c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling opus service",
		slog.String("method", method),
		slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemote, method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("opus service returned error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(detail)))
		return fmt.Errorf("%w: %s %s returned %d", ErrRemote, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// An empty 2xx body is valid for some operations.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: decoding %s %s response: %v", ErrRemote, method, path, err)
	}

	return nil
}

// getWorkflowDetails fetches the workflow descriptor, including its input
// payload schema.
func (c *Client) getWorkflowDetails(ctx context.Context, workflowID string) (*workflowDetails, error) {
	var details workflowDetails
	if err := c.do(ctx, http.MethodGet, "/workflow/"+workflowID, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SchemaMapping returns the display-name -> variable-name mapping for a
// workflow's input schema. Entries without a display name are skipped.
//
// If the descriptor cannot be fetched, an empty mapping is returned
// rather than an error: encoding then uses caller keys as variable names
// directly, and a genuine name mismatch surfaces later as a job failure
// on the remote side. The descriptor is fetched fresh per call; a stale
// cache would be worse than the extra round trip.
func (c *Client) SchemaMapping(ctx context.Context, workflowID string) map[string]string {
	mapping := map[string]string{}

	details, err := c.getWorkflowDetails(ctx, workflowID)
	if err != nil {
		c.logger.Warn("could not fetch workflow schema, using direct mapping",
			slog.String("workflow_id", workflowID),
			slog.String("error", err.Error()))
		return mapping
	}

	for variable, entry := range details.JobPayloadSchema {
		if entry.DisplayName != "" {
			mapping[entry.DisplayName] = variable
		}
	}

	c.logger.Debug("resolved workflow schema mapping",
		slog.String("workflow_id", workflowID),
		slog.Int("entries", len(mapping)))
	return mapping
}

// InitiateJob creates a job shell for the given workflow and returns its
// jobExecutionId. Empty title/description default based on which of the
// two known workflows is in use; this is an explicit two-workflow special
// case, not a generic mechanism.
func (c *Client) InitiateJob(ctx context.Context, workflowID, title, description string) (string, error) {
	if title == "" {
		if workflowID == c.gradingWorkflowID {
			title = "AI Test Grader"
		} else {
			title = "AI Test Generator"
		}
	}
	if description == "" {
		if workflowID == c.gradingWorkflowID {
			description = "Grade student test submission with AI-powered analysis"
		} else {
			description = "Generate exam questions using AI"
		}
	}

	var resp initiateJobResponse
	err := c.do(ctx, http.MethodPost, "/job/initiate", initiateJobRequest{
		WorkflowID:  workflowID,
		Title:       title,
		Description: description,
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.JobExecutionID == "" {
		return "", fmt.Errorf("%w: initiate response missing jobExecutionId", ErrRemote)
	}

	c.logger.Info("job initiated",
		slog.String("job_execution_id", resp.JobExecutionID),
		slog.String("workflow_id", workflowID),
		slog.String("title", title))
	return resp.JobExecutionID, nil
}

// ExecuteJob resolves the workflow's schema mapping, encodes the inputs
// into the typed payload format, and submits them for the given job.
func (c *Client) ExecuteJob(ctx context.Context, jobExecutionID, workflowID string, inputs map[string]any) error {
	mapping := c.SchemaMapping(ctx, workflowID)
	payload := EncodeInputs(inputs, mapping)

	c.logger.Info("executing job",
		slog.String("job_execution_id", jobExecutionID),
		slog.Int("input_count", len(payload)))

	return c.do(ctx, http.MethodPost, "/job/execute", executeJobRequest{
		JobExecutionID:           jobExecutionID,
		JobPayloadSchemaInstance: payload,
	}, nil)
}

// GetStatus reads the job's current status. A response without a status
// field reports StatusUnknown, which pollers treat as still running.
func (c *Client) GetStatus(ctx context.Context, jobExecutionID string) (string, error) {
	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, "/job/"+jobExecutionID+"/status", nil, &resp); err != nil {
		return "", err
	}

	status := resp.Status
	if status == "" {
		status = StatusUnknown
	}

	c.logger.Debug("job status",
		slog.String("job_execution_id", jobExecutionID),
		slog.String("status", status))
	return status, nil
}

// GetResults fetches the raw result payload of a completed job.
func (c *Client) GetResults(ctx context.Context, jobExecutionID string) (RawResults, error) {
	var raw RawResults
	if err := c.do(ctx, http.MethodGet, "/job/"+jobExecutionID+"/results", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// RunWorkflow executes a complete workflow run: initiate the job, submit
// the inputs, poll until a terminal status, and fetch the results.
//
// Errors during initiation or execution abort immediately. During
// polling, transient status-read errors are logged and retried; they only
// become fatal when the deadline runs out. The deadline is checked at the
// top of each iteration, so an overrun can exceed maxWait by up to one
// poll interval.
func (c *Client) RunWorkflow(
	ctx context.Context,
	workflowID string,
	inputs map[string]any,
	maxWait time.Duration,
) (RawResults, error) {
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}

	jobID, err := c.InitiateJob(ctx, workflowID, "", "")
	if err != nil {
		return nil, err
	}

	if err := c.ExecuteJob(ctx, jobID, workflowID, inputs); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		status, err := c.GetStatus(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrRemote, ctx.Err())
			}
			// Transient read fault; the job may still be running fine.
			c.logger.Warn("status check failed, retrying",
				slog.String("job_execution_id", jobID),
				slog.String("error", err.Error()))
			if err := c.sleep(ctx); err != nil {
				return nil, err
			}
			continue
		}

		switch status {
		case StatusCompleted:
			return c.GetResults(ctx, jobID)
		case StatusFailed, StatusError, StatusCancelled:
			return nil, &JobFailureError{Status: status}
		}

		// Any other status string means the job is still in progress.
		if err := c.sleep(ctx); err != nil {
			return nil, err
		}
	}

	return nil, &TimeoutError{MaxWait: maxWait}
}

// sleep waits one poll interval or until the context is cancelled.
func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-time.After(c.pollInterval):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrRemote, ctx.Err())
	}
}

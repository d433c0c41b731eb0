// Package api implements the HTTP client for the remote workflow execution
// backend. The client is read-mostly: it submits runs and cancellation
// requests, then observes state exclusively through GET polls. It never
// writes back to an execution record.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sudsk/agentdeck/internal/models"
)

// DefaultTimeout bounds a single HTTP request. Poll retry policy lives in
// the monitor, not here.
const DefaultTimeout = 30 * time.Second

// Client talks to the execution backend. Authentication is an explicit
// field threaded into every request; there is deliberately no package-level
// auth state.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a backend client. baseURL is the server root, e.g.
// "http://localhost:8000/api/v1". apiKey may be empty for unauthenticated
// development servers.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Error is a non-2xx backend response. Detail carries the server's own
// message verbatim when it sent one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// createExecutionRequest is the body of the run-submission endpoint.
type createExecutionRequest struct {
	WorkflowID string                 `json:"workflow_id"`
	InputData  models.ExecutionInput  `json:"input_data"`
	Options    map[string]interface{} `json:"options,omitempty"`
}

// CreateExecution submits a run against a workflow. The backend answers
// with a pending execution carrying the server-issued id.
func (c *Client) CreateExecution(ctx context.Context, workflowID string, input models.ExecutionInput, options map[string]interface{}) (*models.Execution, error) {
	body := createExecutionRequest{
		WorkflowID: workflowID,
		InputData:  input,
		Options:    options,
	}

	var exec models.Execution
	path := fmt.Sprintf("/agentic/workflows/%s/run", url.PathEscape(workflowID))
	if err := c.do(ctx, http.MethodPost, path, body, &exec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}
	if exec.ID == "" {
		return nil, fmt.Errorf("create execution: backend returned no execution id")
	}
	return &exec, nil
}

// GetExecution fetches the current snapshot of a run. Callers replace
// their local copy wholesale with the returned record.
func (c *Client) GetExecution(ctx context.Context, executionID string) (*models.Execution, error) {
	var exec models.Execution
	path := fmt.Sprintf("/agentic/executions/%s", url.PathEscape(executionID))
	if err := c.do(ctx, http.MethodGet, path, nil, &exec); err != nil {
		return nil, fmt.Errorf("get execution %s: %w", executionID, err)
	}
	return &exec, nil
}

// CancelExecution asks the backend to cancel a run. The request is
// fire-and-forget: the effect, if any, shows up in later GetExecution
// polls as a canceled status.
func (c *Client) CancelExecution(ctx context.Context, executionID string) error {
	path := fmt.Sprintf("/agentic/executions/%s/cancel", url.PathEscape(executionID))
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("cancel execution %s: %w", executionID, err)
	}
	return nil
}

// ListOptions narrows a run-history listing.
type ListOptions struct {
	Limit      int
	Offset     int
	WorkflowID string
}

// ListExecutions returns recent runs, newest first.
func (c *Client) ListExecutions(ctx context.Context, opts ListOptions) ([]models.Execution, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.WorkflowID != "" {
		q.Set("workflow_id", opts.WorkflowID)
	}

	path := "/agentic/executions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var execs []models.Execution
	if err := c.do(ctx, http.MethodGet, path, nil, &execs); err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	return execs, nil
}

// ListWorkflows returns the workflows visible to the caller.
func (c *Client) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	var workflows []models.Workflow
	if err := c.do(ctx, http.MethodGet, "/agentic/workflows", nil, &workflows); err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return workflows, nil
}

// ToolDefinition describes a tool the backend exposes to agents.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// ListTools returns the backend's tool registry. The metrics known-tool
// set can be refreshed from this.
func (c *Client) ListTools(ctx context.Context) ([]ToolDefinition, error) {
	var tools []ToolDefinition
	if err := c.do(ctx, http.MethodGet, "/agentic/tools", nil, &tools); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return tools, nil
}

// WorkflowValidation is the backend's verdict on a workflow configuration.
type WorkflowValidation struct {
	Valid        bool   `json:"valid"`
	Message      string `json:"message"`
	WorkflowType string `json:"workflow_type,omitempty"`
}

// ValidateWorkflow asks the backend to check a workflow configuration.
// This is the server-side complement to the local graph validator.
func (c *Client) ValidateWorkflow(ctx context.Context, config map[string]interface{}) (*WorkflowValidation, error) {
	body := map[string]interface{}{"config": config}
	var result WorkflowValidation
	if err := c.do(ctx, http.MethodPost, "/agentic/validate", body, &result); err != nil {
		return nil, fmt.Errorf("validate workflow: %w", err)
	}
	return &result, nil
}

// do performs one JSON request/response round trip. out may be nil for
// endpoints with no interesting body (cancel returns 204).
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail extracts the "detail" field the backend puts in error bodies,
// falling back to the raw body.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(data))
}

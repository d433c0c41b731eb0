package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudsk/agentdeck/internal/models"
)

func TestCreateExecution(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody createExecutionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "exec-1",
			"workflow_id": "wf-1",
			"status":      "pending",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key")
	exec, err := client.CreateExecution(context.Background(), "wf-1",
		models.ExecutionInput{Query: "hello"}, map[string]interface{}{"max_iterations": 5})

	require.NoError(t, err)
	assert.Equal(t, "/agentic/workflows/wf-1/run", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "hello", gotBody.InputData.Query)
	assert.Equal(t, "exec-1", exec.ID)
	assert.Equal(t, models.StatusPending, exec.Status)
}

func TestCreateExecutionMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "pending"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.CreateExecution(context.Background(), "wf-1", models.ExecutionInput{Query: "q"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no execution id")
}

func TestGetExecution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agentic/executions/exec-9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "exec-9",
			"workflow_id": "wf-1",
			"status":      "completed",
			"result": map[string]interface{}{
				"final_output": "done",
				"decisions": []map[string]interface{}{
					{"agent": "w1", "action_type": "finalize", "content": "done"},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	exec, err := client.GetExecution(context.Background(), "exec-9")

	require.NoError(t, err)
	assert.True(t, exec.IsTerminal())
	require.NotNil(t, exec.Result)
	assert.Equal(t, "done", exec.Result.FinalOutput)
	require.Len(t, exec.Result.Decisions, 1)
	assert.Equal(t, models.ActionFinalize, exec.Result.Decisions[0].ActionType)
}

func TestCancelExecution(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	require.NoError(t, client.CancelExecution(context.Background(), "exec-2"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/agentic/executions/exec-2/cancel", gotPath)
}

func TestListExecutionsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "wf-3", r.URL.Query().Get("workflow_id"))
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "e1", "workflow_id": "wf-3", "status": "running"},
			{"id": "e2", "workflow_id": "wf-3", "status": "completed"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	execs, err := client.ListExecutions(context.Background(), ListOptions{Limit: 25, WorkflowID: "wf-3"})
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.Equal(t, models.StatusRunning, execs[0].Status)
}

func TestBackendErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Execution not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetExecution(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Execution not found", apiErr.Detail)
}

func TestValidateWorkflow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agentic/validate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"valid":         true,
			"message":       "Configuration is valid",
			"workflow_type": "agentic_supervisor",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	result, err := client.ValidateWorkflow(context.Background(), map[string]interface{}{"supervisor": map[string]interface{}{}})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "agentic_supervisor", result.WorkflowType)
}

func TestListTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"name": "web_search", "description": "Search the web"},
			{"name": "execute_code", "description": "Run Python"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "web_search", tools[0].Name)
}

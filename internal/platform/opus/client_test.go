package opus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opusStub simulates the workflow service with a scripted status
// sequence. The final status repeats once the script runs out.
type opusStub struct {
	mu            sync.Mutex
	statuses      []string
	statusCalls   int
	statusErrors  int // number of leading status calls that fail with 500
	initiated     int32
	executed      int32
	resultsCalls  int32
	schemaEntries map[string]schemaEntry
	results       map[string]any
	lastInitiate  initiateJobRequest
	lastExecute   executeJobRequest
}

func (s *opusStub) handler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-service-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/workflow/"):
			writeJSON(t, w, map[string]any{"jobPayloadSchema": s.schemaEntries})

		case r.Method == http.MethodPost && r.URL.Path == "/job/initiate":
			atomic.AddInt32(&s.initiated, 1)
			body, _ := io.ReadAll(r.Body)
			s.mu.Lock()
			_ = json.Unmarshal(body, &s.lastInitiate)
			s.mu.Unlock()
			writeJSON(t, w, map[string]any{"jobExecutionId": "job-123"})

		case r.Method == http.MethodPost && r.URL.Path == "/job/execute":
			atomic.AddInt32(&s.executed, 1)
			body, _ := io.ReadAll(r.Body)
			s.mu.Lock()
			_ = json.Unmarshal(body, &s.lastExecute)
			s.mu.Unlock()
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/status"):
			s.mu.Lock()
			call := s.statusCalls
			s.statusCalls++
			failing := call < s.statusErrors
			idx := call - s.statusErrors
			if idx >= len(s.statuses) {
				idx = len(s.statuses) - 1
			}
			var status string
			if idx >= 0 && len(s.statuses) > 0 {
				status = s.statuses[idx]
			}
			s.mu.Unlock()

			if failing {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			writeJSON(t, w, map[string]any{"status": status})

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/results"):
			atomic.AddInt32(&s.resultsCalls, 1)
			writeJSON(t, w, s.results)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	return &Client{
		httpClient:        &http.Client{Timeout: 5 * time.Second},
		baseURL:           baseURL,
		serviceKey:        "test-key",
		gradingWorkflowID: "grading-wf",
		pollInterval:      2 * time.Millisecond,
		logger:            slog.Default(),
	}
}

func TestRunWorkflowCompletes(t *testing.T) {
	stub := &opusStub{
		statuses: []string{"RUNNING", "RUNNING", StatusCompleted},
		results:  map[string]any{"answer": "42"},
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	raw, err := client.RunWorkflow(context.Background(), "gen-wf",
		map[string]any{"Exam Type": "GRE"}, time.Second)

	require.NoError(t, err)
	assert.Equal(t, "42", raw["answer"])
	assert.Equal(t, int32(1), stub.initiated)
	assert.Equal(t, int32(1), stub.executed)
	assert.Equal(t, 3, stub.statusCalls)
	assert.Equal(t, int32(1), stub.resultsCalls)
}

func TestRunWorkflowJobFailure(t *testing.T) {
	stub := &opusStub{statuses: []string{StatusFailed}}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.RunWorkflow(context.Background(), "gen-wf", nil, time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJobFailed)

	var failure *JobFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, StatusFailed, failure.Status)

	// A terminal failure stops polling immediately.
	assert.Equal(t, 1, stub.statusCalls)
	assert.Equal(t, int32(0), stub.resultsCalls)
}

func TestRunWorkflowCancelledAndError(t *testing.T) {
	for _, status := range []string{StatusError, StatusCancelled} {
		status := status
		t.Run(status, func(t *testing.T) {
			stub := &opusStub{statuses: []string{status}}
			server := httptest.NewServer(stub.handler(t))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.RunWorkflow(context.Background(), "gen-wf", nil, time.Second)
			assert.ErrorIs(t, err, ErrJobFailed)
		})
	}
}

func TestRunWorkflowTimeout(t *testing.T) {
	stub := &opusStub{statuses: []string{"RUNNING"}}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.RunWorkflow(context.Background(), "gen-wf", nil, 20*time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 20*time.Millisecond, timeout.MaxWait)
}

func TestRunWorkflowRetriesTransientStatusErrors(t *testing.T) {
	stub := &opusStub{
		statusErrors: 2,
		statuses:     []string{StatusCompleted},
		results:      map[string]any{"ok": true},
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	raw, err := client.RunWorkflow(context.Background(), "gen-wf", nil, time.Second)

	require.NoError(t, err)
	assert.Equal(t, true, raw["ok"])
	assert.Equal(t, 3, stub.statusCalls)
}

func TestRunWorkflowUnknownStatusKeepsPolling(t *testing.T) {
	stub := &opusStub{
		statuses: []string{"", "SOMETHING_NEW", StatusCompleted},
		results:  map[string]any{},
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.RunWorkflow(context.Background(), "gen-wf", nil, time.Second)

	require.NoError(t, err)
	assert.Equal(t, 3, stub.statusCalls)
}

func TestRunWorkflowContextCancellation(t *testing.T) {
	stub := &opusStub{statuses: []string{"RUNNING"}}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.pollInterval = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.RunWorkflow(ctx, "gen-wf", nil, time.Minute)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
}

func TestConcurrentRunsUseTheirOwnWorkflow(t *testing.T) {
	// One shared client against one server: each initiation gets a job
	// ID derived from the workflow it named, and the results echo the
	// workflow that owns the job. If concurrent runs leaked workflow
	// state through the client, a run would initiate, poll, or fetch
	// results under the other run's workflow ID.
	var mu sync.Mutex
	jobWorkflows := map[string]string{} // job ID -> workflow it was initiated for
	statusCalls := map[string]int{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/workflow/"):
			fmt.Fprint(w, `{"jobPayloadSchema": {}}`)

		case r.Method == http.MethodPost && r.URL.Path == "/job/initiate":
			var req initiateJobRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			jobID := "job-for-" + req.WorkflowID
			mu.Lock()
			jobWorkflows[jobID] = req.WorkflowID
			mu.Unlock()
			writeJSON(t, w, map[string]any{"jobExecutionId": jobID})

		case r.Method == http.MethodPost && r.URL.Path == "/job/execute":
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/status"):
			jobID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/job/"), "/status")
			mu.Lock()
			statusCalls[jobID]++
			done := statusCalls[jobID] > 1
			mu.Unlock()
			status := "RUNNING"
			if done {
				status = StatusCompleted
			}
			writeJSON(t, w, map[string]any{"status": status})

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/results"):
			jobID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/job/"), "/results")
			mu.Lock()
			workflowID := jobWorkflows[jobID]
			mu.Unlock()
			writeJSON(t, w, map[string]any{"workflow": workflowID})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	var wg sync.WaitGroup
	var rawA, rawB RawResults
	var errA, errB error

	wg.Add(2)
	go func() {
		defer wg.Done()
		rawA, errA = client.RunWorkflow(context.Background(), "wf-a", nil, time.Second)
	}()
	go func() {
		defer wg.Done()
		rawB, errB = client.RunWorkflow(context.Background(), "wf-b", nil, time.Second)
	}()
	wg.Wait()

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, "wf-a", rawA["workflow"])
	assert.Equal(t, "wf-b", rawB["workflow"])
	assert.Equal(t, "wf-a", jobWorkflows["job-for-wf-a"])
	assert.Equal(t, "wf-b", jobWorkflows["job-for-wf-b"])
	assert.Equal(t, 2, statusCalls["job-for-wf-a"])
	assert.Equal(t, 2, statusCalls["job-for-wf-b"])
}

func TestInitiateJobDefaultTitles(t *testing.T) {
	stub := &opusStub{}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.InitiateJob(context.Background(), "grading-wf", "", "")
	require.NoError(t, err)
	assert.Equal(t, "AI Test Grader", stub.lastInitiate.Title)

	_, err = client.InitiateJob(context.Background(), "gen-wf", "", "")
	require.NoError(t, err)
	assert.Equal(t, "AI Test Generator", stub.lastInitiate.Title)

	_, err = client.InitiateJob(context.Background(), "gen-wf", "Custom", "Custom description")
	require.NoError(t, err)
	assert.Equal(t, "Custom", stub.lastInitiate.Title)
	assert.Equal(t, "Custom description", stub.lastInitiate.Description)
}

func TestExecuteJobEncodesThroughSchema(t *testing.T) {
	stub := &opusStub{
		schemaEntries: map[string]schemaEntry{
			"var_1": {DisplayName: "Exam Type", Type: "str"},
		},
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.ExecuteJob(context.Background(), "job-123", "gen-wf", map[string]any{
		"Exam Type": "GRE",
		"Unmapped":  7,
	})
	require.NoError(t, err)

	payload := stub.lastExecute.JobPayloadSchemaInstance
	assert.Equal(t, "job-123", stub.lastExecute.JobExecutionID)
	assert.Equal(t, TypedValue{Value: "GRE", Type: TypeString}, payload["var_1"])
	assert.Equal(t, TypeInt, payload["Unmapped"].Type)
}

func TestSchemaMappingFallsBackToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	mapping := client.SchemaMapping(context.Background(), "gen-wf")
	assert.NotNil(t, mapping)
	assert.Empty(t, mapping)
}

func TestGetStatusMissingFieldIsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	status, err := client.GetStatus(context.Background(), "job-123")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, status)
}

func TestDoWrapsFailuresInErrRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetResults(context.Background(), "job-123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemote))
}

package datamerge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamergehq/datamerge-mcp/internal/jobs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient("test-key", WithBaseURL(ts.URL))
}

func TestClient_SendsBearerCredential(t *testing.T) {
	var gotAuth, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"balance": 100}`))
	})

	_, err := c.CreditsBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	_, err := c.CreditsBalance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestClient_ErrorFallsBackToStatusLine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>upstream broke</html>`))
	})

	_, err := c.CreditsBalance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_StartEnrichmentParsesJob(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/companies/enrich", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"job_id":"job-42","status":"queued"}`))
	})

	job, err := c.StartEnrichment(context.Background(), EnrichmentRequest{Domain: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "job-42", job.ID)
	assert.Equal(t, "queued", job.Status)
}

func TestClient_ParseJobCandidateFields(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantID     string
		wantStatus string
	}{
		{"canonical names", `{"job_id":"a","status":"queued"}`, "a", "queued"},
		{"camel case", `{"jobId":"b","state":"running"}`, "b", "running"},
		{"bare id", `{"id":"c","status":"queued"}`, "c", "queued"},
	}

	c := NewClient("k")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := c.parseJob([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, job.ID)
			assert.Equal(t, tt.wantStatus, job.Status)
		})
	}
}

func TestClient_JobStatusNormalizesResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/job-42/status", r.URL.Path)
		w.Write([]byte(`{
			"job_id": "job-42",
			"status": "completed",
			"results": [{"dm_id": "dm-1", "name": "Acme", "status": "not_found"}],
			"record_ids": ["rec-1"]
		}`))
	})

	job, err := c.JobStatus(context.Background(), "job-42")
	require.NoError(t, err)
	require.Len(t, job.Results, 1)
	rec := job.Results[0]
	assert.Equal(t, "dm-1", rec["datamerge_id"])
	assert.Equal(t, "Acme", rec["display_name"])
	// Identifying data present, so the spurious not_found is corrected.
	assert.Equal(t, "success", rec["status"])
	assert.Equal(t, []string{"rec-1"}, job.RecordIDs)
	assert.Equal(t, jobs.StateSucceeded, jobs.Classify(job))
}

func TestClient_GetCompanyUnwrapsRecordEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/dm-9", r.URL.Path)
		w.Write([]byte(`{"record":{"legal_name":"Acme Inc","dm_id":"dm-9"}}`))
	})

	rec, err := c.GetCompany(context.Background(), "dm-9")
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", rec["legal_name"])
	assert.Equal(t, "dm-9", rec["datamerge_id"])
}

func TestClient_GetHierarchyNormalizesAllRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/dm-9/hierarchy", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("depth"))
		w.Write([]byte(`{
			"company": {"dm_id": "dm-9", "name": "Acme"},
			"parents": [{"dm_id": "dm-1", "name": "Acme Holdings"}],
			"children": [{"dm_id": "dm-20", "name": "Acme Labs"}]
		}`))
	})

	tree, err := c.GetHierarchy(context.Background(), "dm-9", 2)
	require.NoError(t, err)

	company := tree["company"].(map[string]any)
	assert.Equal(t, "dm-9", company["datamerge_id"])
	parents := tree["parents"].([]map[string]any)
	require.Len(t, parents, 1)
	assert.Equal(t, "Acme Holdings", parents[0]["display_name"])
}

func TestClient_ListsToleratesWrappedAndBareArrays(t *testing.T) {
	for _, body := range []string{
		`{"lists":[{"id":"l1","name":"prospects"}]}`,
		`[{"id":"l1","name":"prospects"}]`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		lists, err := c.ListLists(context.Background())
		require.NoError(t, err)
		require.Len(t, lists, 1)
		assert.Equal(t, "prospects", lists[0]["name"])
	}
}

func TestClient_HealthCheck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"ok":true}`))
	})
	assert.True(t, c.HealthCheck(context.Background()))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.False(t, c.HealthCheck(context.Background()))

	// Unreachable endpoint is swallowed too.
	c = NewClient("k", WithBaseURL("http://127.0.0.1:1"))
	assert.False(t, c.HealthCheck(context.Background()))
}

func TestClient_DeleteOperations(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.RemoveListItem(context.Background(), "l1", "item-3"))
	require.NoError(t, c.DeleteList(context.Background(), "l1"))
	assert.Equal(t, []string{"/lists/l1/items/item-3", "/lists/l1"}, paths)
}

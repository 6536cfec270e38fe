package datamerge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/datamergehq/datamerge-mcp/internal/jobs"
)

// EnrichmentRequest selects companies to enrich. At least one selector must
// be set; the tool layer validates that before calling.
type EnrichmentRequest struct {
	Domain      string   `json:"domain,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	Domains     []string `json:"domains,omitempty"`
}

// StartEnrichment submits a company enrichment job.
func (c *Client) StartEnrichment(ctx context.Context, req EnrichmentRequest) (*jobs.Job, error) {
	payload, err := c.do(ctx, http.MethodPost, "/companies/enrich", req)
	if err != nil {
		return nil, err
	}
	return c.parseJob(payload)
}

// StartLookalike submits a lookalike company search job.
func (c *Client) StartLookalike(ctx context.Context, criteria map[string]any) (*jobs.Job, error) {
	payload, err := c.do(ctx, http.MethodPost, "/companies/lookalike", criteria)
	if err != nil {
		return nil, err
	}
	return c.parseJob(payload)
}

// StartContactSearch submits a contact search job.
func (c *Client) StartContactSearch(ctx context.Context, criteria map[string]any) (*jobs.Job, error) {
	payload, err := c.do(ctx, http.MethodPost, "/contacts/search", criteria)
	if err != nil {
		return nil, err
	}
	return c.parseJob(payload)
}

// StartContactEnrich submits a contact enrichment job.
func (c *Client) StartContactEnrich(ctx context.Context, criteria map[string]any) (*jobs.Job, error) {
	payload, err := c.do(ctx, http.MethodPost, "/contacts/enrich", criteria)
	if err != nil {
		return nil, err
	}
	return c.parseJob(payload)
}

// JobStatus fetches the current snapshot for any asynchronous job. All job
// kinds share one status endpoint; the path template is configuration on
// the client.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*jobs.Job, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf(c.jobStatusPath, pathEscape(jobID)), nil)
	if err != nil {
		return nil, err
	}
	return c.parseJob(payload)
}

// GetCompany looks up one company record by DataMerge id or upstream record
// id (whichever the caller has).
func (c *Client) GetCompany(ctx context.Context, id string) (map[string]any, error) {
	payload, err := c.do(ctx, http.MethodGet, "/companies/"+pathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	raw, err := decodeMap(payload)
	if err != nil {
		return nil, err
	}
	return NormalizeRecord(recordFrom(raw)), nil
}

// GetHierarchy fetches a company's corporate family tree. Each of the
// company, parents and children records is normalized in place.
func (c *Client) GetHierarchy(ctx context.Context, datamergeID string, depth int) (map[string]any, error) {
	values := url.Values{}
	queryInt(values, "depth", depth)
	path := "/companies/" + pathEscape(datamergeID) + "/hierarchy"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	raw, err := decodeMap(payload)
	if err != nil {
		return nil, err
	}

	if company, ok := raw["company"].(map[string]any); ok {
		raw["company"] = NormalizeRecord(company)
	}
	for _, key := range []string{"parents", "children"} {
		if records := toRecordSlice(raw[key]); records != nil {
			normalized := make([]map[string]any, len(records))
			for i, rec := range records {
				normalized[i] = NormalizeRecord(rec)
			}
			raw[key] = normalized
		}
	}
	return raw, nil
}

// GetContact looks up one contact record by upstream record id.
func (c *Client) GetContact(ctx context.Context, recordID string) (map[string]any, error) {
	payload, err := c.do(ctx, http.MethodGet, "/contacts/"+pathEscape(recordID), nil)
	if err != nil {
		return nil, err
	}
	raw, err := decodeMap(payload)
	if err != nil {
		return nil, err
	}
	return NormalizeRecord(recordFrom(raw)), nil
}

// ListLists returns the caller's saved lists.
func (c *Client) ListLists(ctx context.Context) ([]map[string]any, error) {
	payload, err := c.do(ctx, http.MethodGet, "/lists", nil)
	if err != nil {
		return nil, err
	}
	// Some revisions wrap the array, some return it bare.
	if wrapped := gjson.GetBytes(payload, "lists"); wrapped.IsArray() {
		payload = []byte(wrapped.Raw)
	}
	var lists []map[string]any
	if err := json.Unmarshal(payload, &lists); err != nil {
		return nil, fmt.Errorf("datamerge: decode lists response: %w", err)
	}
	return lists, nil
}

// CreateList creates a named list and returns the upstream list object.
func (c *Client) CreateList(ctx context.Context, name string) (map[string]any, error) {
	payload, err := c.do(ctx, http.MethodPost, "/lists", map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	return decodeMap(payload)
}

// GetListItems returns the records stored in a list.
func (c *Client) GetListItems(ctx context.Context, listID string) ([]map[string]any, error) {
	payload, err := c.do(ctx, http.MethodGet, "/lists/"+pathEscape(listID)+"/items", nil)
	if err != nil {
		return nil, err
	}
	if wrapped := gjson.GetBytes(payload, "items"); wrapped.IsArray() {
		payload = []byte(wrapped.Raw)
	}
	var items []map[string]any
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("datamerge: decode list items response: %w", err)
	}
	for i, item := range items {
		items[i] = NormalizeRecord(item)
	}
	return items, nil
}

// RemoveListItem removes one record from a list.
func (c *Client) RemoveListItem(ctx context.Context, listID, itemID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/lists/"+pathEscape(listID)+"/items/"+pathEscape(itemID), nil)
	return err
}

// DeleteList deletes an entire list.
func (c *Client) DeleteList(ctx context.Context, listID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/lists/"+pathEscape(listID), nil)
	return err
}

// CreditsBalance returns the account's remaining API credits.
func (c *Client) CreditsBalance(ctx context.Context) (map[string]any, error) {
	payload, err := c.do(ctx, http.MethodGet, "/credits/balance", nil)
	if err != nil {
		return nil, err
	}
	return decodeMap(payload)
}

// HealthCheck probes the authenticated diagnostic endpoint. Failures of any
// kind (network, non-2xx) are reported as false, never as an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err == nil
}

// parseJob extracts a job snapshot from a loosely-typed upstream payload.
// Field names vary across API revisions, so each logical attribute is read
// from an ordered candidate list. Result records are normalized here so
// every downstream consumer sees the same shape.
func (c *Client) parseJob(payload []byte) (*jobs.Job, error) {
	raw, err := decodeMap(payload)
	if err != nil {
		return nil, err
	}

	job := &jobs.Job{
		ID:     firstString(raw, "job_id", "jobId", "id"),
		Status: firstString(raw, "status", "state"),
	}

	for _, key := range []string{"results", "records"} {
		if records := toRecordSlice(raw[key]); len(records) > 0 {
			job.Results = make([]map[string]any, len(records))
			for i, rec := range records {
				job.Results[i] = NormalizeRecord(rec)
			}
			break
		}
	}

	for _, key := range []string{"record_ids", "recordIds"} {
		if v, ok := raw[key]; ok {
			if ids := cast.ToStringSlice(v); len(ids) > 0 {
				job.RecordIDs = ids
				break
			}
		}
	}

	return job, nil
}

package client

import (
	"context"
	"net/http"

	"shortsmaker/generator"
	"shortsmaker/jobs"
)

// JobStatus fetches the current job slot snapshot.
func (c *Client) JobStatus(ctx context.Context) (*jobs.Status, error) {
	var status jobs.Status
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/jobs/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Generate queues a generation run. The server answers with the job
// snapshot; a held slot comes back as a 409 error.
func (c *Client) Generate(ctx context.Context, req generator.Request) (*jobs.Status, error) {
	var status jobs.Status
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/generate", req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Render queues a render of the stored project base.
func (c *Client) Render(ctx context.Context, base string, burnSubs bool) (*jobs.Status, error) {
	var status jobs.Status
	payload := map[string]bool{"burn_subs": burnSubs}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/projects/"+base+"/render", payload, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

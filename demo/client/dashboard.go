package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"shortsmaker/topics"
	"shortsmaker/types"
)

// Dashboard fetches the combined shorts and translator project cards.
func (c *Client) Dashboard(ctx context.Context) ([]types.DashboardCard, error) {
	var cards []types.DashboardCard
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/dashboard", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// SuggestTopics fetches fresh, deduplicated topic suggestions from an RSS
// feed preset or URL. Empty feed and zero count use the server defaults.
func (c *Client) SuggestTopics(ctx context.Context, feed string, count int) ([]*topics.Suggestion, error) {
	query := url.Values{}
	if feed != "" {
		query.Set("feed", feed)
	}
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}
	path := "/api/topics/suggest"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var suggestions []*topics.Suggestion
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

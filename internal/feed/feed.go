// Package feed fetches the real-estate news RSS feed consumed by the weekly
// digest campaign.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Item is one feed entry; the digest consumes only title and link.
type Item struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type rssDocument struct {
	Channel struct {
		Items []Item `xml:"item"`
	} `xml:"channel"`
}

// Client fetches and parses an RSS 2.0 feed.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a feed client for the given URL. A nil httpClient selects
// a default with a 15 second timeout.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{url: url, httpClient: httpClient}
}

// Top returns up to n items from the head of the feed, in feed order.
func (c *Client) Top(ctx context.Context, n int) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("feed fetch: unexpected status %s", resp.Status)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("feed parse: %w", err)
	}

	items := doc.Channel.Items
	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		items[i].Link = strings.TrimSpace(items[i].Link)
	}
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items, nil
}

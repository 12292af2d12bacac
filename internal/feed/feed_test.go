package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Недвижимость</title>
    <item><title> Ставки по ипотеке снизились </title><link>https://example.com/1</link></item>
    <item><title>Новый ЖК на побережье</title><link>https://example.com/2</link></item>
    <item><title>Обзор рынка</title><link>https://example.com/3</link></item>
    <item><title>Четвертая новость</title><link>https://example.com/4</link></item>
  </channel>
</rss>`

func TestTopReturnsLeadingItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.Top(context.Background(), 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Title != "Ставки по ипотеке снизились" {
		t.Fatalf("title not trimmed: %q", items[0].Title)
	}
	if items[2].Link != "https://example.com/3" {
		t.Fatalf("unexpected third link: %q", items[2].Link)
	}
}

func TestTopFewerItemsThanRequested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<rss><channel><item><title>one</title><link>l</link></item></channel></rss>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.Top(context.Background(), 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
}

func TestTopErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if _, err := c.Top(context.Background(), 3); err == nil {
		t.Fatal("expected error on 502")
	}
}

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/claimstream/internal/cache"
)

const cannedResults = `{"items": [
	{"title": "First", "link": "https://a.example.com", "snippet": "snippet one"},
	{"title": "Second", "link": "https://b.example.com", "snippet": "snippet two"},
	{"title": "Third", "link": "https://c.example.com", "snippet": "snippet three"}
]}`

func stubSearchServer(t *testing.T, handler http.HandlerFunc) func() {
	t.Helper()
	srv := httptest.NewServer(handler)
	orig := searchBaseURL
	searchBaseURL = srv.URL
	return func() {
		searchBaseURL = orig
		srv.Close()
	}
}

func TestSearch_MapsItemsToEvidence(t *testing.T) {
	cleanup := stubSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "test claim" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("num"); got != "3" {
			t.Errorf("num = %q", got)
		}
		w.Write([]byte(cannedResults))
	})
	defer cleanup()

	c := NewClient("key", "cx", time.Second, 1, nil, 0)
	items, err := c.Search(context.Background(), "test claim", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Rank != 1 || items[0].RelevanceScore != 1.0 {
		t.Errorf("first item rank/relevance: %+v", items[0])
	}
	if items[2].Rank != 3 || items[2].RelevanceScore != 1.0/3.0 {
		t.Errorf("third item rank/relevance: %+v", items[2])
	}
	if items[1].URL != "https://b.example.com" {
		t.Errorf("url mapping broken: %q", items[1].URL)
	}
}

func TestSearch_CapsRequestedResults(t *testing.T) {
	cleanup := stubSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("num"); got != "10" {
			t.Errorf("expected server cap of 10, got %q", got)
		}
		w.Write([]byte(`{"items": []}`))
	})
	defer cleanup()

	c := NewClient("key", "cx", time.Second, 1, nil, 0)
	items, err := c.Search(context.Background(), "anything", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result list, got %d", len(items))
	}
}

func TestSearch_UsesCache(t *testing.T) {
	calls := 0
	cleanup := stubSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(cannedResults))
	})
	defer cleanup()

	c := NewClient("key", "cx", time.Second, 1, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "cached claim", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("expected a single upstream call, got %d", calls)
	}
}

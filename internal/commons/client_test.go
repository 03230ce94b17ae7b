package commons

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type recordedQuery struct {
	mu      sync.Mutex
	queries []string
}

func (r *recordedQuery) add(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, kind)
}

func (r *recordedQuery) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(ts.URL, ts.Client(), Options{UserAgent: "curio-test/1.0"})
}

func TestResolveExact_SendsQueryAndPrefersThumbnail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("titles") != "File:IRON_PILLAR_DELHI.jpg" {
			t.Fatalf("unexpected titles query: %s", r.URL.RawQuery)
		}
		if q.Get("prop") != "imageinfo" || q.Get("iiprop") != "url" || q.Get("iiurlwidth") != "800" {
			t.Fatalf("unexpected imageinfo projection: %s", r.URL.RawQuery)
		}
		if q.Get("redirects") != "1" || q.Get("format") != "json" {
			t.Fatalf("unexpected flags: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("User-Agent"); got != "curio-test/1.0" {
			t.Fatalf("unexpected user agent: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"pages":{"123":{"imageinfo":[{"thumburl":"https://upload.wikimedia.org/thumb/800px-IRON.jpg","url":"https://upload.wikimedia.org/IRON.jpg"}]}}}}`))
	}))
	defer ts.Close()

	got, ok := newTestClient(ts).ResolveExact(context.Background(), "IRON_PILLAR_DELHI.jpg")
	if !ok {
		t.Fatal("expected exact match")
	}
	if got != "https://upload.wikimedia.org/thumb/800px-IRON.jpg" {
		t.Fatalf("expected thumbnail URL, got %s", got)
	}
}

func TestResolveExact_FallsBackToRawURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":{"9":{"imageinfo":[{"url":"https://upload.wikimedia.org/raw.jpg"}]}}}}`))
	}))
	defer ts.Close()

	got, ok := newTestClient(ts).ResolveExact(context.Background(), "raw.jpg")
	if !ok || got != "https://upload.wikimedia.org/raw.jpg" {
		t.Fatalf("unexpected result: %q %v", got, ok)
	}
}

func TestResolveExact_AbsentCases(t *testing.T) {
	bodies := map[string]string{
		"missing page":  `{"query":{"pages":{"-1":{"missing":""}}}}`,
		"no imageinfo":  `{"query":{"pages":{"5":{}}}}`,
		"no query":      `{"batchcomplete":""}`,
		"malformed":     `{"query":`,
		"empty pages":   `{"query":{"pages":{}}}`,
		"empty strings": `{"query":{"pages":{"5":{"imageinfo":[{"thumburl":"","url":""}]}}}}`,
	}
	for name, body := range bodies {
		body := body
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		got, ok := newTestClient(ts).ResolveExact(context.Background(), "x.jpg")
		ts.Close()
		if ok {
			t.Fatalf("%s: expected absent, got %q", name, got)
		}
	}
}

func TestResolveExact_EmptyFilenameSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	if _, ok := newTestClient(ts).ResolveExact(context.Background(), ""); ok {
		t.Fatal("expected absent for empty filename")
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestResolveExact_ServerErrorIsAbsent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	if _, ok := newTestClient(ts).ResolveExact(context.Background(), "x.jpg"); ok {
		t.Fatal("expected absent on server error")
	}
}

func TestResolveBySearch_IssuesSingleNormalizedQuery(t *testing.T) {
	var rec recordedQuery
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rec.add(q.Get("gsrsearch"))
		if q.Get("generator") != "search" || q.Get("gsrnamespace") != "6" || q.Get("gsrlimit") != "1" {
			t.Fatalf("unexpected search query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"query":{"pages":{"77":{"imageinfo":[{"thumburl":"https://upload.wikimedia.org/thumb/fort.jpg"}]}}}}`))
	}))
	defer ts.Close()

	got, ok := newTestClient(ts).ResolveBySearch(context.Background(), "the_ancient_Fort_of_India.jpg")
	if !ok || got != "https://upload.wikimedia.org/thumb/fort.jpg" {
		t.Fatalf("unexpected result: %q %v", got, ok)
	}
	queries := rec.list()
	if len(queries) != 1 {
		t.Fatalf("expected exactly one search query, got %d", len(queries))
	}
	if queries[0] != "ancient Fort India" {
		t.Fatalf("unexpected search term: %q", queries[0])
	}
}

func TestResolveBySearch_ShortTermIssuesNoQuery(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	if _, ok := newTestClient(ts).ResolveBySearch(context.Background(), "of_a.jpg"); ok {
		t.Fatal("expected absent for short term")
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected zero queries, got %d", n)
	}
}

func TestResolveFromReference_ExactBeforeSearch(t *testing.T) {
	var rec recordedQuery
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("generator") == "search" {
			rec.add("search")
			_, _ = w.Write([]byte(`{"query":{"pages":{"1":{"imageinfo":[{"thumburl":"https://upload.wikimedia.org/thumb/found.jpg"}]}}}}`))
			return
		}
		rec.add("exact")
		_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"missing":""}}}}`))
	}))
	defer ts.Close()

	got, ok := newTestClient(ts).ResolveFromReference(context.Background(), "https://upload.wikimedia.org/wikipedia/commons/1/1a/Lost_Temple_Ruins.jpg")
	if !ok || got != "https://upload.wikimedia.org/thumb/found.jpg" {
		t.Fatalf("unexpected result: %q %v", got, ok)
	}
	if order := strings.Join(rec.list(), ","); order != "exact,search" {
		t.Fatalf("unexpected call order: %s", order)
	}
}

func TestResolveFromReference_ExactHitSkipsSearch(t *testing.T) {
	var rec recordedQuery
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("generator") == "search" {
			rec.add("search")
		} else {
			rec.add("exact")
		}
		_, _ = w.Write([]byte(`{"query":{"pages":{"1":{"imageinfo":[{"thumburl":"https://upload.wikimedia.org/thumb/hit.jpg"}]}}}}`))
	}))
	defer ts.Close()

	if _, ok := newTestClient(ts).ResolveFromReference(context.Background(), "https://x/File:Hit.jpg"); !ok {
		t.Fatal("expected exact hit")
	}
	if order := strings.Join(rec.list(), ","); order != "exact" {
		t.Fatalf("unexpected call order: %s", order)
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	for i := 0; i < 8; i++ {
		c.ResolveExact(context.Background(), "x.jpg")
	}
	if n := calls.Load(); n != 5 {
		t.Fatalf("expected breaker to stop calls after 5 failures, got %d calls", n)
	}
}

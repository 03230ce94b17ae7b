package resolve_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/glabrego/curio-cli/internal/commons"
	"github.com/glabrego/curio-cli/internal/imagecache"
	"github.com/glabrego/curio-cli/internal/resolve"
	"github.com/glabrego/curio-cli/internal/storage"
)

func TestPipeline_IronPillarResolvesAndSurvivesRestart(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpg.Bytes())
	}))
	defer imgSrv.Close()
	thumb := imgSrv.URL + "/thumb/800px-IRON_PILLAR_DELHI.jpg"

	var apiCalls atomic.Int32
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		if got := r.URL.Query().Get("titles"); got != "File:IRON_PILLAR_DELHI.jpg" {
			t.Errorf("unexpected titles param %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"pages":{"123":{"imageinfo":[{"thumburl":"` + thumb + `","url":"` + imgSrv.URL + `/orig.jpg"}]}}}}`))
	}))
	defer apiSrv.Close()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "curio.db")
	const id = "sample-iron-pillar"
	const ref = "https://upload.wikimedia.org/wikipedia/commons/5/5f/IRON_PILLAR_DELHI.jpg"

	openPipeline := func() (*storage.Repository, *imagecache.Store, *resolve.Orchestrator) {
		repo, err := storage.NewRepository(dbPath)
		if err != nil {
			t.Fatalf("NewRepository returned error: %v", err)
		}
		if err := repo.Init(ctx); err != nil {
			t.Fatalf("Init returned error: %v", err)
		}
		store, err := imagecache.Load(ctx, repo, nil)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		client := commons.NewClient(apiSrv.URL, apiSrv.Client(), commons.Options{})
		prober := resolve.NewHTTPProber(imgSrv.Client(), "")
		return repo, store, resolve.NewOrchestrator(store, client, prober, nil)
	}

	repo, _, orch := openPipeline()
	res, err := orch.Resolve(ctx, id, ref, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !res.Resolved() || res.URL != thumb || res.Source != resolve.SourceMetadata {
		t.Fatalf("unexpected result: %+v", res)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	repo, store, orch := openPipeline()
	defer repo.Close()
	if got, ok := store.Get(id); !ok || got != thumb {
		t.Fatalf("expected persisted entry %q, got %q (%v)", thumb, got, ok)
	}
	res, err = orch.Resolve(ctx, id, ref, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Source != resolve.SourceCache {
		t.Fatalf("expected cache hit after restart, got %+v", res)
	}
	if n := apiCalls.Load(); n != 1 {
		t.Fatalf("expected a single API call across restarts, got %d", n)
	}
}

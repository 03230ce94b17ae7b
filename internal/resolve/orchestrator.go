// Package resolve turns a content item's image reference into a URL that
// actually loads, and remembers the answer.
package resolve

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/glabrego/curio-cli/internal/commons"
	"github.com/glabrego/curio-cli/internal/logger"
)

type Store interface {
	Get(contentID string) (string, bool)
	Set(ctx context.Context, contentID, url string) bool
}

type MetadataResolver interface {
	ResolveExact(ctx context.Context, filename string) (string, bool)
	ResolveBySearch(ctx context.Context, keywords string) (string, bool)
}

// Prober reports whether url can be fetched and decoded as an image.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// Observer receives each phase an attempt enters. It may be called from a
// goroutine other than the caller's and is never called once the caller's
// context is done. A caller that joins a lookup already in flight sees the
// phases from the moment it joined.
type Observer func(Result)

type Orchestrator struct {
	store  Store
	meta   MetadataResolver
	prober Prober
	log    logger.Logger
	group  singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the shared network run for one content id. It is cancelled when
// the last caller waiting on it goes away.
type flight struct {
	ctx       context.Context
	cancel    context.CancelFunc
	refs      int
	nextID    int
	observers map[int]func(Phase)
}

func NewOrchestrator(store Store, meta MetadataResolver, prober Prober, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		store:   store,
		meta:    meta,
		prober:  prober,
		log:     log,
		flights: make(map[string]*flight),
	}
}

type outcome struct {
	url    string
	source Source
}

// Resolve walks cache -> exact lookup -> search -> direct load for one item.
// Exhausting every source yields a PhaseFailed result, not an error. The only
// error returned is ctx.Err() when the caller goes away; in that case nothing
// is written to the store.
//
// Concurrent calls for the same content id share one run of the network work;
// each caller still applies the outcome only if its own context is live. The
// run stops once every caller sharing it is gone.
func (o *Orchestrator) Resolve(ctx context.Context, contentID, ref string, observe Observer) (Result, error) {
	emit := func(phase Phase, url string, source Source) Result {
		r := Result{ContentID: contentID, Phase: phase, URL: url, Source: source}
		if observe != nil && ctx.Err() == nil {
			observe(r)
		}
		return r
	}

	if err := ctx.Err(); err != nil {
		return Result{ContentID: contentID}, err
	}

	emit(PhaseCheckingCache, "", SourceNone)
	if url, ok := o.store.Get(contentID); ok {
		return emit(PhaseResolved, url, SourceCache), nil
	}
	if !LooksResolvable(ref) {
		o.log.Debug("image reference not resolvable", logger.String("content_id", contentID))
		return emit(PhaseFailed, "", SourceNone), nil
	}

	ch, leave := o.join(ctx, contentID, ref, func(p Phase) { emit(p, "", SourceNone) })
	defer leave()

	var out outcome
	select {
	case <-ctx.Done():
		return Result{ContentID: contentID}, ctx.Err()
	case res := <-ch:
		out = res.Val.(outcome)
	}
	if err := ctx.Err(); err != nil {
		return Result{ContentID: contentID}, err
	}

	if out.url == "" {
		o.log.Debug("image resolution exhausted", logger.String("content_id", contentID))
		return emit(PhaseFailed, "", SourceNone), nil
	}
	if !o.store.Set(ctx, contentID, out.url) {
		o.log.Warn("resolved image kept in memory only", logger.String("content_id", contentID))
	}
	return emit(PhaseResolved, out.url, out.source), nil
}

// join attaches the caller to the run for contentID, starting one when none
// is in flight. leave must be called once the caller stops waiting.
func (o *Orchestrator) join(ctx context.Context, contentID, ref string, phase func(Phase)) (<-chan singleflight.Result, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	f, ok := o.flights[contentID]
	if !ok {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: runCtx, cancel: cancel, observers: make(map[int]func(Phase))}
		o.flights[contentID] = f
	}
	f.refs++
	id := f.nextID
	f.nextID++
	f.observers[id] = phase

	ch := o.group.DoChan(contentID, func() (interface{}, error) {
		out := o.run(f.ctx, contentID, ref, f.broadcast(&o.mu))
		o.mu.Lock()
		if o.flights[contentID] == f {
			delete(o.flights, contentID)
		}
		o.mu.Unlock()
		f.cancel()
		return out, nil
	})

	leave := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(f.observers, id)
		f.refs--
		if f.refs > 0 {
			return
		}
		f.cancel()
		if o.flights[contentID] == f {
			delete(o.flights, contentID)
			// Later callers start a fresh run instead of joining this one.
			o.group.Forget(contentID)
		}
	}
	return ch, leave
}

func (f *flight) broadcast(mu *sync.Mutex) func(Phase) {
	return func(p Phase) {
		mu.Lock()
		observers := make([]func(Phase), 0, len(f.observers))
		for _, fn := range f.observers {
			observers = append(observers, fn)
		}
		mu.Unlock()
		for _, fn := range observers {
			fn(p)
		}
	}
}

func (o *Orchestrator) run(ctx context.Context, contentID, ref string, phase func(Phase)) outcome {
	log := o.log.With(logger.String("content_id", contentID))

	phase(PhaseQueryingExact)
	filename := commons.ExtractFilename(ref)
	candidate, ok := "", false
	if filename != "" {
		candidate, ok = o.meta.ResolveExact(ctx, filename)
		if ctx.Err() != nil {
			return outcome{}
		}
		if !ok {
			phase(PhaseQueryingSearch)
			candidate, ok = o.meta.ResolveBySearch(ctx, filename)
		}
	}
	if ctx.Err() != nil {
		return outcome{}
	}
	if ok {
		err := o.prober.Probe(ctx, candidate)
		if err == nil {
			return outcome{url: candidate, source: SourceMetadata}
		}
		log.Debug("metadata candidate did not load", logger.String("url", candidate), logger.Error(err))
	}

	if ctx.Err() != nil {
		return outcome{}
	}
	phase(PhaseVerifyingDirect)
	if err := o.prober.Probe(ctx, ref); err != nil {
		log.Debug("direct reference did not load", logger.Error(err))
		return outcome{}
	}
	return outcome{url: ref, source: SourceDirect}
}

// LooksResolvable reports whether ref is worth sending through the pipeline.
func LooksResolvable(ref string) bool {
	return strings.HasPrefix(ref, "http")
}

// Package preload warms the image cache for cards the user has not reached yet.
package preload

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/glabrego/curio-cli/internal/logger"
	"github.com/glabrego/curio-cli/internal/resolve"
)

// Target is one feed entry as the scheduler sees it.
type Target struct {
	ContentID string
	ImageRef  string
}

type Resolver interface {
	Resolve(ctx context.Context, contentID, ref string, observe resolve.Observer) (resolve.Result, error)
}

type Cache interface {
	Get(contentID string) (string, bool)
}

type Stats struct {
	Resolved int64
	Failed   int64
	Canceled int64
}

type Scheduler struct {
	resolver Resolver
	cache    Cache
	log      logger.Logger
	sem      *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}

	resolved atomic.Int64
	failed   atomic.Int64
	canceled atomic.Int64
}

func NewScheduler(resolver Resolver, cache Cache, concurrency int, log logger.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		resolver: resolver,
		cache:    cache,
		log:      log,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]struct{}),
	}
}

// Schedule queues resolution for items (fromIndex, fromIndex+windowSize) and
// returns how many were queued. It never blocks on network work.
func (s *Scheduler) Schedule(items []Target, fromIndex, windowSize int) int {
	return s.scheduleRange(items, fromIndex+1, fromIndex+windowSize)
}

// ScheduleHead queues the first n items.
func (s *Scheduler) ScheduleHead(items []Target, n int) int {
	return s.scheduleRange(items, 0, n)
}

func (s *Scheduler) scheduleRange(items []Target, start, end int) int {
	if start < 0 {
		start = 0
	}
	if end > len(items) {
		end = len(items)
	}
	queued := 0
	for i := start; i < end; i++ {
		if s.enqueue(items[i]) {
			queued++
		}
	}
	return queued
}

func (s *Scheduler) enqueue(t Target) bool {
	if !resolve.LooksResolvable(t.ImageRef) {
		return false
	}
	if _, ok := s.cache.Get(t.ContentID); ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	if _, ok := s.pending[t.ContentID]; ok {
		return false
	}
	s.pending[t.ContentID] = struct{}{}
	s.wg.Add(1)
	go s.run(t)
	return true
}

func (s *Scheduler) run(t Target) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.pending, t.ContentID)
		s.mu.Unlock()
	}()

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		s.canceled.Add(1)
		return
	}
	defer s.sem.Release(1)

	res, err := s.resolver.Resolve(s.ctx, t.ContentID, t.ImageRef, nil)
	switch {
	case err != nil:
		s.canceled.Add(1)
	case res.Resolved():
		s.resolved.Add(1)
	default:
		s.failed.Add(1)
		s.log.Debug("preload found no image", logger.String("content_id", t.ContentID))
	}
}

// Wait blocks until every queued item has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close cancels outstanding work and waits for it to unwind. Later calls to
// Schedule are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Resolved: s.resolved.Load(),
		Failed:   s.failed.Load(),
		Canceled: s.canceled.Load(),
	}
}

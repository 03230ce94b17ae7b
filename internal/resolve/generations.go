package resolve

import (
	"context"
	"sync"
)

// Generations hands out one live context per slot. Beginning a new attempt on
// a slot cancels the previous one, and the returned generation lets callers
// drop results that arrive after they were superseded.
type Generations struct {
	mu    sync.Mutex
	slots map[string]generation
}

type generation struct {
	n      uint64
	cancel context.CancelFunc
}

func NewGenerations() *Generations {
	return &Generations{slots: make(map[string]generation)}
}

func (g *Generations) Begin(parent context.Context, slot string) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev := g.slots[slot]
	if prev.cancel != nil {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	next := generation{n: prev.n + 1, cancel: cancel}
	g.slots[slot] = next
	return ctx, next.n
}

// Current reports whether gen is still the latest attempt for slot.
func (g *Generations) Current(slot string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots[slot].n == gen
}

// End cancels slot's attempt if gen is still the latest one.
func (g *Generations) End(slot string, gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.slots[slot]
	if cur.n == gen && cur.cancel != nil {
		cur.cancel()
		cur.cancel = nil
		g.slots[slot] = cur
	}
}

// CancelAll tears down every live attempt.
func (g *Generations) CancelAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for slot, cur := range g.slots {
		if cur.cancel != nil {
			cur.cancel()
			cur.cancel = nil
			g.slots[slot] = cur
		}
	}
}

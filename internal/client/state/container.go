package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/api"
)

// Resources is the remote CRUD accessor used by the containers.
// *api.Client satisfies it.
type Resources interface {
	List(ctx context.Context, col api.Collection, field, value string, out any) error
	Get(ctx context.Context, col api.Collection, id string, out any) error
	Create(ctx context.Context, col api.Collection, in, out any) error
	Patch(ctx context.Context, col api.Collection, id string, patch, out any) error
	Delete(ctx context.Context, col api.Collection, id string) error
}

type listener[S any] struct {
	id int
	fn func(S)
}

// container serializes reducer application for one slice of state and fans
// the resulting snapshot out to subscribers.
//
// Lock order is notifyMu, then mu. notifyMu is held while listeners run, so
// they observe states in the order the reducer produced them.
type container[S any] struct {
	notifyMu  sync.Mutex
	mu        sync.Mutex
	state     S
	reduce    func(S, Action) S
	clone     func(S) S
	listeners []listener[S]
	nextID    int
	log       *zap.Logger
}

// newContainer wraps initial. clone must return a copy of a state that
// shares no mutable memory with it; every snapshot handed out goes through it.
func newContainer[S any](initial S, reduce func(S, Action) S, clone func(S) S, log *zap.Logger) *container[S] {
	if log == nil {
		log = zap.NewNop()
	}
	return &container[S]{state: initial, reduce: reduce, clone: clone, log: log}
}

func (c *container[S]) dispatch(a Action) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.state = c.reduce(c.state, a)
	snap := c.state
	fns := make([]func(S), 0, len(c.listeners))
	for _, l := range c.listeners {
		fns = append(fns, l.fn)
	}
	c.mu.Unlock()

	c.log.Debug("dispatch", zap.String("action", a.Type()))
	for _, fn := range fns {
		fn(c.clone(snap))
	}
}

func (c *container[S]) snapshot() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clone(c.state)
}

// Subscribe registers fn to be called with the new state after every
// dispatched action, in dispatch order. fn may read State but must not start
// operations synchronously; it runs while further dispatches wait. The
// returned func removes the subscription.
func (c *container[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener[S]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

package async

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// ErrClosed is returned by Wait once the controller has been closed.
var ErrClosed = errors.New("controller closed")

// Producer fetches the resource for deps, the values passed to the Restart
// that started the run. Its context is cancelled when the Controller is
// closed.
type Producer[T any] func(ctx context.Context, deps []any) (T, error)

type options struct {
	ctx              context.Context
	log              *slog.Logger
	cancelSuperseded bool
}

// Option configures a Controller.
type Option func(*options)

// WithContext sets the parent context of every run.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger used to report discarded runs.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCancelSuperseded cancels the context of a run as soon as a newer run
// starts. Without it, superseded runs complete and their result is dropped.
func WithCancelSuperseded() Option {
	return func(o *options) { o.cancelSuperseded = true }
}

// Controller owns the lifecycle of one asynchronous resource.
//
// Thread-safety: all methods are safe for concurrent use. Subscribers are
// invoked one at a time and never see an older state after a newer one;
// they must not call Restart or Reload synchronously.
type Controller[T any] struct {
	produce Producer[T]
	opts    options
	gens    generationCounter

	mu      sync.Mutex
	state   State[T]
	deps    []any
	started bool
	closed  bool
	cancels map[uint64]context.CancelFunc
	settled chan struct{}
	subs    map[int]func(State[T])
	nextSub int
	pubSeq  uint64

	notifyMu  sync.Mutex
	delivered uint64
}

// New creates an Idle controller. Nothing runs until Restart or Reload.
func New[T any](produce Producer[T], opts ...Option) *Controller[T] {
	o := options{ctx: context.Background(), log: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return &Controller[T]{
		produce: produce,
		opts:    o,
		cancels: make(map[uint64]context.CancelFunc),
		settled: make(chan struct{}),
		subs:    make(map[int]func(State[T])),
	}
}

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Restart runs the producer on first activation and whenever deps differ
// (by deep equality) from the values of the previous call. It returns the
// generation that now owns the state.
func (c *Controller[T]) Restart(deps ...any) uint64 {
	c.mu.Lock()
	if c.started && reflect.DeepEqual(deps, c.deps) {
		gen := c.state.Generation
		c.mu.Unlock()
		return gen
	}
	c.deps = append([]any(nil), deps...)
	return c.runLocked()
}

// Reload runs the producer unconditionally, keeping the current deps.
func (c *Controller[T]) Reload() uint64 {
	c.mu.Lock()
	return c.runLocked()
}

// runLocked starts a new generation. Called with c.mu held; releases it.
func (c *Controller[T]) runLocked() uint64 {
	if c.closed {
		gen := c.state.Generation
		c.mu.Unlock()
		return gen
	}
	c.started = true

	gen := c.gens.next()
	if c.opts.cancelSuperseded {
		for g, cancel := range c.cancels {
			cancel()
			delete(c.cancels, g)
		}
	}
	ctx, cancel := context.WithCancel(c.opts.ctx)
	c.cancels[gen] = cancel

	// Wake waiters of the superseded run so they pick up the new one.
	if c.state.Status == Loading {
		close(c.settled)
	}
	c.settled = make(chan struct{})

	c.state = State[T]{Status: Loading, Generation: gen}
	c.publishLocked()

	go c.execute(ctx, gen, append([]any(nil), c.deps...))
	return gen
}

func (c *Controller[T]) execute(ctx context.Context, gen uint64, deps []any) {
	data, err := c.call(ctx, deps)

	c.mu.Lock()
	if cancel, ok := c.cancels[gen]; ok {
		cancel()
		delete(c.cancels, gen)
	}
	if c.closed || gen != c.state.Generation {
		c.mu.Unlock()
		c.opts.log.Debug("discarding superseded result", "generation", gen, "current", c.gens.current())
		return
	}

	if err != nil {
		c.state = State[T]{Status: Failed, Err: err, Generation: gen}
	} else {
		c.state = State[T]{Status: Succeeded, Data: data, Generation: gen}
	}
	close(c.settled)
	c.publishLocked()
}

// call runs the producer, converting a panic into a Failed result.
func (c *Controller[T]) call(ctx context.Context, deps []any) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			data, err = zero, fmt.Errorf("producer panicked: %v", r)
		}
	}()
	return c.produce(ctx, deps)
}

// publishLocked hands the current state to subscribers. Called with c.mu
// held; releases it. A snapshot that loses the race to a newer one is
// dropped rather than delivered out of order.
func (c *Controller[T]) publishLocked() {
	c.pubSeq++
	seq, st := c.pubSeq, c.state
	fns := make([]func(State[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.delivered {
		return
	}
	c.delivered = seq
	for _, fn := range fns {
		fn(st)
	}
}

// Subscribe registers fn for every subsequent state change. The returned
// function removes the subscription.
func (c *Controller[T]) Subscribe(fn func(State[T])) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Wait blocks until the latest run settles or ctx is done. An Idle
// controller returns immediately.
func (c *Controller[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		st, ch, closed := c.state, c.settled, c.closed
		c.mu.Unlock()

		if closed {
			return st, ErrClosed
		}
		if st.Status != Loading {
			return st, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close cancels every outstanding run. Results arriving afterwards are
// discarded, the state stays as it was and waiters return ErrClosed.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	for g, cancel := range c.cancels {
		cancel()
		delete(c.cancels, g)
	}
	if c.state.Status == Loading {
		close(c.settled)
	}
}

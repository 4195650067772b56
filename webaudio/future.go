package webaudio

import (
	"context"
	"sync"
)

// Future is the result slot of an asynchronous operation. It settles
// once; continuations registered with Then run on the owning EventLoop.
type Future[T any] struct {
	loop *EventLoop
	done chan struct{}

	mu        sync.Mutex
	settled   bool
	value     T
	err       error
	callbacks []func(T, error)
}

func newFuture[T any](loop *EventLoop) *Future[T] {
	return &Future[T]{loop: loop, done: make(chan struct{})}
}

// rejectedFuture returns a future already failed with err.
func rejectedFuture[T any](loop *EventLoop, err error) *Future[T] {
	f := newFuture[T](loop)
	f.reject(err)
	return f
}

func (f *Future[T]) resolve(v T) {
	f.settle(v, nil)
}

func (f *Future[T]) reject(err error) {
	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value, f.err = v, err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	close(f.done)
	for _, cb := range callbacks {
		f.loop.Post(func() { cb(v, err) })
	}
}

// Then registers fn to run on the event loop once f settles. If f has
// already settled, fn is posted right away.
func (f *Future[T]) Then(fn func(T, error)) {
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	f.loop.Post(func() { fn(v, err) })
}

// Done is closed when f settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether f has a result.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Result returns the outcome without waiting. Before f settles it returns
// the zero value and a nil error.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Wait blocks until f settles or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

package webaudio

import (
	"context"
	"sync/atomic"

	"github.com/cwbudde/algo-webaudio/internal/queue"
)

// EventLoop is a single-consumer queue of callbacks. Any goroutine may
// Post; one goroutine drains it with Poll or Run. Future continuations and
// node callbacks such as OnEnded are delivered through it.
type EventLoop struct {
	q *queue.Queue[func()]
	// stops counts Stop markers drained by Poll that Run has not honored.
	stops atomic.Int32
}

// NewEventLoop returns an empty loop.
func NewEventLoop() *EventLoop {
	return &EventLoop{q: queue.New[func()]()}
}

// Post queues fn. A nil fn is ignored.
func (l *EventLoop) Post(fn func()) {
	if fn != nil {
		l.q.Push(fn)
	}
}

// Poll runs the callbacks queued so far without waiting and returns how
// many ran. Callbacks posted while polling run on the next call.
func (l *EventLoop) Poll() int {
	fns := l.q.Swap()
	ran := 0
	for _, fn := range fns {
		if fn == nil {
			l.stops.Add(1)
			continue
		}
		fn()
		ran++
	}
	return ran
}

// Run executes callbacks as they arrive until Stop is called or ctx is
// done. A Stop whose marker was already drained by Poll makes the next Run
// return immediately.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		if l.takeStop() {
			return nil
		}
		fn, err := l.q.Pop(ctx)
		if err != nil {
			return err
		}
		if fn == nil {
			return nil
		}
		fn()
	}
}

func (l *EventLoop) takeStop() bool {
	for {
		n := l.stops.Load()
		if n == 0 {
			return false
		}
		if l.stops.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// Stop makes Run return after the callbacks queued before it.
func (l *EventLoop) Stop() {
	l.q.Push(nil)
}

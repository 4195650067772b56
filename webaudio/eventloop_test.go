package webaudio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventLoopPoll(t *testing.T) {
	l := NewEventLoop()
	var got []int
	l.Post(func() { got = append(got, 1) })
	l.Post(nil)
	l.Post(func() {
		got = append(got, 2)
		l.Post(func() { got = append(got, 3) })
	})

	if n := l.Poll(); n != 2 {
		t.Fatalf("Poll = %d, want 2", n)
	}
	if n := l.Poll(); n != 1 {
		t.Fatalf("second Poll = %d, want 1", n)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("order = %v", got)
	}
	if n := l.Poll(); n != 0 {
		t.Fatalf("empty Poll = %d", n)
	}
}

func TestEventLoopRunStop(t *testing.T) {
	l := NewEventLoop()
	ran := 0
	l.Post(func() { ran++ })
	l.Post(func() { ran++ })
	l.Stop()
	l.Post(func() { ran++ })

	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ran != 2 {
		t.Fatalf("ran %d callbacks before Stop, want 2", ran)
	}
	if n := l.Poll(); n != 1 {
		t.Fatalf("Poll after Run = %d, want 1", n)
	}
}

func TestEventLoopStopDrainedByPoll(t *testing.T) {
	l := NewEventLoop()
	ran := 0
	l.Post(func() { ran++ })
	l.Stop()
	if n := l.Poll(); n != 1 {
		t.Fatalf("Poll = %d, want 1", n)
	}
	l.Post(func() { ran++ })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run after Poll drained Stop = %v, want nil", err)
	}
	if ran != 1 {
		t.Fatalf("ran %d callbacks, want 1", ran)
	}

	// The Stop is used up; the next Run drains the rest and blocks again.
	short, cancelShort := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelShort()
	if err := l.Run(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second Run = %v, want deadline exceeded", err)
	}
	if ran != 2 {
		t.Fatalf("ran %d callbacks, want 2", ran)
	}
}

func TestEventLoopRunCancel(t *testing.T) {
	l := NewEventLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
}

func TestFuture(t *testing.T) {
	l := NewEventLoop()
	f := newFuture[int](l)

	var got []int
	f.Then(func(v int, err error) { got = append(got, v) })
	if f.Settled() {
		t.Fatal("settled too early")
	}
	if v, err := f.Result(); v != 0 || err != nil {
		t.Fatalf("Result before settle = %v, %v", v, err)
	}

	f.resolve(7)
	f.reject(errors.New("ignored"))
	if v, err := f.Result(); v != 7 || err != nil {
		t.Fatalf("Result = %v, %v", v, err)
	}
	f.Then(func(v int, err error) { got = append(got, v*2) })

	if len(got) != 0 {
		t.Fatal("continuations ran outside the loop")
	}
	l.Poll()
	if len(got) != 2 || got[0] != 7 || got[1] != 14 {
		t.Fatalf("continuations = %v", got)
	}

	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestFutureWait(t *testing.T) {
	l := NewEventLoop()
	f := newFuture[string](l)
	go f.resolve("done")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := f.Wait(ctx)
	if err != nil || v != "done" {
		t.Fatalf("Wait = %q, %v", v, err)
	}

	pending := newFuture[string](l)
	short, cancelShort := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancelShort()
	if _, err := pending.Wait(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait on pending = %v", err)
	}

	boom := errors.New("boom")
	if _, err := rejectedFuture[int](l, boom).Wait(ctx); !errors.Is(err, boom) {
		t.Fatalf("rejected Wait = %v", err)
	}
}

package queue

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestSwap_DrainsInOrder(t *testing.T) {
	q := New[int]()
	if got := q.Swap(); got != nil {
		t.Fatalf("empty Swap = %v", got)
	}
	for i := range 5 {
		q.Push(i)
	}
	if q.Len() != 5 {
		t.Fatalf("Len = %d", q.Len())
	}
	if got := q.Swap(); !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Fatalf("Swap = %v", got)
	}
	if q.Len() != 0 {
		t.Fatalf("Len after Swap = %d", q.Len())
	}
}

func TestPop_ReturnsQueuedItems(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Push("b")

	ctx := context.Background()
	for _, want := range []string{"a", "b"} {
		got, err := q.Pop(ctx)
		if err != nil || got != want {
			t.Fatalf("Pop = %q, %v; want %q", got, err, want)
		}
	}
}

func TestPop_BlocksUntilPush(t *testing.T) {
	q := New[int]()
	done := make(chan int)
	go func() {
		v, err := q.Pop(context.Background())
		if err != nil {
			t.Error(err)
		}
		done <- v
	}()

	select {
	case v := <-done:
		t.Fatalf("Pop returned %d before any push", v)
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(42)
	select {
	case v := <-done:
		if v != 42 {
			t.Fatalf("Pop = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake up after Push")
	}
}

func TestPop_ContextCancel(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := q.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}

func TestPush_Concurrent(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				q.Push(w*100 + i)
			}
		}()
	}
	wg.Wait()

	got := q.Swap()
	if len(got) != 800 {
		t.Fatalf("len = %d, want 800", len(got))
	}
	slices.Sort(got)
	for i, v := range got {
		if v != i {
			t.Fatalf("missing item %d", i)
		}
	}
}

package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/swimconv/internal/domain/model"
)

func job(id string) *model.Job {
	return &model.Job{ID: id, From: "LCM", To: "SCY", Status: model.JobQueued}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := q.Enqueue(ctx, job("job1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got, ok := q.Next(ctx)
	if !ok || got.ID != "job1" {
		t.Errorf("expected job1, got %v (ok=%v)", got, ok)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"job1", "job2"} {
		if err := q.Enqueue(ctx, job(id)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}

	if err := q.Enqueue(ctx, job("job3")); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, job("job1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, ok := q.Next(ctx); ok {
		t.Error("expected Next to give up on a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	producers, perProducer := 10, 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, job(fmt.Sprintf("job%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	consumed := make(chan string, producers*perProducer)
	var consumers sync.WaitGroup
	for i := 0; i < 4; i++ {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for {
				j, ok := q.Next(ctx)
				if !ok {
					return
				}
				consumed <- j.ID
			}
		}()
	}

	wg.Wait()
	_ = q.Close()
	consumers.Wait()
	close(consumed)

	seen := make(map[string]bool)
	for id := range consumed {
		if seen[id] {
			t.Errorf("job %s delivered twice", id)
		}
		seen[id] = true
	}
	if len(seen) != producers*perProducer {
		t.Errorf("expected %d jobs, got %d", producers*perProducer, len(seen))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for _, id := range []string{"job1", "job2"} {
		if err := q.Enqueue(ctx, job(id)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	if err := q.Enqueue(ctx, job("job3")); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}

	// Waiting jobs drain after close.
	for _, want := range []string{"job1", "job2"} {
		got, ok := q.Next(ctx)
		if !ok || got.ID != want {
			t.Errorf("expected %s, got %v (ok=%v)", want, got, ok)
		}
	}
	if _, ok := q.Next(ctx); ok {
		t.Error("expected Next to report a drained queue")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}

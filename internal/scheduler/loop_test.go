package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/shaiso/Publica/internal/clock"
	"github.com/shaiso/Publica/internal/domain"
)

func TestNewLoop_InvalidCron(t *testing.T) {
	s := newTestScheduler(newFakeStore(), newFakeLedger(), nil)

	_, err := NewLoop(LoopConfig{
		Scheduler: s,
		CronExpr:  "not a cron",
		Logger:    testLogger(),
	})
	if err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestNewLoop_DefaultCron(t *testing.T) {
	s := newTestScheduler(newFakeStore(), newFakeLedger(), nil)

	if _, err := NewLoop(LoopConfig{Scheduler: s, Logger: testLogger()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoop_Run_ImmediateFirstTick(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, nil)
	loop, err := NewLoop(LoopConfig{
		Scheduler: s,
		Interval:  time.Hour, // far enough that only the first tick fires
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	// Mature posts must not wait for the first cadence after restart
	deadline := time.After(2 * time.Second)
	for store.status(post.ID) != domain.StatusPublished {
		select {
		case <-deadline:
			t.Fatal("first tick did not run immediately")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestLoop_Run_TicksOnInterval(t *testing.T) {
	store := newFakeStore()

	s := newTestScheduler(store, newFakeLedger(), nil)
	loop, err := NewLoop(LoopConfig{
		Scheduler: s,
		Interval:  20 * time.Millisecond,
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		store.mu.Lock()
		calls := store.listCalls
		store.mu.Unlock()
		if calls >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 ticks, got %d", calls)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestLoop_Run_StopsOnCancel(t *testing.T) {
	s := newTestScheduler(newFakeStore(), newFakeLedger(), nil)
	loop, err := NewLoop(LoopConfig{
		Scheduler: s,
		Interval:  10 * time.Millisecond,
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after context cancel")
	}
}

func TestLoop_Run_TickErrorDoesNotStopLoop(t *testing.T) {
	store := newFakeStore()
	store.listErr = context.DeadlineExceeded

	s := New(Config{
		Posts:  store,
		Ledger: newFakeLedger(),
		Clock:  clock.NewManual(testNow),
		Logger: testLogger(),
	})
	loop, err := NewLoop(LoopConfig{
		Scheduler: s,
		Interval:  20 * time.Millisecond,
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	// The loop keeps polling despite failing ticks
	deadline := time.After(2 * time.Second)
	for {
		store.mu.Lock()
		calls := store.listCalls
		store.mu.Unlock()
		if calls >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected loop to keep ticking, got %d calls", calls)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

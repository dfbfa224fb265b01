package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Publica/internal/clock"
	"github.com/shaiso/Publica/internal/domain"
)

// --- In-memory fakes ---

type fakeStore struct {
	mu        sync.Mutex
	posts     map[uuid.UUID]*domain.Post
	listErr   error
	listCalls int
	// setErr fails SetStatusIf for the given post IDs
	setErr map[uuid.UUID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:  make(map[uuid.UUID]*domain.Post),
		setErr: make(map[uuid.UUID]error),
	}
}

func (f *fakeStore) add(p domain.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.posts[p.ID] = &cp
}

func (f *fakeStore) status(id uuid.UUID) domain.PostStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[id].Status
}

func (f *fakeStore) ListDue(_ context.Context, now time.Time, limit int) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var due []domain.Post
	for _, p := range f.posts {
		if p.Status == domain.StatusScheduled && !p.ScheduledAt.After(now) {
			due = append(due, *p)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeStore) SetStatusIf(_ context.Context, id uuid.UUID, from, to domain.PostStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.setErr[id]; err != nil {
		return false, err
	}

	p, ok := f.posts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

type fakeLedger struct {
	mu        sync.Mutex
	records   map[uuid.UUID]time.Time
	existsErr error
	recordErr error
	// hideFromExists makes Exists report false even when a record
	// is present, simulating a concurrent insert after the check
	hideFromExists bool
	tryCalls       int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[uuid.UUID]time.Time)}
}

func (f *fakeLedger) TryRecord(_ context.Context, postID uuid.UUID, publishedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tryCalls++
	if f.recordErr != nil {
		return false, f.recordErr
	}
	if _, ok := f.records[postID]; ok {
		return false, nil
	}
	f.records[postID] = publishedAt
	return true, nil
}

func (f *fakeLedger) Exists(_ context.Context, postID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.hideFromExists {
		return false, nil
	}
	_, ok := f.records[postID]
	return ok, nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type publishedEvent struct {
	postID    uuid.UUID
	platforms []domain.Platform
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishPostPublished(_ context.Context, postID uuid.UUID, platforms []domain.Platform) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{postID: postID, platforms: platforms})
	return nil
}

// --- Helpers ---

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler(store *fakeStore, ledger *fakeLedger, pub *fakePublisher) *Scheduler {
	cfg := Config{
		Posts:  store,
		Ledger: ledger,
		Clock:  clock.NewManual(testNow),
		Logger: testLogger(),
	}
	if pub != nil {
		cfg.Publisher = pub
	}
	return New(cfg)
}

func scheduledPost(scheduledAt, createdAt time.Time) domain.Post {
	return domain.Post{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Content:     "test post",
		Platforms:   []domain.Platform{domain.PlatformTwitter, domain.PlatformFacebook},
		ScheduledAt: scheduledAt,
		Status:      domain.StatusScheduled,
		CreatedAt:   createdAt,
	}
}

// --- Tick ---

func TestScheduler_Tick_PublishesDuePost(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	pub := &fakePublisher{}

	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, pub)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
	if ledger.count() != 1 {
		t.Errorf("ledger entries = %d, want 1", ledger.count())
	}
	if at := ledger.records[post.ID]; !at.Equal(testNow) {
		t.Errorf("published_at = %v, want %v", at, testNow)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events = %d, want 1", len(pub.events))
	}
	if pub.events[0].postID != post.ID || len(pub.events[0].platforms) != 2 {
		t.Errorf("unexpected event payload: %+v", pub.events[0])
	}
}

func TestScheduler_Tick_NoDuePosts(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	// Future post should stay untouched
	post := scheduledPost(testNow.Add(time.Hour), testNow)
	store.add(post)

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusScheduled {
		t.Errorf("future post status = %s, want scheduled", got)
	}
	if ledger.count() != 0 {
		t.Errorf("ledger entries = %d, want 0", ledger.count())
	}
}

func TestScheduler_Tick_DueAtExactTime(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	post := scheduledPost(testNow, testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("scheduled_at == now should publish, got %s", got)
	}
}

func TestScheduler_Tick_Idempotent(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, nil)

	// Two consecutive ticks: second must not touch the post again
	for i := 0; i < 2; i++ {
		if err := s.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: unexpected error: %v", i, err)
		}
	}

	if ledger.count() != 1 {
		t.Errorf("ledger entries = %d, want 1", ledger.count())
	}
	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
}

func TestScheduler_Tick_ListDueError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("db down")

	s := newTestScheduler(store, newFakeLedger(), nil)
	if err := s.Tick(context.Background()); err == nil {
		t.Error("expected error when due query fails")
	}
}

// --- Repair ---

func TestScheduler_Tick_RepairsStuckPost(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	// Ledger entry exists but the post is stuck in scheduled:
	// previous run crashed between the two writes
	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)
	ledger.records[post.ID] = testNow.Add(-time.Minute)

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
	if ledger.count() != 1 {
		t.Errorf("repair must not add a second ledger entry, got %d", ledger.count())
	}
	if ledger.tryCalls != 0 {
		t.Errorf("repair must not call TryRecord, got %d calls", ledger.tryCalls)
	}
}

func TestScheduler_Tick_LostInsertRace(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	ledger.hideFromExists = true

	// A concurrent scheduler inserted the record after our Exists
	// check; TryRecord observes the conflict and repairs instead
	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)
	ledger.records[post.ID] = testNow.Add(-time.Second)

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
	if ledger.count() != 1 {
		t.Errorf("ledger entries = %d, want 1", ledger.count())
	}
}

func TestScheduler_Tick_RepairAfterStatusWriteFailure(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)
	store.setErr[post.ID] = errors.New("connection reset")

	s := newTestScheduler(store, ledger, nil)

	// First tick: ledger insert succeeds, status write fails
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.count() != 1 {
		t.Fatalf("ledger entries = %d, want 1", ledger.count())
	}
	if got := store.status(post.ID); got != domain.StatusScheduled {
		t.Fatalf("status = %s, want still scheduled", got)
	}

	// Next tick repairs without a second entry
	delete(store.setErr, post.ID)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
	if ledger.count() != 1 {
		t.Errorf("ledger entries = %d, want 1", ledger.count())
	}
}

// --- Failures ---

func TestScheduler_Tick_LedgerInsertErrorMarksFailed(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	ledger.recordErr = errors.New("unique index corrupted")

	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusFailed {
		t.Errorf("status = %s, want failed", got)
	}
	if ledger.count() != 0 {
		t.Errorf("ledger entries = %d, want 0", ledger.count())
	}
}

func TestScheduler_Tick_ExistsErrorSkipsPost(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	ledger.existsErr = errors.New("db timeout")

	// Read failure must not fail the post: it may already be
	// published by another process
	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(post.ID); got != domain.StatusScheduled {
		t.Errorf("status = %s, want scheduled", got)
	}
	if ledger.tryCalls != 0 {
		t.Errorf("TryRecord should not be called, got %d calls", ledger.tryCalls)
	}
}

func TestScheduler_Tick_FailureIsolation(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	posts := []domain.Post{
		scheduledPost(testNow.Add(-time.Minute), testNow.Add(-3*time.Hour)),
		scheduledPost(testNow.Add(-time.Minute), testNow.Add(-2*time.Hour)),
		scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour)),
	}
	for _, p := range posts {
		store.add(p)
	}
	// The middle post cannot persist its status
	store.setErr[posts[1].ID] = errors.New("connection reset")

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status(posts[0].ID); got != domain.StatusPublished {
		t.Errorf("first post status = %s, want published", got)
	}
	if got := store.status(posts[2].ID); got != domain.StatusPublished {
		t.Errorf("third post status = %s, want published", got)
	}
}

func TestScheduler_Tick_PublisherErrorIsNotFatal(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	pub := &fakePublisher{err: errors.New("broker gone")}

	post := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	s := newTestScheduler(store, ledger, pub)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// DB is the source of truth: event loss does not roll back
	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
	if ledger.count() != 1 {
		t.Errorf("ledger entries = %d, want 1", ledger.count())
	}
}

// --- Batching ---

func TestScheduler_Tick_BatchLimit(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	// 150 due posts, default batch of 100: oldest go first
	ids := make([]uuid.UUID, 150)
	for i := 0; i < 150; i++ {
		p := scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Duration(150-i)*time.Minute))
		ids[i] = p.ID
		store.add(p)
	}

	s := newTestScheduler(store, ledger, nil)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ledger.count() != 100 {
		t.Fatalf("first tick published %d, want 100", ledger.count())
	}
	// Oldest post is in the batch, newest is not
	if got := store.status(ids[0]); got != domain.StatusPublished {
		t.Errorf("oldest post status = %s, want published", got)
	}
	if got := store.status(ids[149]); got != domain.StatusScheduled {
		t.Errorf("newest post status = %s, want scheduled", got)
	}

	// Second tick drains the remainder
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.count() != 150 {
		t.Errorf("after second tick %d published, want 150", ledger.count())
	}
}

func TestScheduler_Tick_CustomBatchSize(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	for i := 0; i < 5; i++ {
		store.add(scheduledPost(testNow.Add(-time.Minute), testNow.Add(-time.Duration(i+1)*time.Minute)))
	}

	s := New(Config{
		Posts:     store,
		Ledger:    ledger,
		Clock:     clock.NewManual(testNow),
		Logger:    testLogger(),
		BatchSize: 2,
	})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.count() != 2 {
		t.Errorf("published %d, want 2", ledger.count())
	}
}

// --- Clock ---

func TestScheduler_Tick_UsesInjectedClock(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()

	post := scheduledPost(testNow.Add(30*time.Minute), testNow.Add(-time.Hour))
	store.add(post)

	clk := clock.NewManual(testNow)
	s := New(Config{
		Posts:  store,
		Ledger: ledger,
		Clock:  clk,
		Logger: testLogger(),
	})

	// Not due yet
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status(post.ID); got != domain.StatusScheduled {
		t.Fatalf("status = %s, want scheduled", got)
	}

	// Advance past the scheduled time
	clk.Advance(time.Hour)
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status(post.ID); got != domain.StatusPublished {
		t.Errorf("status = %s, want published", got)
	}
}

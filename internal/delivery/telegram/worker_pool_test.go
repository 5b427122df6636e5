package telegram

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimitPerUser(t *testing.T) {
	wp := newWorkerPool(nil, 1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	wp.now = func() time.Time { return now }

	for i := 0; i < requestBurst; i++ {
		if !wp.checkRateLimit(1) {
			t.Fatalf("request %d must pass within the burst", i)
		}
	}
	if wp.checkRateLimit(1) {
		t.Fatalf("burst exhausted, request must be limited")
	}
	if !wp.checkRateLimit(2) {
		t.Fatalf("other users have their own bucket")
	}

	now = now.Add(time.Second)
	if !wp.checkRateLimit(1) {
		t.Fatalf("bucket must refill after a second")
	}
}

func TestSubmitLimitedAndBusy(t *testing.T) {
	wp := newWorkerPool(nil, 1)
	wp.queues = []chan *job{make(chan *job, 1)}
	now := time.Now()
	wp.now = func() time.Time { return now }

	var limited, busy int32
	mk := func(userID int64) *job {
		return &job{
			userID:    userID,
			run:       func(context.Context) {},
			onLimited: func() { atomic.AddInt32(&limited, 1) },
			onBusy:    func() { atomic.AddInt32(&busy, 1) },
		}
	}

	// workers are not started, so the single queue slot fills up
	if !wp.submit(mk(1)) {
		t.Fatalf("first job must be queued")
	}
	if wp.submit(mk(2)) {
		t.Fatalf("queue is full")
	}
	if atomic.LoadInt32(&busy) != 1 {
		t.Fatalf("onBusy must fire once, got %d", busy)
	}

	for i := 0; i <= requestBurst; i++ {
		wp.submit(mk(3))
	}
	if atomic.LoadInt32(&limited) != 1 {
		t.Fatalf("onLimited must fire once, got %d", limited)
	}
}

func TestWorkerPoolRunsJobs(t *testing.T) {
	wp := newWorkerPool(nil, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.start(ctx)

	var wg sync.WaitGroup
	var ran int32
	for u := int64(1); u <= 20; u++ {
		wg.Add(1)
		ok := wp.submit(&job{userID: u, run: func(context.Context) {
			defer wg.Done()
			atomic.AddInt32(&ran, 1)
		}})
		if !ok {
			t.Fatalf("job for user %d rejected", u)
		}
	}
	wg.Wait()
	if n := atomic.LoadInt32(&ran); n != 20 {
		t.Fatalf("expected 20 jobs, got %d", n)
	}

	wp.shutdown()
	wp.shutdown()
	if wp.submit(&job{userID: 1, run: func(context.Context) {}}) {
		t.Fatalf("closed pool must reject jobs")
	}
}

func TestWorkerPoolKeepsUserOrder(t *testing.T) {
	wp := newWorkerPool(nil, 4)
	wp.burst = 20
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.start(ctx)
	defer wp.shutdown()

	var mu sync.Mutex
	var order []int
	var running int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		ok := wp.submit(&job{userID: 42, run: func(context.Context) {
			defer wg.Done()
			if atomic.AddInt32(&running, 1) != 1 {
				t.Errorf("job %d overlapped another job of the same user", i)
			}
			time.Sleep(time.Millisecond)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			atomic.AddInt32(&running, -1)
		}})
		if !ok {
			t.Fatalf("job %d rejected", i)
		}
	}
	wg.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("jobs ran out of order: %v", order)
		}
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	wp := newWorkerPool(nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.start(ctx)

	done := make(chan struct{})
	wp.submit(&job{userID: 1, run: func(context.Context) { panic("boom") }})
	wp.submit(&job{userID: 1, run: func(context.Context) { close(done) }})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker died after panic")
	}
	wp.shutdown()
}

func TestRateLimiterEviction(t *testing.T) {
	wp := newWorkerPool(nil, 1)
	base := time.Now()
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		wp.now = func() time.Time { return at }
		wp.checkRateLimit(int64(i))
	}

	wp.limitersMu.Lock()
	wp.evictOldestRateLimiters(2)
	_, oldest := wp.limiters[0]
	_, newest := wp.limiters[4]
	size := len(wp.limiters)
	wp.limitersMu.Unlock()

	if oldest || !newest || size != 3 {
		t.Fatalf("eviction kept wrong entries: oldest=%v newest=%v size=%d", oldest, newest, size)
	}

	wp.now = func() time.Time { return base.Add(3*time.Minute + rateLimiterMaxIdleTime - time.Second) }
	if n := wp.dropIdleLimiters(); n != 1 {
		t.Fatalf("expected one idle limiter dropped, got %d", n)
	}
}

package telegram

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// job one update to be processed for a user
type job struct {
	userID    int64
	run       func(ctx context.Context)
	onLimited func()
	onBusy    func()
}

// workerPool manages parallel processing of updates. Each user is pinned
// to one worker queue, so one user's updates run in arrival order.
type workerPool struct {
	queues      []chan *job
	workerCount int
	log         *zap.Logger
	wg          sync.WaitGroup

	startOnce sync.Once
	closeOnce sync.Once
	closed    chan struct{}

	// Rate limiting per user
	limiters   map[int64]*userRateLimit
	limitersMu sync.Mutex
	limit      rate.Limit
	burst      int
	now        func() time.Time
}

// userRateLimit token bucket of one user
type userRateLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	maxRequestsPerSecond   = 3
	requestBurst           = 5
	requestQueueSize       = 100
	defaultWorkerCount     = 8
	requestTimeout         = 30 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute  // How often to clean up rate limiters
	rateLimiterMaxIdleTime = 10 * time.Minute // Max idle time before removing rate limiter
	maxRateLimitersInCache = 10000            // Max number of rate limiters to keep in memory
)

// newWorkerPool creates a new worker pool
func newWorkerPool(log *zap.Logger, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	if log == nil {
		log = zap.NewNop()
	}
	queues := make([]chan *job, workerCount)
	for i := range queues {
		queues[i] = make(chan *job, requestQueueSize)
	}
	return &workerPool{
		queues:      queues,
		workerCount: workerCount,
		log:         log,
		closed:      make(chan struct{}),
		limiters:    make(map[int64]*userRateLimit),
		limit:       rate.Limit(maxRequestsPerSecond),
		burst:       requestBurst,
		now:         time.Now,
	}
}

// start starts all workers
func (wp *workerPool) start(ctx context.Context) {
	wp.startOnce.Do(func() {
		wp.log.Info("starting workers", zap.Int("count", wp.workerCount))
		for i := 0; i < wp.workerCount; i++ {
			wp.wg.Add(1)
			go wp.worker(ctx, i, wp.queues[i])
		}
		go wp.cleanupRateLimits(ctx)
	})
}

func (wp *workerPool) worker(ctx context.Context, id int, queue <-chan *job) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			wp.log.Debug("worker shutting down", zap.Int("worker", id))
			return
		case <-wp.closed:
			return
		case j := <-queue:
			if j == nil {
				continue
			}
			wp.process(ctx, j)
		}
	}
}

// process runs one job with a deadline and panic recovery
func (wp *workerPool) process(parent context.Context, j *job) {
	ctx, cancel := context.WithTimeout(parent, requestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			wp.log.Error("panic in update processing", zap.Int64("user_id", j.userID), zap.Any("panic", r))
		}
	}()
	j.run(ctx)
}

// submit enqueues without blocking; a full queue or an exhausted user
// bucket drops the update and fires the matching callback.
func (wp *workerPool) submit(j *job) bool {
	if j == nil || j.run == nil {
		return false
	}
	select {
	case <-wp.closed:
		return false
	default:
	}

	if !wp.checkRateLimit(j.userID) {
		if j.onLimited != nil {
			j.onLimited()
		}
		return false
	}

	select {
	case wp.queueFor(j.userID) <- j:
		return true
	default:
		wp.log.Warn("request queue full", zap.Int64("user_id", j.userID))
		if j.onBusy != nil {
			j.onBusy()
		}
		return false
	}
}

// queueFor shard of the user's updates
func (wp *workerPool) queueFor(userID int64) chan *job {
	return wp.queues[uint64(userID)%uint64(len(wp.queues))]
}

// checkRateLimit reports whether the user may send one more update now
func (wp *workerPool) checkRateLimit(userID int64) bool {
	now := wp.now()

	wp.limitersMu.Lock()
	defer wp.limitersMu.Unlock()

	rl, ok := wp.limiters[userID]
	if !ok {
		if len(wp.limiters) >= maxRateLimitersInCache {
			wp.evictOldestRateLimiters(len(wp.limiters) - maxRateLimitersInCache + 1)
		}
		rl = &userRateLimit{limiter: rate.NewLimiter(wp.limit, wp.burst)}
		wp.limiters[userID] = rl
	}
	rl.lastSeen = now
	return rl.limiter.AllowN(now, 1)
}

func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-wp.closed:
			return
		case <-ticker.C:
			if n := wp.dropIdleLimiters(); n > 0 {
				wp.log.Debug("rate limiters cleaned", zap.Int("removed", n))
			}
		}
	}
}

func (wp *workerPool) dropIdleLimiters() int {
	cutoff := wp.now().Add(-rateLimiterMaxIdleTime)

	wp.limitersMu.Lock()
	defer wp.limitersMu.Unlock()

	removed := 0
	for id, rl := range wp.limiters {
		if rl.lastSeen.Before(cutoff) {
			delete(wp.limiters, id)
			removed++
		}
	}
	return removed
}

// evictOldestRateLimiters caller holds limitersMu
func (wp *workerPool) evictOldestRateLimiters(n int) {
	if n <= 0 {
		return
	}
	type entry struct {
		id       int64
		lastSeen time.Time
	}
	entries := make([]entry, 0, len(wp.limiters))
	for id, rl := range wp.limiters {
		entries = append(entries, entry{id: id, lastSeen: rl.lastSeen})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].lastSeen.Before(entries[j].lastSeen)
	})
	if n > len(entries) {
		n = len(entries)
	}
	for _, e := range entries[:n] {
		delete(wp.limiters, e.id)
	}
}

// shutdown stops accepting jobs and waits for running ones; queued
// jobs that were not picked up are dropped.
func (wp *workerPool) shutdown() {
	wp.closeOnce.Do(func() {
		close(wp.closed)
	})
	wp.wg.Wait()
}

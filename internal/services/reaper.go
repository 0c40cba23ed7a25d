package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/filebridge/internal/models"
	"go.uber.org/zap"
)

var errBucketNotServed = errors.New("bucket is not served by this instance")

// CleanupQueue is the persistent side of the reaper.
type CleanupQueue interface {
	Due(ctx context.Context, now time.Time, maxAttempts, limit int) ([]models.BlobDeletion, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error
	Pending(ctx context.Context, maxAttempts int) (int64, error)
}

// BlobDeleter removes objects from the bucket it serves.
type BlobDeleter interface {
	Bucket() string
	Delete(ctx context.Context, key string) error
}

type ReaperOptions struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

type ReapResult struct {
	Deleted   int
	Failed    int
	Abandoned int
}

// Reaper retries queued blob deletions on a ticker.
type Reaper struct {
	queue CleanupQueue
	blobs BlobDeleter
	opts  ReaperOptions
	log   *zap.Logger
	now   func() time.Time

	mu     sync.Mutex // serialises RunOnce
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReaper(queue CleanupQueue, blobs BlobDeleter, opts ReaperOptions, log *zap.Logger) *Reaper {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 50
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 10
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 30 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = time.Hour
	}
	return &Reaper{
		queue: queue,
		blobs: blobs,
		opts:  opts,
		log:   log.Named("reaper"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the reaper in the background until Stop or ctx is done.
func (r *Reaper) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx)

	r.log.Info("reaper started", zap.Duration("interval", r.opts.Interval))
}

// Stop cancels the background loop and waits for the current run to end.
func (r *Reaper) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.log.Info("reaper stopped")
}

func (r *Reaper) run(ctx context.Context) {
	defer close(r.done)

	r.RunOnce(ctx)

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce processes one batch of due deletions.
func (r *Reaper) RunOnce(ctx context.Context) ReapResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	cleanupRunsTotal.Inc()
	var res ReapResult

	tasks, err := r.queue.Due(ctx, r.now(), r.opts.MaxAttempts, r.opts.BatchSize)
	if err != nil {
		r.log.Error("failed to load queued deletions", zap.Error(err))
		return res
	}

	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		r.process(ctx, task, &res)
	}

	if pending, err := r.queue.Pending(ctx, r.opts.MaxAttempts); err == nil {
		cleanupPending.Set(float64(pending))
	}

	if len(tasks) > 0 {
		r.log.Info("reaper run finished",
			zap.Int("deleted", res.Deleted),
			zap.Int("failed", res.Failed),
			zap.Int("abandoned", res.Abandoned),
		)
	}
	return res
}

func (r *Reaper) process(ctx context.Context, task models.BlobDeletion, res *ReapResult) {
	log := r.log.With(
		zap.String("task_id", task.ID.String()),
		zap.String("bucket", task.Bucket),
		zap.String("key", task.Key),
	)

	var deleteErr error
	if task.Bucket != r.blobs.Bucket() {
		deleteErr = errBucketNotServed
	} else {
		deleteErr = r.blobs.Delete(ctx, task.Key)
	}

	if deleteErr == nil {
		if err := r.queue.Complete(ctx, task.ID); err != nil {
			log.Error("object deleted but task not cleared", zap.Error(err))
		}
		res.Deleted++
		cleanupResultsTotal.WithLabelValues("deleted").Inc()
		return
	}

	attempts := task.Attempts + 1
	next := r.now().Add(r.backoff(attempts))
	if err := r.queue.Reschedule(ctx, task.ID, attempts, next, deleteErr.Error()); err != nil {
		log.Error("failed to reschedule deletion", zap.Error(err))
	}

	if attempts >= r.opts.MaxAttempts {
		res.Abandoned++
		cleanupResultsTotal.WithLabelValues("abandoned").Inc()
		log.Error("giving up on object deletion, manual cleanup required",
			zap.Int("attempts", attempts), zap.Error(deleteErr))
		return
	}
	res.Failed++
	cleanupResultsTotal.WithLabelValues("failed").Inc()
	log.Warn("object deletion failed, will retry",
		zap.Int("attempts", attempts), zap.Time("next_attempt_at", next), zap.Error(deleteErr))
}

// backoff doubles from BaseBackoff per attempt, capped at MaxBackoff.
func (r *Reaper) backoff(attempts int) time.Duration {
	d := r.opts.BaseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= r.opts.MaxBackoff {
			return r.opts.MaxBackoff
		}
	}
	return d
}

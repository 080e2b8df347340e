package dispatch

import (
	"context"
	"fmt"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-announce/core"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

// Queue is a bounded in-process job queue with a fixed worker pool. Enqueue
// never blocks: a full queue rejects the job so a slow endpoint cannot back
// up into the request path. Jobs are independent and stateless, so workers
// pull them concurrently with no ordering guarantee across events; enqueue
// order within one event follows the matcher's sorted output.
type Queue struct {
	logger  core.Logger
	handler Handler
	jobs    chan core.DispatchJob
	workers int

	mu      sync.Mutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

type queueBuilder struct {
	logger   core.Logger
	provider core.LoggerProvider
}

type QueueOption func(*queueBuilder)

func WithQueueLogger(logger core.Logger) QueueOption {
	return func(b *queueBuilder) {
		b.logger = logger
	}
}

func WithQueueLoggerProvider(provider core.LoggerProvider) QueueOption {
	return func(b *queueBuilder) {
		b.provider = provider
	}
}

func NewQueue(handler Handler, cfg core.DispatchConfig, opts ...QueueOption) (*Queue, error) {
	if handler == nil {
		return nil, fmt.Errorf("dispatch: queue handler is required")
	}
	builder := queueBuilder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}
	_, logger := glog.Resolve("announce.queue", builder.provider, builder.logger)

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Queue{
		logger:  logger,
		handler: handler,
		jobs:    make(chan core.DispatchJob, size),
		workers: workers,
	}, nil
}

// Start launches the worker pool. Workers drain the queue until Close is
// called or the context is canceled. Start is idempotent.
func (q *Queue) Start(ctx context.Context) {
	if q == nil {
		return
	}
	q.mu.Lock()
	if q.started || q.closed {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx)
	}
}

func (q *Queue) work(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			q.handler.Handle(ctx, job)
		}
	}
}

// Enqueue accepts a job without blocking. A full or closed queue returns an
// error the caller is expected to log and move on from.
func (q *Queue) Enqueue(_ context.Context, job core.DispatchJob) error {
	if q == nil {
		return fmt.Errorf("dispatch: queue is not configured")
	}
	if err := job.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("dispatch: queue is closed")
	}

	// Non-blocking send while the mutex is held, so Close cannot close the
	// channel mid-send.
	select {
	case q.jobs <- job:
		return nil
	default:
		return fmt.Errorf("dispatch: queue is full")
	}
}

// Close stops accepting jobs, lets the workers drain what was already
// queued, and waits for them to exit.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	close(q.jobs)
	q.wg.Wait()
}

var _ core.DispatchEnqueuer = (*Queue)(nil)

// Package sideeffect runs best-effort work after a primary operation has committed.
//
// Tasks never report back to the caller that scheduled them. Failures and
// panics are logged and counted, and the task context is detached from the
// caller's cancellation so a finished HTTP request does not abort delivery.
package sideeffect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
)

// Task is a unit of best-effort work.
type Task func(ctx context.Context) error

// Runner schedules tasks without blocking the caller on their outcome.
type Runner interface {
	Go(ctx context.Context, name string, task Task)
}

type job struct {
	ctx  context.Context
	name string
	task Task
}

// AsyncRunner executes tasks on a fixed pool of workers fed by a bounded queue.
type AsyncRunner struct {
	queue   chan job
	log     *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// AsyncConfig sizes an AsyncRunner.
type AsyncConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// NewAsyncRunner starts the worker pool.
func NewAsyncRunner(cfg AsyncConfig, log *zap.Logger, m *metrics.Metrics) *AsyncRunner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	r := &AsyncRunner{
		queue:   make(chan job, cfg.QueueSize),
		log:     log.Named("sideeffect"),
		metrics: m,
		timeout: cfg.TaskTimeout,
	}

	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.worker()
	}
	return r
}

// Go enqueues a task. When the queue is full or the runner is closed the task is dropped and logged.
func (r *AsyncRunner) Go(ctx context.Context, name string, task Task) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(name, "runner closed")
		return
	}

	select {
	case r.queue <- job{ctx: context.WithoutCancel(ctx), name: name, task: task}:
	default:
		r.drop(name, "queue full")
	}
}

// Close stops accepting tasks and waits for queued ones to finish or ctx to expire.
func (r *AsyncRunner) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("side effects still running: %w", ctx.Err())
	}
}

func (r *AsyncRunner) worker() {
	defer r.wg.Done()
	for j := range r.queue {
		ctx := j.ctx
		var cancel context.CancelFunc = func() {}
		if r.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		execute(ctx, j.name, j.task, r.log, r.metrics)
		cancel()
	}
}

func (r *AsyncRunner) drop(name, reason string) {
	r.log.Error("side effect dropped", zap.String("task", name), zap.String("reason", reason))
	r.metrics.SideEffect(name, metrics.OutcomeDropped)
}

// SyncRunner runs tasks inline. It keeps the same isolation as AsyncRunner and
// suits tests and one-shot commands.
type SyncRunner struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewSyncRunner(log *zap.Logger, m *metrics.Metrics) *SyncRunner {
	return &SyncRunner{log: log.Named("sideeffect"), metrics: m}
}

func (r *SyncRunner) Go(ctx context.Context, name string, task Task) {
	execute(context.WithoutCancel(ctx), name, task, r.log, r.metrics)
}

func execute(ctx context.Context, name string, task Task, log *zap.Logger, m *metrics.Metrics) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("side effect panicked", zap.String("task", name), zap.Any("panic", rec), zap.Stack("stack"))
			m.SideEffect(name, metrics.OutcomePanic)
		}
	}()

	if err := task(ctx); err != nil {
		log.Error("side effect failed", zap.String("task", name), zap.Error(err))
		m.SideEffect(name, metrics.OutcomeError)
		return
	}
	m.SideEffect(name, metrics.OutcomeOK)
}

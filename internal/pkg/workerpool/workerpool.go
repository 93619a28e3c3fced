package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a unit of background work. Fn must be safe to run concurrently.
// ResultC, when set, receives the outcome.
type Task struct {
	Name    string
	Fn      func(ctx context.Context) (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

type WorkerPool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts workerCount workers sharing a queue of queueSize tasks.
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		tasks:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	wp.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		wp.run(task)
	}
}

func (wp *WorkerPool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("background task panicked", "task", task.Name, "panic", r)
			if task.ResultC != nil {
				task.ResultC <- Result{Err: errors.New("task panicked")}
			}
		}
	}()

	res, err := task.Fn(wp.ctx)
	if err != nil {
		slog.Warn("background task failed", "task", task.Name, "error", err)
	}
	if task.ResultC != nil {
		task.ResultC <- Result{Value: res, Err: err}
	}
}

// Submit queues a task, blocking while the queue is full.
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}
	wp.tasks <- task
	return nil
}

// Close stops accepting tasks, drains the queue and waits for the workers.
// Running tasks see their context cancelled once ctx is done.
func (wp *WorkerPool) Close(ctx context.Context) {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.tasks)
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		wp.cancel()
		<-done
	}
	wp.cancel()
}

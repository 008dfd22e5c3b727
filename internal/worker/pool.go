// Package worker runs accepted generations through the asynchronous half of
// the job state machine on a bounded pool.
package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// JobExecutor executes one generation to a terminal status. It must not
// return before a terminal status is written, whatever happens inside.
type JobExecutor interface {
	Execute(ctx context.Context, generationID string)
}

// Pool is a fixed-size worker pool over a bounded queue. Enqueue never
// blocks the request path: a full queue rejects the job instead.
type Pool struct {
	queue    chan string
	executor JobExecutor
	size     int
	logger   *zap.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewPool(size, queueSize int, executor JobExecutor, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if queueSize < size {
		queueSize = size
	}
	return &Pool{
		queue:    make(chan string, queueSize),
		executor: executor,
		size:     size,
		logger:   logger,
	}
}

// Start launches the workers. They drain the queue until Stop is called and
// the queue is empty, or the context is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
	p.logger.Info("worker pool started",
		zap.Int("workers", p.size),
		zap.Int("queue_size", cap(p.queue)),
	)
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case generationID, ok := <-p.queue:
			if !ok {
				return
			}
			p.logger.Debug("worker picked up generation",
				zap.Int("worker", id),
				zap.String("generation_id", generationID),
			)
			p.executor.Execute(ctx, generationID)
		}
	}
}

// Enqueue schedules a generation for execution.
func (p *Pool) Enqueue(generationID string) error {
	select {
	case p.queue <- generationID:
		return nil
	default:
		return fmt.Errorf("job queue full (%d pending)", cap(p.queue))
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}

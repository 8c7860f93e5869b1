// Package worker provides the concurrency primitives for batch analysis:
// a fixed-size job pool and a per-host rate limiter.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers. Submit then Wait; the pool is
// single-use.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count (minimum one).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Dropped silently after Shutdown.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Close stops accepting jobs and closes the result stream once every
// running job has finished. Callers submitting more jobs than the channel
// buffers hold must drain Results concurrently and call Close from the
// submitting goroutine.
func (p *Pool) Close() {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

// Results exposes the result stream for callers that drain while submitting.
// The channel closes after Close once all jobs have finished.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Wait closes the queue, drains every result, and returns them. Order is
// completion order, not submission order. Safe only when every submitted
// job fits the channel buffers; larger batches must use Results and Close.
func (p *Pool) Wait() []Result {
	p.Close()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown cancels in-flight jobs and stops the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

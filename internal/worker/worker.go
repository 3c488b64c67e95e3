package worker

import (
	"context"
	"errors"
	"sync"
)

type Job any

type ProcessFunc func(ctx context.Context, job Job) error

// Pool runs submitted jobs on a fixed number of goroutines and keeps every
// error a job returns.
type Pool struct {
	numWorkers int
	jobs       chan Job
	processor  ProcessFunc
	wg         sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

func NewPool(numWorkers int, bufferSize int, processor ProcessFunc) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, bufferSize),
		processor:  processor,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.processor(ctx, job); err != nil {
				p.mu.Lock()
				p.errs = append(p.errs, err)
				p.mu.Unlock()
			}
		}
	}
}

// Submit blocks while the buffer is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Stop closes the queue and waits for the workers to drain it or for the
// context passed to Start to end.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Err joins every job error seen so far. Call after Stop for a complete result.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

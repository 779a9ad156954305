package parallel

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Result is the outcome of one job.
type Result struct {
	Key      string
	Err      error
	Duration time.Duration

	seq int
}

// WorkerPool runs jobs with bounded concurrency. A failing job never stops
// the others.
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []Result
	submitted  int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a pool running at most maxWorkers jobs at once.
// A maxWorkers of 0 or less means no limit.
func NewWorkerPool(ctx context.Context, maxWorkers int) *WorkerPool {
	if maxWorkers < 0 {
		maxWorkers = 0
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit schedules fn under key. Jobs still waiting for a slot when the
// pool's context ends are recorded with the context error.
func (p *WorkerPool) Submit(key string, fn func(ctx context.Context) error) {
	p.mu.Lock()
	seq := p.submitted
	p.submitted++
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				p.record(Result{Key: key, Err: p.ctx.Err(), seq: seq})
				return
			}
		}
		if err := p.ctx.Err(); err != nil {
			p.record(Result{Key: key, Err: err, seq: seq})
			return
		}

		start := time.Now()
		err := fn(p.ctx)
		p.record(Result{Key: key, Err: err, Duration: time.Since(start), seq: seq})
	}()
}

func (p *WorkerPool) record(r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
}

// Wait blocks until every submitted job has finished and returns the
// results in submission order, plus the failures wrapped with their key.
func (p *WorkerPool) Wait() ([]Result, []error) {
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, len(p.results))
	copy(results, p.results)
	sort.Slice(results, func(i, j int) bool { return results[i].seq < results[j].seq })

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Key, r.Err))
		}
	}
	return results, errs
}

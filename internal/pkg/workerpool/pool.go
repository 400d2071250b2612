package workerpool

import (
	"context"
	"sync"
	"time"
)

// Job is one unit of work. Key identifies it in the result stream.
type Job struct {
	Key string
	Run func(ctx context.Context) error
}

type Result struct {
	Key string
	Err error
}

// Pool runs submitted jobs on a fixed number of goroutines, optionally
// throttled to a number of job starts per second.
type Pool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, buffer),
	}
}

func (p *Pool) Workers() int {
	if p == nil {
		return 0
	}
	return p.workers
}

// SetRateLimit must be called before Run.
func (p *Pool) SetRateLimit(perSecond int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	if perSecond <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(perSecond))
	p.rate = p.ticker.C
}

// Submit blocks until a worker or the buffer takes the job, or ctx ends.
func (p *Pool) Submit(ctx context.Context, j Job) bool {
	if p == nil || j.Run == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case p.jobs <- j:
		return true
	}
}

// Close stops accepting jobs. Workers drain what was already submitted.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.jobs)
}

func (p *Pool) stopTicker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
}

// Run starts the workers. The returned channel closes once every worker has
// exited; callers must drain it.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					err := j.Run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Key: j.Key, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.stopTicker()
		close(out)
	}()

	return out
}

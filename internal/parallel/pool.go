// Package parallel runs independent rendering jobs on a fixed set of
// goroutines.
//
// A render splits its pixel grid into disjoint row bands (see Bands) and
// hands one job per band to WorkerPool.ExecuteAll. Each job writes only the
// rows it owns, so no locking is needed while the jobs run; ExecuteAll
// returns once every job has finished.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool is a fixed set of goroutines executing batches of jobs.
//
// Every worker has its own queue. A worker whose queue is empty steals from
// the others, which evens out bands that take longer (rows crossing the
// set boundary iterate up to the cap).
//
// WorkerPool is safe for concurrent use. Batches submitted from several
// goroutines interleave on the same workers.
type WorkerPool struct {
	workers int
	queues  []chan func()

	// mu is held for reading by every in-flight ExecuteAll and for writing
	// by Close, so Close never strands a queued job.
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			return
		case job := <-own:
			job()
			continue
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}

		select {
		case <-p.done:
			return
		case job := <-own:
			job()
		}
	}
}

// steal takes one job from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case job := <-p.queues[(id+i)%p.workers]:
			return job
		default:
		}
	}
	return nil
}

// ExecuteAll runs every job and returns when all of them have finished.
// Jobs are dealt round-robin across the worker queues.
//
// On a closed pool the jobs run sequentially on the calling goroutine, so
// ExecuteAll always completes the whole batch.
func (p *WorkerPool) ExecuteAll(jobs []func()) {
	if len(jobs) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		for _, job := range jobs {
			job()
		}
		return
	}

	var batch sync.WaitGroup
	batch.Add(len(jobs))
	for i, job := range jobs {
		p.queues[i%p.workers] <- func() {
			defer batch.Done()
			job()
		}
	}
	batch.Wait()
}

// Close waits for in-flight batches and stops the workers.
// Close is safe to call more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

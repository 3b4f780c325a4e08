package pool

import (
	"sync"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// Handler processes one job by ID
type Handler func(ID string)

// Pool runs jobs on a bounded set of workers.
// Submitted IDs wait in an unbounded queue, Submit never blocks.
// Once started a job runs to completion, there is no cancellation
type Pool struct {
	handler Handler
	workers int

	lock    sync.Mutex
	cond    *sync.Cond
	queue   []string
	stopped bool
	wg      sync.WaitGroup
}

// NewPool creates the pool. Workers are not started yet
func NewPool(workers int, handler Handler) (*Pool, error) {
	if workers < 1 {
		return nil, errors.Errorf("Wrong worker count %d", workers)
	}
	if handler == nil {
		return nil, errors.New("No job handler provided")
	}
	p := &Pool{workers: workers, handler: handler}
	p.cond = sync.NewCond(&p.lock)
	return p, nil
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	cmdapp.Log.Infof("Starting %d job workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
}

// Submit enqueues the job ID and returns immediately
func (p *Pool) Submit(ID string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.stopped {
		cmdapp.Log.Warnf("Pool is stopped, dropping job %s", ID)
		return
	}
	p.queue = append(p.queue, ID)
	p.cond.Signal()
}

// Close stops accepting work and waits for running jobs to finish.
// Queued jobs are dropped
func (p *Pool) Close() error {
	p.lock.Lock()
	p.stopped = true
	p.queue = nil
	p.cond.Broadcast()
	p.lock.Unlock()
	p.wg.Wait()
	return nil
}

func (p *Pool) work(n int) {
	defer p.wg.Done()
	for {
		id, ok := p.take()
		if !ok {
			cmdapp.Log.Infof("Stopped worker %d", n)
			return
		}
		cmdapp.Log.Infof("Worker %d takes job %s", n, id)
		p.handler(id)
	}
}

func (p *Pool) take() (string, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for len(p.queue) == 0 && !p.stopped {
		p.cond.Wait()
	}
	if p.stopped {
		return "", false
	}
	id := p.queue[0]
	p.queue = p.queue[1:]
	return id, true
}

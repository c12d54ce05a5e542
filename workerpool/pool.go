// Package workerpool implements a fixed number of reusable workers fed by an
// unbounded first-in-first-out task queue.
package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
)

var (
	// ErrPoolStopped occurs when a task is submitted after Stop.
	ErrPoolStopped = errors.New("worker pool stopped")

	// ErrInvalidSize occurs when a pool is created with less than one worker.
	ErrInvalidSize = errors.New("worker pool size must be positive")
)

// Task is a unit of work run by a pool worker.
type Task func()

// Pool runs submitted tasks on a fixed set of worker goroutines.
// Tasks that arrive while every worker is busy wait in a FIFO queue which has
// no size limit.
type Pool struct {
	size int

	mx      sync.Mutex
	cond    *sync.Cond
	queue   *deque.Deque[Task]
	running int
	stopped bool

	wg   sync.WaitGroup
	once sync.Once
}

// New creates a pool and starts its workers.
func New(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	p := &Pool{
		size:  size,
		queue: deque.New[Task](),
	}
	p.cond = sync.NewCond(&p.mx)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p, nil
}

// Submit enqueues a task. It never waits for a free worker.
func (p *Pool) Submit(task Task) error {
	p.mx.Lock()
	defer p.mx.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	p.queue.PushBack(task)
	p.cond.Signal()
	return nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Running returns the number of tasks currently executing.
func (p *Pool) Running() int {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.running
}

// Queued returns the number of tasks waiting for a worker.
func (p *Pool) Queued() int {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.queue.Len()
}

// Stop refuses further submissions, lets the workers finish every task that
// is already queued and waits for them to exit.
func (p *Pool) Stop() {
	p.once.Do(func() {
		p.mx.Lock()
		p.stopped = true
		p.cond.Broadcast()
		p.mx.Unlock()
	})
	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()

	for {
		task, ok := p.next()
		if !ok {
			return
		}
		p.run(task)
	}
}

// next blocks until a task is available. It returns false once the pool is
// stopped and the queue is empty.
func (p *Pool) next() (Task, bool) {
	p.mx.Lock()
	defer p.mx.Unlock()

	for p.queue.Len() == 0 {
		if p.stopped {
			return nil, false
		}
		p.cond.Wait()
	}
	p.running++
	return p.queue.PopFront(), true
}

func (p *Pool) run(task Task) {
	defer func() {
		p.mx.Lock()
		p.running--
		p.mx.Unlock()
	}()
	task()
}

package dateserver

import (
	"fmt"
	"sync"

	"github.com/skycoin/dateserver/workerpool"
)

// Strategy selects how accepted connections are given an execution context.
type Strategy string

// Strategies.
const (
	// StrategyUnbounded starts one goroutine per connection, without a limit.
	StrategyUnbounded Strategy = "unbounded"
	// StrategyBounded submits every connection to a fixed size worker pool.
	StrategyBounded Strategy = "bounded"
)

// Dispatcher runs tasks concurrently with the accept loop.
type Dispatcher interface {
	// Dispatch hands task off for execution. It must not wait for task.
	Dispatch(task func()) error
	// Close waits for dispatched tasks to return.
	Close()
}

// NewDispatcher creates the dispatcher for strategy. poolSize is only used by
// StrategyBounded.
func NewDispatcher(strategy Strategy, poolSize int) (Dispatcher, error) {
	switch strategy {
	case StrategyUnbounded:
		return NewGoDispatcher(), nil
	case StrategyBounded:
		return NewPoolDispatcher(poolSize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// GoDispatcher starts a new goroutine for every task.
type GoDispatcher struct {
	wg sync.WaitGroup
}

// NewGoDispatcher creates a GoDispatcher.
func NewGoDispatcher() *GoDispatcher {
	return new(GoDispatcher)
}

// Dispatch implements Dispatcher.
func (d *GoDispatcher) Dispatch(task func()) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		task()
	}()
	return nil
}

// Close implements Dispatcher.
func (d *GoDispatcher) Close() {
	d.wg.Wait()
}

// PoolDispatcher submits tasks to a workerpool.Pool.
type PoolDispatcher struct {
	pool *workerpool.Pool
}

// NewPoolDispatcher creates a PoolDispatcher and starts its size workers.
func NewPoolDispatcher(size int) (*PoolDispatcher, error) {
	pool, err := workerpool.New(size)
	if err != nil {
		return nil, err
	}
	return &PoolDispatcher{pool: pool}, nil
}

// Dispatch implements Dispatcher.
func (d *PoolDispatcher) Dispatch(task func()) error {
	return d.pool.Submit(task)
}

// Close implements Dispatcher.
func (d *PoolDispatcher) Close() {
	d.pool.Stop()
}

// Pool returns the underlying pool.
func (d *PoolDispatcher) Pool() *workerpool.Pool {
	return d.pool
}

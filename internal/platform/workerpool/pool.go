// Package workerpool bounds background work with an ants goroutine pool.
package workerpool

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

var (
	// ErrPoolClosed is returned when work is submitted after Shutdown
	ErrPoolClosed = ants.ErrPoolClosed
	// ErrPoolOverload is returned by a nonblocking pool whose workers are all busy
	ErrPoolOverload = ants.ErrPoolOverload
)

type Config struct {
	Size int
	// Nonblocking makes Submit fail with ErrPoolOverload instead of waiting for a free worker
	Nonblocking bool
}

// Pool runs tasks on a fixed number of goroutines
type Pool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Pool, error) {
	pool, err := ants.NewPool(cfg.Size,
		ants.WithNonblocking(cfg.Nonblocking),
		ants.WithPanicHandler(func(p interface{}) {
			logger.Error("Worker task panicked", "panic", p)
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Pool{
		pool:   pool,
		logger: logger,
	}, nil
}

// Submit hands task to a worker without waiting for it to finish. A blocking
// pool waits for a free worker; a nonblocking one returns ErrPoolOverload.
func (p *Pool) Submit(task func()) error {
	if err := p.pool.Submit(task); err != nil {
		p.logger.Warn("Failed to submit task to worker pool", "error", err)
		return err
	}
	return nil
}

// Do runs task on the pool and waits for its result or for ctx to end
func (p *Pool) Do(ctx context.Context, task func(ctx context.Context) error) error {
	resultChan := make(chan error, 1)

	err := p.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- errors.New("worker task panicked")
				panic(r)
			}
		}()
		resultChan <- task(ctx)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases the pool; queued tasks are dropped
func (p *Pool) Shutdown() {
	p.logger.Info("Shutting down worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

// Running returns the number of running workers in the pool.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (p *Pool) Capacity() int {
	return p.pool.Cap()
}

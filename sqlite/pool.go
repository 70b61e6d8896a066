package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrPoolClosed is returned by Get once the pool is closed.
	ErrPoolClosed = errors.New("pool is closed")
	// ErrNotCheckedOut is returned by Put for a connection the pool did not
	// hand out, or one already put back.
	ErrNotCheckedOut = errors.New("connection is not checked out from this pool")
)

// PoolConfig configures a Pool.
type PoolConfig struct {
	// Path is the database opened for every new connection.
	Path string
	// Options are passed to Open for every new connection.
	Options []Option
	// MaxConns is the maximum number of connections checked out at once.
	// Must be greater than zero.
	MaxConns int
	// MaxIdle is the maximum number of connections kept open while idle.
	// Must be between zero and MaxConns.
	MaxIdle int
}

// Pool hands out connections to the same database, at most one goroutine per
// connection. It is safe for concurrent use.
type Pool struct {
	PoolConfig

	sem *semaphore.Weighted

	mu     sync.Mutex
	closed bool
	idle   []*Conn
	inUse  map[*Conn]struct{}

	closing context.Context
	cancel  context.CancelFunc
}

// NewPool validates config and returns an empty pool. Connections are opened
// lazily by Get.
func NewPool(config PoolConfig) (*Pool, error) {
	if config.MaxConns <= 0 {
		return nil, errors.New("maxConns must be greater than zero")
	}
	if config.MaxIdle < 0 {
		return nil, errors.New("maxIdle cannot be negative")
	}
	if config.MaxIdle > config.MaxConns {
		return nil, errors.New("maxIdle cannot exceed maxConns")
	}

	closing, cancel := context.WithCancel(context.Background())
	return &Pool{
		PoolConfig: config,
		sem:        semaphore.NewWeighted(int64(config.MaxConns)),
		idle:       make([]*Conn, 0, config.MaxIdle),
		inUse:      make(map[*Conn]struct{}, config.MaxConns),
		closing:    closing,
		cancel:     cancel,
	}, nil
}

// Get returns an idle connection or opens a new one. When MaxConns
// connections are checked out it blocks until one is Put back, ctx is done
// or the pool is closed.
func (p *Pool) Get(ctx context.Context) (*Conn, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.closing, cancel)
	defer stop()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		if p.closing.Err() != nil {
			return nil, ErrPoolClosed
		}
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		conn := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.inUse[conn] = struct{}{}
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	conn, err := Open(p.Path, p.Options...)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}

	p.mu.Lock()
	p.inUse[conn] = struct{}{}
	p.mu.Unlock()
	return conn, nil
}

// Put gives back a connection obtained from Get. The connection is closed
// instead of kept when the pool is closed or MaxIdle connections are
// already idle. Each connection must be Put back once per Get; any other
// connection is refused with ErrNotCheckedOut.
func (p *Pool) Put(conn *Conn) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inUse[conn]; !ok {
		return ErrNotCheckedOut
	}
	delete(p.inUse, conn)
	defer p.sem.Release(1)

	if p.closed || conn.IsClosed() || len(p.idle) >= p.MaxIdle {
		return conn.Close()
	}
	p.idle = append(p.idle, conn)
	return nil
}

// Idle returns the number of idle connections.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Close closes every idle connection and makes later calls to Get fail.
// Connections checked out must still be Put back, and are closed then.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.cancel()

	var errs []error
	for _, conn := range p.idle {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.idle = nil
	return errors.Join(errs...)
}

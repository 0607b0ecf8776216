package redis

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size set of Engines dialed to the same server,
// dispatching each command to the next idle one in round-robin order.
// Blocking, transactional, and subscribed engines are skipped; if none
// are idle, a command fails fast with ErrPoolExhausted rather than
// queuing.
type Pool struct {
	Commands

	cfg     Config
	engines []*Engine
	log     *logrus.Logger

	mu     sync.Mutex
	rr     int
	closed bool
}

// NewPool dials cfg.PoolSize connections concurrently (each running
// its own AUTH/SELECT handshake) and returns a ready Pool. If any
// single connection fails, every connection already established is
// closed and the first error is returned -- there is no partial pool.
func NewPool(ctx context.Context, cfg Config) (*Pool, error) {
	cfg = cfg.normalized()
	if _, err := encodeString(cfg.Encoding, ""); err != nil {
		return nil, err
	}

	engines := make([]*Engine, cfg.PoolSize)
	g, gctx := errgroup.WithContext(ctx)
	for i := range engines {
		i := i
		g.Go(func() error {
			e, err := DialEngine(gctx, cfg)
			if err != nil {
				return err
			}
			engines[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, e := range engines {
			if e != nil {
				_ = e.Close()
			}
		}
		return nil, err
	}

	p := &Pool{cfg: cfg, engines: engines, log: loggerOrDefault(cfg.Logger)}
	p.Commands = Commands{ex: poolExecutor{p}}
	return p, nil
}

// Size returns the number of connections in the pool.
func (p *Pool) Size() int { return len(p.engines) }

// Engine exposes the i'th underlying connection directly, e.g. to
// start a Transaction bound to it (EnterMulti picks no engine for
// you: a transaction is inherently tied to one connection).
func (p *Pool) Engine(i int) *Engine { return p.engines[i] }

// Close closes every engine in the pool. Already in-flight commands
// fail with ConnectionLostError.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for _, e := range p.engines {
		_ = e.Close()
	}
	return nil
}

// pick returns the current rotation index and the engine count, and
// advances the index by exactly one per call regardless of how many
// engines the caller then skips while scanning from start for one
// that is not in use.
func (p *Pool) pick() (start, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n = len(p.engines)
	start = p.rr
	p.rr = (p.rr + 1) % n
	return start, n
}

// poolExecutor adapts *Pool to the executor interface: it claims the
// next idle engine (atomically, via Engine.sendIfIdle) and dispatches
// there, or returns ErrPoolExhausted once every engine has been tried.
type poolExecutor struct{ p *Pool }

func (x poolExecutor) exec(ctx context.Context, args [][]byte, blocking bool) (*rawFuture, error) {
	p := x.p
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	start, n := p.pick()
	if n == 0 {
		return nil, ErrPoolExhausted
	}
	for i := 0; i < n; i++ {
		e := p.engines[(start+i)%n]
		fut, ok, err := e.sendIfIdle(ctx, args, blocking)
		if ok {
			return fut, err
		}
	}
	return nil, ErrPoolExhausted
}

func (x poolExecutor) encode(s string) ([]byte, error) {
	return encodeString(x.p.cfg.Encoding, s)
}

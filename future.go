package redis

import "context"

// rawFuture is the untyped one-shot future returned by the engine's
// dispatch primitives: either an already-resolved reply (the common,
// non-transaction case) or a detached slot that resolves later, at
// EXEC time, when the command was issued inside a MULTI block.
type rawFuture struct {
	ch <-chan replyResult
}

func immediateFuture(r Reply, err error) *rawFuture {
	ch := make(chan replyResult, 1)
	ch <- replyResult{reply: r, err: err}
	return &rawFuture{ch: ch}
}

func (f *rawFuture) Get(ctx context.Context) (Reply, error) {
	select {
	case res := <-f.ch:
		return res.reply, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Future is the typed handle every command method returns. Outside a
// transaction it is already resolved by the time the method returns;
// inside a transaction (via a Transaction handle) it stays detached
// and pending until Transaction.Exec runs, at which point its slot is
// filled in from EXEC's reply array. Get suspends until the value (or
// its error) is available, or ctx is done.
type Future[T any] struct {
	raw    *rawFuture
	decode func(context.Context, Reply) (T, error)
}

// Get resolves the future, applying the command's post-processor.
func (fu *Future[T]) Get(ctx context.Context) (T, error) {
	var zero T
	r, err := fu.raw.Get(ctx)
	if err != nil {
		return zero, err
	}
	return fu.decode(ctx, r)
}

// executor is the one seam Commands is built on: Engine, Transaction
// and Pool each implement it differently (direct dispatch, detached
// dispatch while bound to a MULTI, and idle-engine selection) while
// sharing the exact same typed command bodies.
type executor interface {
	exec(ctx context.Context, args [][]byte, blocking bool) (*rawFuture, error)
	encode(s string) ([]byte, error)
}

// Commands is the typed Redis command surface. It is embedded by
// Engine, Transaction and Pool, each of which supplies a different
// executor at construction time; the roughly 100 command methods (in
// the commands_*.go files) are defined exactly once and promoted to
// all three.
type Commands struct {
	ex executor
}

func call[T any](ctx context.Context, c Commands, args [][]byte, blocking bool, decode func(context.Context, Reply) (T, error)) (*Future[T], error) {
	raw, err := c.ex.exec(ctx, args, blocking)
	if err != nil {
		return nil, err
	}
	return &Future[T]{raw: raw, decode: decode}, nil
}

// encodeAll validates every string argument up front and returns
// their raw byte slices, or nil and the first EncodingError
// encountered.
func (c Commands) encodeAll(ss ...string) ([][]byte, error) {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		b, err := c.ex.encode(s)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

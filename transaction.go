package redis

import "context"

// Transaction is the handle returned by Engine.EnterMulti. Every
// command issued through it (via its embedded Commands) is queued
// server-side and resolves only once Exec runs; the handle itself
// becomes invalid -- ErrTransactionFinished on any further use -- the
// moment Exec or Discard completes.
type Transaction struct {
	Commands

	engine *Engine
	gen    uint64
	done   bool
}

// EnterMulti issues WATCH for each of watchKeys (if any) followed by
// MULTI, and returns a Transaction bound to e. e itself rejects direct
// command calls for as long as the transaction is open: use the
// returned handle instead.
func (e *Engine) EnterMulti(ctx context.Context, watchKeys ...string) (*Transaction, error) {
	return e.enterMulti(ctx, watchKeys)
}

func (t *Transaction) checkValid() error {
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if t.done || t.engine.mode != modeTransactional || t.engine.txGen != t.gen {
		return ErrTransactionFinished
	}
	return nil
}

// Exec sends EXEC. On return, every future obtained from a command
// issued through this handle is resolved (or failed, individually, if
// that one queued command errored). If a watched key changed, Exec
// returns ErrTransactionAborted and every queued future fails with it.
func (t *Transaction) Exec(ctx context.Context) error {
	if err := t.checkValid(); err != nil {
		return err
	}
	t.done = true
	return t.engine.execMulti(ctx)
}

// Discard sends DISCARD, abandoning every command queued so far; their
// futures all fail with ErrTransactionDiscarded.
func (t *Transaction) Discard(ctx context.Context) error {
	if err := t.checkValid(); err != nil {
		return err
	}
	t.done = true
	return t.engine.discardMulti(ctx)
}

// Unwatch sends UNWATCH. Unlike real Redis (which would queue it like
// any other command once inside MULTI), this runs immediately: see
// DESIGN.md for why.
func (t *Transaction) Unwatch(ctx context.Context) error {
	if err := t.checkValid(); err != nil {
		return err
	}
	return t.engine.unwatch(ctx)
}

// transactionExecutor adapts *Transaction to the executor interface:
// every command bypasses Engine's "not in transaction context" guard
// (this is the one legitimate route while mode is Transactional) and
// goes straight to the engine's detached-future dispatch.
type transactionExecutor struct{ t *Transaction }

func (x transactionExecutor) exec(ctx context.Context, args [][]byte, blocking bool) (*rawFuture, error) {
	if err := x.t.checkValid(); err != nil {
		return nil, err
	}
	return x.t.engine.sendAndAwait(ctx, args, blocking)
}

func (x transactionExecutor) encode(s string) ([]byte, error) {
	return x.t.engine.encode(s)
}

package redis

import (
	"container/list"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Transport is the byte pipe an Engine drives: one TCP (or unix
// socket) connection to a Redis server. Engine owns a single reader
// goroutine that issues blocking Read calls against it.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

type engineMode int

const (
	modeNormal engineMode = iota
	modeTransactional
	modeSubscribed
)

// txEntry is one command queued inside a MULTI block: its detached
// slot (resolved at EXEC) and the PipelinedCall bookkeeping entry that
// must be removed once that slot resolves.
type txEntry struct {
	slot *replySlot
	call *PipelinedCall
}

// queueEntry is one element of the engine's reply queue. It is either
// a top-level command's slot or a multi-bulk child forwarding into its
// parent's MultiBulkHandle; exactly one of slot and handle is set.
// subscribeAck marks the slot of a SUBSCRIBE awaiting its first
// acknowledgement.
type queueEntry struct {
	slot         *replySlot
	handle       *MultiBulkHandle
	subscribeAck bool
}

func (q queueEntry) resolve(r Reply) {
	if q.slot != nil {
		q.slot.resolve(r)
		return
	}
	q.handle.push(r, nil)
}

func (q queueEntry) fail(err error) {
	if q.slot != nil {
		q.slot.fail(err)
		return
	}
	q.handle.push(nil, err)
}

// Engine is the pipelined protocol driver bound to one Transport. It
// decodes incoming replies with a single reader goroutine, correlates
// them in FIFO order against outstanding commands via a reply queue,
// and carries the connection through Normal, Transactional and
// Subscribed modes.
//
// An Engine's command surface (Get, Set, LPush, ...) is reached
// through its embedded Commands; it rejects commands while mid-MULTI
// with ErrNotInTransactionContext -- callers must go through the
// Transaction handle returned by EnterMulti instead.
type Engine struct {
	Commands

	conn     Transport
	dec      *Decoder
	log      *logrus.Logger
	encoding string

	mu          sync.Mutex
	queue       *list.List
	mode        engineMode
	activeCalls map[*PipelinedCall]struct{}
	txQueue     []txEntry
	txGen       uint64
	pubsub      *pubsubQueue
	closed      bool
	closeErr    error

	stopped chan struct{}
}

// newEngine wraps conn and starts its reader goroutine. log may be nil
// (DefaultLogger is used); encoding is the Config.Encoding already
// validated by the caller.
func newEngine(conn Transport, log *logrus.Logger, encoding string) *Engine {
	e := &Engine{
		conn:        conn,
		dec:         NewDecoder(),
		log:         loggerOrDefault(log),
		encoding:    encoding,
		queue:       list.New(),
		activeCalls: make(map[*PipelinedCall]struct{}),
		stopped:     make(chan struct{}),
	}
	e.Commands = Commands{ex: engineExecutor{e}}
	go e.readLoop()
	return e
}

func (e *Engine) encode(s string) ([]byte, error) {
	return encodeString(e.encoding, s)
}

// InUse reports whether the engine is unavailable for new pool work:
// blocking on a command, mid-transaction, or dedicated to pub/sub.
func (e *Engine) InUse() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inUseLocked()
}

func (e *Engine) inUseLocked() bool {
	if e.mode != modeNormal {
		return true
	}
	for c := range e.activeCalls {
		if c.Blocking {
			return true
		}
	}
	return false
}

func (e *Engine) isTransactional() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode == modeTransactional
}

func (e *Engine) removeCall(call *PipelinedCall) {
	e.mu.Lock()
	delete(e.activeCalls, call)
	e.mu.Unlock()
}

// readLoop is the engine's single reader: it blocks on conn.Read,
// feeds everything read to the decoder, and dispatches each decoded
// reply in order. It exits, and shuts the engine down, on the first
// transport or protocol error.
func (e *Engine) readLoop() {
	defer close(e.stopped)
	buf := make([]byte, 4096)
	for {
		n, err := e.conn.Read(buf)
		if n > 0 {
			replies, derr := e.dec.Feed(buf[:n])
			for _, r := range replies {
				e.dispatch(r)
			}
			if derr != nil {
				e.shutdown(derr)
				return
			}
		}
		if err != nil {
			e.shutdown(err)
			return
		}
	}
}

// dispatch applies one decoded reply to the reply queue: pub/sub
// diversion while Subscribed and the queue is empty, error promotion,
// and multi-bulk child reservation, in that order.
func (e *Engine) dispatch(r Reply) {
	e.mu.Lock()

	if e.mode == modeSubscribed {
		if mb, ok := r.(MultiBulkReply); ok && !mb.Null && e.queue.Len() == 0 {
			e.pushChildrenLocked(mb)
			e.mu.Unlock()
			go e.deliverPubsub(mb)
			return
		}
	}

	front := e.queue.Front()
	if front == nil {
		e.mu.Unlock()
		e.shutdown(&ProtocolError{Detail: "reply received with no pending request"})
		return
	}
	e.queue.Remove(front)
	entry := front.Value.(queueEntry)

	if entry.subscribeAck {
		if _, ok := r.(MultiBulkReply); ok && e.mode != modeSubscribed {
			e.mode = modeSubscribed
			if e.pubsub == nil {
				e.pubsub = newPubsubQueue()
			}
		}
	}

	if errR, ok := r.(ErrorReply); ok {
		e.mu.Unlock()
		entry.fail(ServerError(errR.Message))
		return
	}

	if mb, ok := r.(MultiBulkReply); ok && !mb.Null {
		e.pushChildrenLocked(mb)
	}
	e.mu.Unlock()
	entry.resolve(r)
}

// pushChildrenLocked reserves mb.N queue slots for the children of a
// just-dequeued (or diverted) multi-bulk header, at the front of the
// queue so they are attributed before anything queued behind them.
// Caller must hold e.mu.
func (e *Engine) pushChildrenLocked(mb MultiBulkReply) {
	for i := mb.N - 1; i >= 0; i-- {
		e.queue.PushFront(queueEntry{handle: mb.Handle})
	}
}

func (e *Engine) deliverPubsub(mb MultiBulkReply) {
	items, err := mb.Handle.TakeAll(context.Background())
	if err != nil {
		return
	}
	msg := make([]string, 0, len(items))
	for _, it := range items {
		s, _, _ := decodeBulk(context.Background(), it)
		if i, ok := it.(IntegerReply); ok {
			s = strconv.FormatInt(i.Value, 10)
		}
		msg = append(msg, s)
	}
	e.mu.Lock()
	pq := e.pubsub
	e.mu.Unlock()
	if pq != nil {
		pq.push(msg)
	}
}

// nextPublished returns the next pub/sub message (subscribe/
// unsubscribe acknowledgement, "message" or "pmessage" frame) for an
// engine already in Subscribed mode.
func (e *Engine) nextPublished(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	pq := e.pubsub
	e.mu.Unlock()
	if pq == nil {
		return nil, fmt.Errorf("redis: engine is not subscribed")
	}
	return pq.receive(ctx)
}

// enqueueLocked writes the command frame and pushes a fresh slot onto
// the reply queue. Caller must hold e.mu and have verified the engine
// is open.
func (e *Engine) enqueueLocked(args [][]byte, blocking bool) (*replySlot, *PipelinedCall, error) {
	call := &PipelinedCall{Name: strings.ToUpper(string(args[0])), Blocking: blocking}
	frame := EncodeCommand(args)
	if _, err := e.conn.Write(frame); err != nil {
		return nil, nil, err
	}
	slot := newReplySlot()
	e.activeCalls[call] = struct{}{}
	e.queue.PushBack(queueEntry{slot: slot})
	return slot, call, nil
}

// sendAndAwait is the ordinary command entry point. Outside a
// transaction it suspends for the real reply and returns it resolved.
// Inside one, the wire reply must be Status(QUEUED); the user-visible
// future is detached into txQueue and resolves later, at EXEC.
func (e *Engine) sendAndAwait(ctx context.Context, args [][]byte, blocking bool) (*rawFuture, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	inTx := e.mode == modeTransactional
	slot, call, err := e.enqueueLocked(args, blocking)
	e.mu.Unlock()
	if err != nil {
		e.shutdown(err)
		return nil, &ConnectionLostError{Cause: err}
	}

	reply, werr := slot.await(ctx)
	if werr != nil {
		e.removeCall(call)
		return nil, werr
	}

	if inTx {
		status, ok := reply.(StatusReply)
		if !ok || status.Status != "QUEUED" {
			e.removeCall(call)
			return nil, &ProtocolError{Detail: "expected QUEUED while inside MULTI"}
		}
		detached := newReplySlot()
		e.mu.Lock()
		e.txQueue = append(e.txQueue, txEntry{slot: detached, call: call})
		e.mu.Unlock()
		return &rawFuture{ch: detached.ch}, nil
	}

	e.removeCall(call)
	return immediateFuture(reply, nil), nil
}

// sendAndAwaitBypass is for the transaction-control commands sent
// while mode is Transactional (EXEC, DISCARD, UNWATCH): they always
// run immediately, never QUEUED. MULTI itself is sent before the mode
// changes and goes through sendAndAwait.
func (e *Engine) sendAndAwaitBypass(ctx context.Context, args [][]byte) (*rawFuture, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	slot, call, err := e.enqueueLocked(args, false)
	e.mu.Unlock()
	if err != nil {
		e.shutdown(err)
		return nil, &ConnectionLostError{Cause: err}
	}

	reply, werr := slot.await(ctx)
	e.removeCall(call)
	if werr != nil {
		return nil, werr
	}
	return immediateFuture(reply, nil), nil
}

// sendIfIdle is the pool's atomic "claim or skip" entry point. It
// behaves like sendAndAwait for a Normal-mode engine, but the busy
// check and the enqueue happen under the same lock, closing the race
// between pool selection and dispatch: ok is false when the engine was
// already in use and the caller should try the next one.
func (e *Engine) sendIfIdle(ctx context.Context, args [][]byte, blocking bool) (fut *rawFuture, ok bool, err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, true, ErrClosed
	}
	if e.inUseLocked() {
		e.mu.Unlock()
		return nil, false, nil
	}
	slot, call, werr := e.enqueueLocked(args, blocking)
	e.mu.Unlock()
	if werr != nil {
		e.shutdown(werr)
		return nil, true, &ConnectionLostError{Cause: werr}
	}

	reply, aerr := slot.await(ctx)
	e.removeCall(call)
	if aerr != nil {
		return nil, true, aerr
	}
	return immediateFuture(reply, nil), true, nil
}

// subscribe sends SUBSCRIBE for the given channels and, on its
// acknowledgement, transitions the engine into Subscribed mode (sticky
// for the remainder of the connection's life, per spec: there is no
// UNSUBSCRIBE path back to Normal).
func (e *Engine) subscribe(ctx context.Context, channels []string) ([]string, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("redis: subscribe requires at least one channel")
	}
	chBytes, err := e.encodeAll(channels...)
	if err != nil {
		return nil, err
	}
	args := append([][]byte{[]byte("SUBSCRIBE")}, chBytes...)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	if e.mode == modeTransactional {
		e.mu.Unlock()
		return nil, ErrNotInTransactionContext
	}
	frame := EncodeCommand(args)
	if _, werr := e.conn.Write(frame); werr != nil {
		e.mu.Unlock()
		e.shutdown(werr)
		return nil, &ConnectionLostError{Cause: werr}
	}
	slot := newReplySlot()
	e.queue.PushBack(queueEntry{slot: slot, subscribeAck: true})
	e.mu.Unlock()

	reply, werr := slot.await(ctx)
	if werr != nil {
		return nil, werr
	}
	mb, ok := reply.(MultiBulkReply)
	if !ok {
		return nil, typeMismatch("SUBSCRIBE", "multi-bulk", reply)
	}
	items, err := mb.Handle.TakeAll(ctx)
	if err != nil {
		return nil, err
	}
	ack := make([]string, 0, len(items))
	for _, it := range items {
		s, _, _ := decodeBulk(ctx, it)
		if i, ok := it.(IntegerReply); ok {
			s = strconv.FormatInt(i.Value, 10)
		}
		ack = append(ack, s)
	}
	if len(ack) == 0 || ack[0] != "subscribe" {
		return nil, &ProtocolError{Detail: "expected subscribe acknowledgement"}
	}
	return ack, nil
}

// enterMulti issues WATCH for each key (if any) followed by MULTI, and
// on success returns a Transaction bound to this engine. Every command
// sent through that handle is queued server-side until Exec or
// Discard.
func (e *Engine) enterMulti(ctx context.Context, watchKeys []string) (*Transaction, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	switch e.mode {
	case modeTransactional:
		e.mu.Unlock()
		return nil, ErrAlreadyInTransaction
	case modeSubscribed:
		e.mu.Unlock()
		return nil, ErrNotInTransactionContext
	}
	e.mu.Unlock()

	for _, k := range watchKeys {
		kb, err := e.encode(k)
		if err != nil {
			return nil, err
		}
		fut, err := e.sendAndAwait(ctx, [][]byte{[]byte("WATCH"), kb}, false)
		if err != nil {
			return nil, err
		}
		reply, err := fut.Get(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := decodeOK(ctx, reply); err != nil {
			return nil, err
		}
	}

	fut, err := e.sendAndAwait(ctx, [][]byte{[]byte("MULTI")}, false)
	if err != nil {
		return nil, err
	}
	reply, err := fut.Get(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := decodeOK(ctx, reply); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.mode = modeTransactional
	e.txQueue = nil
	e.txGen++
	gen := e.txGen
	e.mu.Unlock()

	t := &Transaction{engine: e, gen: gen}
	t.Commands = Commands{ex: transactionExecutor{t}}
	return t, nil
}

// execMulti sends EXEC and resolves every detached transaction future
// in issue order, applying each one's own error independently so one
// failed queued command does not poison its siblings.
func (e *Engine) execMulti(ctx context.Context) error {
	e.mu.Lock()
	if e.mode != modeTransactional {
		e.mu.Unlock()
		return ErrNotInTransaction
	}
	entries := e.txQueue
	e.txQueue = nil
	e.mu.Unlock()

	fut, err := e.sendAndAwaitBypass(ctx, [][]byte{[]byte("EXEC")})
	if err != nil {
		e.failEntries(entries, err)
		return err
	}
	reply, err := fut.Get(ctx)
	if err != nil {
		e.failEntries(entries, err)
		return err
	}

	e.mu.Lock()
	e.mode = modeNormal
	e.mu.Unlock()

	mb, ok := reply.(MultiBulkReply)
	if !ok {
		e.failEntries(entries, &ProtocolError{Detail: "expected multi-bulk reply to EXEC"})
		return &ProtocolError{Detail: "expected multi-bulk reply to EXEC"}
	}
	if mb.Null {
		e.failEntries(entries, ErrTransactionAborted)
		return ErrTransactionAborted
	}

	items, err := mb.Handle.TakeAllTolerant(ctx)
	if err != nil {
		e.failEntries(entries, err)
		return err
	}
	if len(items) != len(entries) {
		e.failEntries(entries, &ProtocolError{Detail: "EXEC reply arity mismatch"})
		return &ProtocolError{Detail: "EXEC reply arity mismatch"}
	}
	for i, te := range entries {
		it := items[i]
		if it.Err != nil {
			te.slot.fail(it.Err)
		} else {
			te.slot.resolve(it.Reply)
		}
		e.removeCall(te.call)
	}
	return nil
}

func (e *Engine) failEntries(entries []txEntry, err error) {
	for _, te := range entries {
		te.slot.fail(err)
		e.removeCall(te.call)
	}
}

// discardMulti sends DISCARD and fails every queued future with
// ErrTransactionDiscarded.
func (e *Engine) discardMulti(ctx context.Context) error {
	e.mu.Lock()
	if e.mode != modeTransactional {
		e.mu.Unlock()
		return ErrNotInTransaction
	}
	entries := e.txQueue
	e.txQueue = nil
	e.mode = modeNormal
	e.mu.Unlock()

	e.failEntries(entries, ErrTransactionDiscarded)

	fut, err := e.sendAndAwaitBypass(ctx, [][]byte{[]byte("DISCARD")})
	if err != nil {
		return err
	}
	reply, err := fut.Get(ctx)
	if err != nil {
		return err
	}
	_, err = decodeOK(ctx, reply)
	return err
}

// unwatch sends UNWATCH. It runs immediately (bypassing the QUEUED
// protocol) rather than replaying the real Redis behavior of queuing
// it like any other command inside MULTI: see DESIGN.md for why.
func (e *Engine) unwatch(ctx context.Context) error {
	e.mu.Lock()
	if e.mode != modeTransactional {
		e.mu.Unlock()
		return ErrNotInTransaction
	}
	e.mu.Unlock()

	fut, err := e.sendAndAwaitBypass(ctx, [][]byte{[]byte("UNWATCH")})
	if err != nil {
		return err
	}
	reply, err := fut.Get(ctx)
	if err != nil {
		return err
	}
	_, err = decodeOK(ctx, reply)
	return err
}

// Close shuts the engine down cleanly: every pending reply and every
// queued transaction future is failed with ConnectionLostError{nil}.
func (e *Engine) Close() error {
	e.shutdown(nil)
	return nil
}

// shutdown is idempotent and may run from the reader goroutine (on a
// transport error) or from any command goroutine (on a write error or
// explicit Close).
func (e *Engine) shutdown(err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.closeErr = err

	var pending []queueEntry
	for el := e.queue.Front(); el != nil; el = el.Next() {
		pending = append(pending, el.Value.(queueEntry))
	}
	e.queue.Init()
	txPending := e.txQueue
	e.txQueue = nil
	pq := e.pubsub
	e.mu.Unlock()

	_ = e.conn.Close()

	lost := &ConnectionLostError{Cause: err}
	for _, entry := range pending {
		entry.fail(lost)
	}
	for _, te := range txPending {
		te.slot.fail(lost)
	}
	if pq != nil {
		pq.closeWith(lost)
	}

	if err != nil {
		e.log.WithField("err", err).Warn("redis: connection lost")
	} else {
		e.log.Debug("redis: engine closed")
	}
}

// engineExecutor adapts *Engine to the executor interface used by
// Commands: direct use, rejected while the engine is mid-transaction.
type engineExecutor struct{ e *Engine }

func (x engineExecutor) exec(ctx context.Context, args [][]byte, blocking bool) (*rawFuture, error) {
	if x.e.isTransactional() {
		return nil, ErrNotInTransactionContext
	}
	return x.e.sendAndAwait(ctx, args, blocking)
}

func (x engineExecutor) encode(s string) ([]byte, error) { return x.e.encode(s) }

package redis

import "context"

// replyResult is what a replySlot resolves to: either a raw Reply or
// an error (server error, protocol error, or connection loss).
type replyResult struct {
	reply Reply
	err   error
}

// replySlot is a one-shot future. It is created when a request is
// enqueued and resolved exactly once, either by the decoder dispatch
// loop or by Engine.shutdown on connection loss. The channel is
// buffered to size 1 so a resolve never blocks on an abandoned reader
// (spec §5: cancellation is not modeled at the protocol layer; the
// slot must always complete).
type replySlot struct {
	ch chan replyResult
}

func newReplySlot() *replySlot {
	return &replySlot{ch: make(chan replyResult, 1)}
}

func (s *replySlot) resolve(r Reply) {
	select {
	case s.ch <- replyResult{reply: r}:
	default:
	}
}

func (s *replySlot) fail(err error) {
	select {
	case s.ch <- replyResult{err: err}:
	default:
	}
}

func (s *replySlot) await(ctx context.Context) (Reply, error) {
	select {
	case res := <-s.ch:
		return res.reply, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PipelinedCall tracks one in-flight command: its name (for
// diagnostics) and whether it is a blocking command (BLPOP/BRPOP/
// BRPOPLPUSH), which the engine's InUse computation consults.
type PipelinedCall struct {
	Name     string
	Blocking bool
}

// MultiBulkHandle is a bounded FIFO of N future child replies belonging
// to one MultiBulkReply. Consumers may Take items one at a time (and
// suspend per item) or TakeAll to await the whole array. The engine's
// reader goroutine is the sole producer, via push; it fills the
// channel as child frames decode, even if no consumer is currently
// reading it.
type MultiBulkHandle struct {
	n     int
	items chan replyResult
}

func newMultiBulkHandle(n int) *MultiBulkHandle {
	if n < 0 {
		n = 0
	}
	return &MultiBulkHandle{n: n, items: make(chan replyResult, n)}
}

// Len returns the declared child count N.
func (h *MultiBulkHandle) Len() int { return h.n }

func (h *MultiBulkHandle) push(r Reply, err error) {
	h.items <- replyResult{reply: r, err: err}
}

// Take returns the next child reply, suspending until it arrives.
func (h *MultiBulkHandle) Take(ctx context.Context) (Reply, error) {
	select {
	case res := <-h.items:
		return res.reply, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TakeAll awaits all N children and returns them in wire order. It
// stops at the first error (connection loss, or a server error
// promoted by the dispatch loop), matching how an ordinary command's
// reply is consumed: a broken array isn't usable piecemeal.
func (h *MultiBulkHandle) TakeAll(ctx context.Context) ([]Reply, error) {
	out := make([]Reply, 0, h.n)
	for i := 0; i < h.n; i++ {
		r, err := h.Take(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Item pairs one child reply with its own error, for callers (EXEC)
// that must keep collecting siblings even when one element failed.
type Item struct {
	Reply Reply
	Err   error
}

// TakeAllTolerant awaits all N children unconditionally, never
// aborting early: a per-item server error (e.g. one queued command in
// a transaction hit WRONGTYPE) is carried on that Item alone so the
// remaining results are still delivered to their own futures.
func (h *MultiBulkHandle) TakeAllTolerant(ctx context.Context) ([]Item, error) {
	out := make([]Item, 0, h.n)
	for i := 0; i < h.n; i++ {
		select {
		case res := <-h.items:
			out = append(out, Item{Reply: res.reply, Err: res.err})
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, nil
}

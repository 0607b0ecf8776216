package redis

import "context"

// ZMember is one element of a sorted set range: a member and, when the
// command asked for WITHSCORES, its score.
type ZMember struct {
	Member string
	Score  float64
}

// ZRangeResult streams the member/score pairs of a ZRANGE-family reply
// without forcing every caller to pay for a collected slice: it wraps
// the same MultiBulkHandle the engine built for the underlying
// multi-bulk, pairing up consecutive (member, score) entries as they
// arrive.
type ZRangeResult struct {
	handle     *MultiBulkHandle
	withScores bool
	remaining  int // wire elements not yet Taken; decrements by 1 or 2 per Next
}

func newZRangeResult(handle *MultiBulkHandle, withScores bool) *ZRangeResult {
	return &ZRangeResult{handle: handle, withScores: withScores, remaining: handle.Len()}
}

// Len returns the number of wire elements (member/score pairs count as
// two), matching the declared multi-bulk count.
func (z *ZRangeResult) Len() int { return z.handle.Len() }

// Next returns the next member, suspending until it (and its score, if
// WITHSCORES was requested) has arrived. ok is false once every member
// has been consumed.
func (z *ZRangeResult) Next(ctx context.Context) (ZMember, bool, error) {
	if z.remaining == 0 {
		return ZMember{}, false, nil
	}
	memberR, err := z.handle.Take(ctx)
	if err != nil {
		return ZMember{}, false, err
	}
	member, err := decodeBulkRequired(ctx, memberR)
	if err != nil {
		return ZMember{}, false, err
	}
	if !z.withScores {
		z.remaining--
		return ZMember{Member: member}, true, nil
	}
	scoreR, err := z.handle.Take(ctx)
	if err != nil {
		return ZMember{}, false, err
	}
	score, err := decodeFloat(ctx, scoreR)
	if err != nil {
		return ZMember{}, false, err
	}
	z.remaining -= 2
	return ZMember{Member: member, Score: score}, true, nil
}

// CollectMembers drains the result into a plain slice, in rank order.
func (z *ZRangeResult) CollectMembers(ctx context.Context) ([]ZMember, error) {
	n := z.handle.Len()
	if z.withScores {
		n /= 2
	}
	out := make([]ZMember, 0, n)
	for {
		m, ok, err := z.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, m)
	}
}

// CollectMap drains the result into a member->score map; it requires
// the underlying command to have been issued WITHSCORES.
func (z *ZRangeResult) CollectMap(ctx context.Context) (map[string]float64, error) {
	if !z.withScores {
		return nil, &TypeMismatchError{Op: "ZRANGE", Expected: "WITHSCORES result", Got: "plain member list"}
	}
	members, err := z.CollectMembers(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(members))
	for _, m := range members {
		out[m.Member] = m.Score
	}
	return out, nil
}

func decodeZRange(withScores bool) func(context.Context, Reply) (*ZRangeResult, error) {
	return func(_ context.Context, r Reply) (*ZRangeResult, error) {
		mb, ok := r.(MultiBulkReply)
		if !ok {
			return nil, typeMismatch("zrange", "multi-bulk", r)
		}
		if mb.Null {
			return newZRangeResult(newMultiBulkHandle(0), withScores), nil
		}
		return newZRangeResult(mb.Handle, withScores), nil
	}
}

package redis

import (
	"context"
	"strconv"
)

// LPush prepends values to the list at key, returning its new length.
func (c Commands) LPush(ctx context.Context, key string, values ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"LPUSH", key}, values...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// LPushX prepends values only if key already holds a list.
func (c Commands) LPushX(ctx context.Context, key string, values ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"LPUSHX", key}, values...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// RPush appends values to the list at key, returning its new length.
func (c Commands) RPush(ctx context.Context, key string, values ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"RPUSH", key}, values...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// RPushX appends values only if key already holds a list.
func (c Commands) RPushX(ctx context.Context, key string, values ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"RPUSHX", key}, values...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// LPop removes and returns the first element of the list at key.
func (c Commands) LPop(ctx context.Context, key string) (*Future[NullString], error) {
	args, err := c.encodeAll("LPOP", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// RPop removes and returns the last element of the list at key.
func (c Commands) RPop(ctx context.Context, key string) (*Future[NullString], error) {
	args, err := c.encodeAll("RPOP", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// LLen returns the length of the list at key.
func (c Commands) LLen(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("LLEN", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// LRange returns elements [start, stop] of the list at key (inclusive,
// negative indexes count from the end).
func (c Commands) LRange(ctx context.Context, key string, start, stop int64) (*Future[[]string], error) {
	args, err := c.encodeAll("LRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringList)
}

// LTrim trims the list at key to just [start, stop].
func (c Commands) LTrim(ctx context.Context, key string, start, stop int64) (*Future[struct{}], error) {
	args, err := c.encodeAll("LTRIM", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// LIndex returns the element at index in the list at key.
func (c Commands) LIndex(ctx context.Context, key string, index int64) (*Future[NullString], error) {
	args, err := c.encodeAll("LINDEX", key, strconv.FormatInt(index, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// LSet sets the element at index in the list at key.
func (c Commands) LSet(ctx context.Context, key string, index int64, value string) (*Future[struct{}], error) {
	args, err := c.encodeAll("LSET", key, strconv.FormatInt(index, 10), value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// LRem removes up to count occurrences of value from the list at key
// (count < 0: from the tail; count == 0: all of them).
func (c Commands) LRem(ctx context.Context, key string, count int64, value string) (*Future[int64], error) {
	args, err := c.encodeAll("LREM", key, strconv.FormatInt(count, 10), value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// LInsert inserts value before or after pivot in the list at key.
// before selects BEFORE when true, AFTER otherwise.
func (c Commands) LInsert(ctx context.Context, key string, before bool, pivot, value string) (*Future[int64], error) {
	where := "AFTER"
	if before {
		where = "BEFORE"
	}
	args, err := c.encodeAll("LINSERT", key, where, pivot, value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// RPopLPush atomically pops the tail of src and pushes it to the head of dst.
func (c Commands) RPopLPush(ctx context.Context, src, dst string) (*Future[NullString], error) {
	args, err := c.encodeAll("RPOPLPUSH", src, dst)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// BLPop blocks until an element is available at the head of one of
// keys, or timeoutSeconds elapses (0 blocks forever). A nil result
// means the timeout elapsed with nothing popped.
func (c Commands) BLPop(ctx context.Context, timeoutSeconds int64, keys ...string) (*Future[*KeyValue], error) {
	args, err := c.encodeAll(append(append([]string{"BLPOP"}, keys...), strconv.FormatInt(timeoutSeconds, 10))...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, true, decodeKeyValue)
}

// BRPop is BLPop from the tail.
func (c Commands) BRPop(ctx context.Context, timeoutSeconds int64, keys ...string) (*Future[*KeyValue], error) {
	args, err := c.encodeAll(append(append([]string{"BRPOP"}, keys...), strconv.FormatInt(timeoutSeconds, 10))...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, true, decodeKeyValue)
}

// BRPopLPush is RPopLPush that blocks until src has an element, or
// timeoutSeconds elapses (0 blocks forever).
func (c Commands) BRPopLPush(ctx context.Context, src, dst string, timeoutSeconds int64) (*Future[NullString], error) {
	args, err := c.encodeAll("BRPOPLPUSH", src, dst, strconv.FormatInt(timeoutSeconds, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, true, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

package redis

import (
	"context"
	"strconv"
)

// Get returns a key's string value, or ok=false if it doesn't exist.
func (c Commands) Get(ctx context.Context, key string) (*Future[NullString], error) {
	args, err := c.encodeAll("GET", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// Set stores key = value unconditionally.
func (c Commands) Set(ctx context.Context, key, value string) (*Future[struct{}], error) {
	args, err := c.encodeAll("SET", key, value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// MGet returns one NullString per key, in the order given.
func (c Commands) MGet(ctx context.Context, keys ...string) (*Future[[]NullString], error) {
	args, err := c.encodeAll(append([]string{"MGET"}, keys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeNullableStringList)
}

// GetSet atomically sets key = value and returns the previous value.
func (c Commands) GetSet(ctx context.Context, key, value string) (*Future[NullString], error) {
	args, err := c.encodeAll("GETSET", key, value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// Incr increments key by 1 and returns the new value.
func (c Commands) Incr(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("INCR", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// IncrBy increments key by amount and returns the new value.
func (c Commands) IncrBy(ctx context.Context, key string, amount int64) (*Future[int64], error) {
	args, err := c.encodeAll("INCRBY", key, strconv.FormatInt(amount, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// Decr decrements key by 1 and returns the new value.
func (c Commands) Decr(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("DECR", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// DecrBy decrements key by amount and returns the new value.
func (c Commands) DecrBy(ctx context.Context, key string, amount int64) (*Future[int64], error) {
	args, err := c.encodeAll("DECRBY", key, strconv.FormatInt(amount, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// Append appends value to key and returns the resulting string length.
func (c Commands) Append(ctx context.Context, key, value string) (*Future[int64], error) {
	args, err := c.encodeAll("APPEND", key, value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// StrLen returns the length of key's string value (0 if it doesn't exist).
func (c Commands) StrLen(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("STRLEN", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SetBit sets the bit at offset in key and returns its previous value.
func (c Commands) SetBit(ctx context.Context, key string, offset int64, value bool) (*Future[bool], error) {
	v := "0"
	if value {
		v = "1"
	}
	args, err := c.encodeAll("SETBIT", key, strconv.FormatInt(offset, 10), v)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// GetBit returns the bit at offset in key.
func (c Commands) GetBit(ctx context.Context, key string, offset int64) (*Future[bool], error) {
	args, err := c.encodeAll("GETBIT", key, strconv.FormatInt(offset, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// BitCount counts the set bits in key within [start, end] (byte
// offsets, inclusive, negative counting from the end). The range is
// always sent explicitly; callers wanting the whole string pass 0, -1.
func (c Commands) BitCount(ctx context.Context, key string, start, end int64) (*Future[int64], error) {
	args, err := c.encodeAll("BITCOUNT", key, strconv.FormatInt(start, 10), strconv.FormatInt(end, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// BitOp applies a bitwise operation ("AND", "OR", "XOR", "NOT") across
// srcKeys, storing the result at destKey, and returns the result's length.
func (c Commands) BitOp(ctx context.Context, op, destKey string, srcKeys ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"BITOP", op, destKey}, srcKeys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

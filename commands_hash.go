package redis

import (
	"context"
	"strconv"
)

// HSet sets field in the hash at key, returning whether it was new.
func (c Commands) HSet(ctx context.Context, key, field, value string) (*Future[bool], error) {
	args, err := c.encodeAll("HSET", key, field, value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// HSetNX sets field only if it doesn't already exist.
func (c Commands) HSetNX(ctx context.Context, key, field, value string) (*Future[bool], error) {
	args, err := c.encodeAll("HSETNX", key, field, value)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// HMSet sets multiple fields in the hash at key at once.
func (c Commands) HMSet(ctx context.Context, key string, fields map[string]string) (*Future[struct{}], error) {
	strs := make([]string, 0, 2*len(fields)+2)
	strs = append(strs, "HMSET", key)
	for field, value := range fields {
		strs = append(strs, field, value)
	}
	args, err := c.encodeAll(strs...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// HGet returns field's value, or ok=false if it doesn't exist.
func (c Commands) HGet(ctx context.Context, key, field string) (*Future[NullString], error) {
	args, err := c.encodeAll("HGET", key, field)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// HMGet returns one NullString per field, in the order given.
func (c Commands) HMGet(ctx context.Context, key string, fields ...string) (*Future[[]NullString], error) {
	args, err := c.encodeAll(append([]string{"HMGET", key}, fields...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeNullableStringList)
}

// HGetAll returns every field/value pair in the hash at key.
func (c Commands) HGetAll(ctx context.Context, key string) (*Future[map[string]string], error) {
	args, err := c.encodeAll("HGETALL", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringMap)
}

// HKeys returns every field name in the hash at key.
func (c Commands) HKeys(ctx context.Context, key string) (*Future[StringSet], error) {
	args, err := c.encodeAll("HKEYS", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringSet)
}

// HVals returns every value in the hash at key.
func (c Commands) HVals(ctx context.Context, key string) (*Future[[]string], error) {
	args, err := c.encodeAll("HVALS", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringList)
}

// HLen returns the number of fields in the hash at key.
func (c Commands) HLen(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("HLEN", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// HDel removes fields from the hash at key, returning how many existed.
func (c Commands) HDel(ctx context.Context, key string, fields ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"HDEL", key}, fields...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// HExists reports whether field belongs to the hash at key.
func (c Commands) HExists(ctx context.Context, key, field string) (*Future[bool], error) {
	args, err := c.encodeAll("HEXISTS", key, field)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// HIncrBy increments field by amount, returning the new value.
func (c Commands) HIncrBy(ctx context.Context, key, field string, amount int64) (*Future[int64], error) {
	args, err := c.encodeAll("HINCRBY", key, field, strconv.FormatInt(amount, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// HIncrByFloat increments field by amount, returning the new value.
func (c Commands) HIncrByFloat(ctx context.Context, key, field string, amount float64) (*Future[float64], error) {
	args, err := c.encodeAll("HINCRBYFLOAT", key, field, strconv.FormatFloat(amount, 'g', -1, 64))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeFloat)
}

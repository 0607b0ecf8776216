package redis

import (
	"context"
	"strconv"
)

// Exists reports whether key is present.
func (c Commands) Exists(ctx context.Context, key string) (*Future[bool], error) {
	args, err := c.encodeAll("EXISTS", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// Del deletes the given keys and returns how many existed.
func (c Commands) Del(ctx context.Context, keys ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"DEL"}, keys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// Rename renames key to newKey unconditionally.
func (c Commands) Rename(ctx context.Context, key, newKey string) (*Future[struct{}], error) {
	args, err := c.encodeAll("RENAME", key, newKey)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// RenameNX renames key to newKey only if newKey doesn't already exist.
func (c Commands) RenameNX(ctx context.Context, key, newKey string) (*Future[bool], error) {
	args, err := c.encodeAll("RENAMENX", key, newKey)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// Keys returns every key matching pattern. Use sparingly: real Redis
// scans the whole keyspace to answer it.
func (c Commands) Keys(ctx context.Context, pattern string) (*Future[[]string], error) {
	args, err := c.encodeAll("KEYS", pattern)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringList)
}

// Expire sets key's TTL to seconds and returns whether key existed.
func (c Commands) Expire(ctx context.Context, key string, seconds int64) (*Future[bool], error) {
	args, err := c.encodeAll("EXPIRE", key, strconv.FormatInt(seconds, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// PExpire sets key's TTL to milliseconds and returns whether key existed.
func (c Commands) PExpire(ctx context.Context, key string, milliseconds int64) (*Future[bool], error) {
	args, err := c.encodeAll("PEXPIRE", key, strconv.FormatInt(milliseconds, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// ExpireAt sets key to expire at the given Unix timestamp (seconds).
func (c Commands) ExpireAt(ctx context.Context, key string, unixSeconds int64) (*Future[bool], error) {
	args, err := c.encodeAll("EXPIREAT", key, strconv.FormatInt(unixSeconds, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// PExpireAt sets key to expire at the given Unix timestamp (milliseconds).
func (c Commands) PExpireAt(ctx context.Context, key string, unixMillis int64) (*Future[bool], error) {
	args, err := c.encodeAll("PEXPIREAT", key, strconv.FormatInt(unixMillis, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// Persist removes key's TTL, if it has one.
func (c Commands) Persist(ctx context.Context, key string) (*Future[bool], error) {
	args, err := c.encodeAll("PERSIST", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// TTL returns key's remaining TTL in seconds, -1 if it has none, or -2
// if key doesn't exist.
func (c Commands) TTL(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("TTL", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// PTTL is TTL in milliseconds.
func (c Commands) PTTL(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("PTTL", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// Type returns key's value type ("string", "list", "set", "zset",
// "hash", or "none").
func (c Commands) Type(ctx context.Context, key string) (*Future[string], error) {
	args, err := c.encodeAll("TYPE", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStatus)
}

// RandomKey returns a random key from the keyspace, or ok=false if the
// database is empty.
func (c Commands) RandomKey(ctx context.Context) (*Future[NullString], error) {
	args, err := c.encodeAll("RANDOMKEY")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// Move moves key to database db, returning whether it was moved.
//
// The underlying RESP command is MOVE key db: the destination database
// is a positional argument, not a named field.
func (c Commands) Move(ctx context.Context, key string, db int) (*Future[bool], error) {
	args, err := c.encodeAll("MOVE", key, strconv.Itoa(db))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

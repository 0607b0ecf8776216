package redis

import (
	"context"
	"strconv"
)

// SAdd adds members to the set at key, returning how many were new.
func (c Commands) SAdd(ctx context.Context, key string, members ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"SADD", key}, members...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SRem removes members from the set at key, returning how many were removed.
func (c Commands) SRem(ctx context.Context, key string, members ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"SREM", key}, members...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SPop removes and returns a random member of the set at key.
func (c Commands) SPop(ctx context.Context, key string) (*Future[NullString], error) {
	args, err := c.encodeAll("SPOP", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, func(ctx context.Context, r Reply) (NullString, error) {
		s, ok, err := decodeBulk(ctx, r)
		return NullString{Value: s, Valid: ok}, err
	})
}

// SRandMember returns up to count random (not removed) members. count
// is always sent explicitly, so the reply is always an array, even
// for count == 1.
func (c Commands) SRandMember(ctx context.Context, key string, count int) (*Future[[]string], error) {
	args, err := c.encodeAll("SRANDMEMBER", key, strconv.Itoa(count))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringList)
}

// SIsMember reports whether member belongs to the set at key.
func (c Commands) SIsMember(ctx context.Context, key, member string) (*Future[bool], error) {
	args, err := c.encodeAll("SISMEMBER", key, member)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

// SCard returns the set's cardinality.
func (c Commands) SCard(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("SCARD", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SMembers returns every member of the set at key.
func (c Commands) SMembers(ctx context.Context, key string) (*Future[StringSet], error) {
	args, err := c.encodeAll("SMEMBERS", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringSet)
}

// SInter returns the intersection of the sets at keys.
func (c Commands) SInter(ctx context.Context, keys ...string) (*Future[StringSet], error) {
	args, err := c.encodeAll(append([]string{"SINTER"}, keys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringSet)
}

// SInterStore stores the intersection of the sets at srcKeys into destKey.
func (c Commands) SInterStore(ctx context.Context, destKey string, srcKeys ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"SINTERSTORE", destKey}, srcKeys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SUnion returns the union of the sets at keys.
func (c Commands) SUnion(ctx context.Context, keys ...string) (*Future[StringSet], error) {
	args, err := c.encodeAll(append([]string{"SUNION"}, keys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringSet)
}

// SUnionStore stores the union of the sets at srcKeys into destKey.
func (c Commands) SUnionStore(ctx context.Context, destKey string, srcKeys ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"SUNIONSTORE", destKey}, srcKeys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SDiff returns the members of the set at keys[0] not present in any
// of the remaining sets.
func (c Commands) SDiff(ctx context.Context, keys ...string) (*Future[StringSet], error) {
	args, err := c.encodeAll(append([]string{"SDIFF"}, keys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStringSet)
}

// SDiffStore stores the difference of the sets at srcKeys into destKey.
func (c Commands) SDiffStore(ctx context.Context, destKey string, srcKeys ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"SDIFFSTORE", destKey}, srcKeys...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// SMove atomically moves member from the set at src to the set at dst.
func (c Commands) SMove(ctx context.Context, src, dst, member string) (*Future[bool], error) {
	args, err := c.encodeAll("SMOVE", src, dst, member)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBool)
}

package redis

import (
	"context"
	"strconv"
)

// ZAdd adds or updates members of the sorted set at key with the
// given scores, returning how many were newly added.
func (c Commands) ZAdd(ctx context.Context, key string, members map[string]float64) (*Future[int64], error) {
	strs := make([]string, 0, 2*len(members)+2)
	strs = append(strs, "ZADD", key)
	for member, score := range members {
		strs = append(strs, strconv.FormatFloat(score, 'g', -1, 64), member)
	}
	args, err := c.encodeAll(strs...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// ZCard returns the cardinality of the sorted set at key.
func (c Commands) ZCard(ctx context.Context, key string) (*Future[int64], error) {
	args, err := c.encodeAll("ZCARD", key)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// ZCount counts members of the sorted set at key with scores in [min, max].
func (c Commands) ZCount(ctx context.Context, key string, min, max ScoreBoundary) (*Future[int64], error) {
	args, err := c.encodeAll("ZCOUNT", key, min.Encode(), max.Encode())
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// ZScore returns member's score, or ok=false if it isn't in the set.
func (c Commands) ZScore(ctx context.Context, key, member string) (*Future[NullFloat], error) {
	args, err := c.encodeAll("ZSCORE", key, member)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeNullableFloat)
}

// ZIncrBy increments member's score in the sorted set at key, returning the new score.
func (c Commands) ZIncrBy(ctx context.Context, key string, amount float64, member string) (*Future[float64], error) {
	args, err := c.encodeAll("ZINCRBY", key, strconv.FormatFloat(amount, 'g', -1, 64), member)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeFloat)
}

// ZRange returns members ranked [start, stop] in ascending order.
func (c Commands) ZRange(ctx context.Context, key string, start, stop int64, withScores bool) (*Future[*ZRangeResult], error) {
	strs := []string{"ZRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)}
	if withScores {
		strs = append(strs, "WITHSCORES")
	}
	args, err := c.encodeAll(strs...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeZRange(withScores))
}

// ZRangeByScore returns members with scores in [min, max], ascending.
func (c Commands) ZRangeByScore(ctx context.Context, key string, min, max ScoreBoundary, withScores bool) (*Future[*ZRangeResult], error) {
	strs := []string{"ZRANGEBYSCORE", key, min.Encode(), max.Encode()}
	if withScores {
		strs = append(strs, "WITHSCORES")
	}
	args, err := c.encodeAll(strs...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeZRange(withScores))
}

// ZRevRangeByScore is ZRangeByScore in descending order; max and min
// keep their usual meaning (max is the higher bound) even though
// Redis expects them swapped on the wire.
func (c Commands) ZRevRangeByScore(ctx context.Context, key string, max, min ScoreBoundary, withScores bool) (*Future[*ZRangeResult], error) {
	strs := []string{"ZREVRANGEBYSCORE", key, max.Encode(), min.Encode()}
	if withScores {
		strs = append(strs, "WITHSCORES")
	}
	args, err := c.encodeAll(strs...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeZRange(withScores))
}

// ZRank returns member's ascending rank (0-based), or ok=false if it
// isn't in the set.
func (c Commands) ZRank(ctx context.Context, key, member string) (*Future[NullInt], error) {
	args, err := c.encodeAll("ZRANK", key, member)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeNullableInteger)
}

// ZRevRank is ZRank in descending order.
func (c Commands) ZRevRank(ctx context.Context, key, member string) (*Future[NullInt], error) {
	args, err := c.encodeAll("ZREVRANK", key, member)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeNullableInteger)
}

// ZRem removes members from the sorted set at key.
func (c Commands) ZRem(ctx context.Context, key string, members ...string) (*Future[int64], error) {
	args, err := c.encodeAll(append([]string{"ZREM", key}, members...)...)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// ZRemRangeByRank removes members ranked [start, stop].
func (c Commands) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (*Future[int64], error) {
	args, err := c.encodeAll("ZREMRANGEBYRANK", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// ZRemRangeByScore removes members with scores in [min, max].
func (c Commands) ZRemRangeByScore(ctx context.Context, key string, min, max ScoreBoundary) (*Future[int64], error) {
	args, err := c.encodeAll("ZREMRANGEBYSCORE", key, min.Encode(), max.Encode())
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

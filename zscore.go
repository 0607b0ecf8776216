package redis

import (
	"math"
	"strconv"
)

// ScoreBoundary is one end of a ZRANGEBYSCORE/ZCOUNT range, carrying
// the "(" exclusive-bound prefix RESP uses for sorted set scores.
type ScoreBoundary struct {
	Value     float64
	Exclusive bool
}

// Score returns an inclusive boundary at v.
func Score(v float64) ScoreBoundary { return ScoreBoundary{Value: v} }

// ExclusiveScore returns an exclusive boundary at v.
func ExclusiveScore(v float64) ScoreBoundary { return ScoreBoundary{Value: v, Exclusive: true} }

// ScoreMin and ScoreMax are the unbounded ends of a sorted set range.
var (
	ScoreMin = ScoreBoundary{Value: math.Inf(-1)}
	ScoreMax = ScoreBoundary{Value: math.Inf(1)}
)

// Encode renders the boundary the way ZRANGEBYSCORE expects it on the
// wire: "+inf", "-inf", "3", or "(3" for an exclusive bound.
func (b ScoreBoundary) Encode() string {
	switch {
	case b == ScoreMin:
		return "-inf"
	case b == ScoreMax:
		return "+inf"
	}
	s := strconv.FormatFloat(b.Value, 'g', -1, 64)
	if b.Exclusive {
		return "(" + s
	}
	return s
}

package redis

import (
	"context"
	"strconv"
)

// NullString is a bulk reply that may be absent (a missing key inside
// MGET/HMGET, a GET of a missing key, ...). Valid is false exactly
// when the server sent a nil bulk.
type NullString struct {
	Value string
	Valid bool
}

// StringSet is the decoded form of set-shaped replies (SMEMBERS,
// SINTER, SUNION, SDIFF, HKEYS).
type StringSet map[string]struct{}

// ToSlice returns the set's members in no particular order.
func (s StringSet) ToSlice() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	return out
}

func typeMismatch(op, expected string, got Reply) error {
	return &TypeMismatchError{Op: op, Expected: expected, Got: replyTypeName(got)}
}

func replyTypeName(r Reply) string {
	switch r.(type) {
	case StatusReply:
		return "status"
	case ErrorReply:
		return "error"
	case IntegerReply:
		return "integer"
	case BulkReply:
		return "bulk"
	case MultiBulkReply:
		return "multi-bulk"
	default:
		return "unknown"
	}
}

func decodeStatus(_ context.Context, r Reply) (string, error) {
	s, ok := r.(StatusReply)
	if !ok {
		return "", typeMismatch("status", "status", r)
	}
	return s.Status, nil
}

func decodeOK(ctx context.Context, r Reply) (struct{}, error) {
	s, err := decodeStatus(ctx, r)
	if err != nil {
		return struct{}{}, err
	}
	if s != "OK" {
		return struct{}{}, &ProtocolError{Detail: "expected status OK, got " + s}
	}
	return struct{}{}, nil
}

func decodeInteger(_ context.Context, r Reply) (int64, error) {
	i, ok := r.(IntegerReply)
	if !ok {
		return 0, typeMismatch("integer", "integer", r)
	}
	return i.Value, nil
}

func decodeBool(ctx context.Context, r Reply) (bool, error) {
	i, err := decodeInteger(ctx, r)
	if err != nil {
		return false, err
	}
	return i != 0, nil
}

// decodeBulk returns (value, found, err): found is false for a nil bulk.
func decodeBulk(_ context.Context, r Reply) (string, bool, error) {
	b, ok := r.(BulkReply)
	if !ok {
		return "", false, typeMismatch("bulk", "bulk", r)
	}
	if b.Null {
		return "", false, nil
	}
	return string(b.Bytes), true, nil
}

func decodeBulkRequired(ctx context.Context, r Reply) (string, error) {
	s, ok, err := decodeBulk(ctx, r)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &ProtocolError{Detail: "unexpected nil bulk reply"}
	}
	return s, nil
}

func decodeFloat(ctx context.Context, r Reply) (float64, error) {
	s, err := decodeBulkRequired(ctx, r)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return 0, &ProtocolError{Detail: "malformed float bulk: " + s}
	}
	return f, nil
}

// decodeNullableFloat is for ZSCORE: nil when the member isn't in the set.
func decodeNullableFloat(ctx context.Context, r Reply) (NullFloat, error) {
	s, ok, err := decodeBulk(ctx, r)
	if err != nil {
		return NullFloat{}, err
	}
	if !ok {
		return NullFloat{}, nil
	}
	f, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return NullFloat{}, &ProtocolError{Detail: "malformed float bulk: " + s}
	}
	return NullFloat{Value: f, Valid: true}, nil
}

// NullFloat mirrors NullString for bulk-encoded floating point replies.
type NullFloat struct {
	Value float64
	Valid bool
}

// NullInt mirrors NullString for integer-or-nil replies (ZRANK/ZREVRANK).
type NullInt struct {
	Value int64
	Valid bool
}

func decodeNullableInteger(_ context.Context, r Reply) (NullInt, error) {
	// A missing rank comes back as a null bulk, not a null integer, on
	// the wire ("$-1\r\n"): RESP2 has no nil-integer variant.
	if b, ok := r.(BulkReply); ok && b.Null {
		return NullInt{}, nil
	}
	i, ok := r.(IntegerReply)
	if !ok {
		return NullInt{}, typeMismatch("integer", "integer or nil bulk", r)
	}
	return NullInt{Value: i.Value, Valid: true}, nil
}

func decodeMultiBulk(ctx context.Context, r Reply) ([]Reply, error) {
	mb, ok := r.(MultiBulkReply)
	if !ok {
		return nil, typeMismatch("multi-bulk", "multi-bulk", r)
	}
	if mb.Null || mb.N == 0 {
		return nil, nil
	}
	return mb.Handle.TakeAll(ctx)
}

func decodeStringList(ctx context.Context, r Reply) ([]string, error) {
	items, err := decodeMultiBulk(ctx, r)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok, err := decodeBulk(ctx, it)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func decodeNullableStringList(ctx context.Context, r Reply) ([]NullString, error) {
	items, err := decodeMultiBulk(ctx, r)
	if err != nil {
		return nil, err
	}
	out := make([]NullString, len(items))
	for i, it := range items {
		s, ok, err := decodeBulk(ctx, it)
		if err != nil {
			return nil, err
		}
		out[i] = NullString{Value: s, Valid: ok}
	}
	return out, nil
}

func decodeStringSet(ctx context.Context, r Reply) (StringSet, error) {
	items, err := decodeStringList(ctx, r)
	if err != nil {
		return nil, err
	}
	set := make(StringSet, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set, nil
}

func decodeStringMap(ctx context.Context, r Reply) (map[string]string, error) {
	items, err := decodeStringList(ctx, r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		out[items[i]] = items[i+1]
	}
	return out, nil
}

// KeyValue is the [key, value] pair returned by BLPOP/BRPOP.
type KeyValue struct {
	Key   string
	Value string
}

func decodeKeyValue(ctx context.Context, r Reply) (*KeyValue, error) {
	mb, ok := r.(MultiBulkReply)
	if !ok {
		return nil, typeMismatch("blocking pop", "multi-bulk", r)
	}
	if mb.Null {
		return nil, nil
	}
	items, err := mb.Handle.TakeAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) != 2 {
		return nil, &ProtocolError{Detail: "blocking pop reply did not have 2 elements"}
	}
	k, _, err := decodeBulk(ctx, items[0])
	if err != nil {
		return nil, err
	}
	v, _, err := decodeBulk(ctx, items[1])
	if err != nil {
		return nil, err
	}
	return &KeyValue{Key: k, Value: v}, nil
}

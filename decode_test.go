package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeOK(t *testing.T) {
	ctx := context.Background()
	_, err := decodeOK(ctx, StatusReply{Status: "OK"})
	require.NoError(t, err)

	_, err = decodeOK(ctx, StatusReply{Status: "QUEUED"})
	require.Error(t, err)

	_, err = decodeOK(ctx, IntegerReply{Value: 1})
	var tme *TypeMismatchError
	require.ErrorAs(t, err, &tme)
}

func TestDecodeBoolFromInteger(t *testing.T) {
	ctx := context.Background()
	v, err := decodeBool(ctx, IntegerReply{Value: 1})
	require.NoError(t, err)
	require.True(t, v)

	v, err = decodeBool(ctx, IntegerReply{Value: 0})
	require.NoError(t, err)
	require.False(t, v)
}

func TestDecodeBulkFoundAndNil(t *testing.T) {
	ctx := context.Background()
	s, ok, err := decodeBulk(ctx, BulkReply{Bytes: []byte("hi")})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hi", s)

	s, ok, err = decodeBulk(ctx, BulkReply{Null: true})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "", s)
}

func TestDecodeNullableFloatZscore(t *testing.T) {
	ctx := context.Background()
	nf, err := decodeNullableFloat(ctx, BulkReply{Bytes: []byte("3.5")})
	require.NoError(t, err)
	require.True(t, nf.Valid)
	require.Equal(t, 3.5, nf.Value)

	nf, err = decodeNullableFloat(ctx, BulkReply{Null: true})
	require.NoError(t, err)
	require.False(t, nf.Valid)
}

func TestDecodeNullableIntegerTreatsNullBulkAsMissingRank(t *testing.T) {
	ctx := context.Background()
	ni, err := decodeNullableInteger(ctx, BulkReply{Null: true})
	require.NoError(t, err)
	require.False(t, ni.Valid)

	ni, err = decodeNullableInteger(ctx, IntegerReply{Value: 4})
	require.NoError(t, err)
	require.True(t, ni.Valid)
	require.Equal(t, int64(4), ni.Value)

	_, err = decodeNullableInteger(ctx, StatusReply{Status: "x"})
	require.Error(t, err)
}

func TestDecodeStringListSkipsNilEntries(t *testing.T) {
	ctx := context.Background()
	h := newMultiBulkHandle(2)
	h.push(BulkReply{Bytes: []byte("a")}, nil)
	h.push(BulkReply{Null: true}, nil)

	list, err := decodeStringList(ctx, MultiBulkReply{N: 2, Handle: h})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, list)
}

func TestDecodeNullableStringListPreservesPositions(t *testing.T) {
	ctx := context.Background()
	h := newMultiBulkHandle(2)
	h.push(BulkReply{Bytes: []byte("a")}, nil)
	h.push(BulkReply{Null: true}, nil)

	list, err := decodeNullableStringList(ctx, MultiBulkReply{N: 2, Handle: h})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, NullString{Value: "a", Valid: true}, list[0])
	require.Equal(t, NullString{Valid: false}, list[1])
}

func TestDecodeStringSetAndMap(t *testing.T) {
	ctx := context.Background()

	h := newMultiBulkHandle(2)
	h.push(BulkReply{Bytes: []byte("x")}, nil)
	h.push(BulkReply{Bytes: []byte("y")}, nil)
	set, err := decodeStringSet(ctx, MultiBulkReply{N: 2, Handle: h})
	require.NoError(t, err)
	require.Len(t, set, 2)
	require.ElementsMatch(t, []string{"x", "y"}, set.ToSlice())

	h2 := newMultiBulkHandle(4)
	h2.push(BulkReply{Bytes: []byte("field1")}, nil)
	h2.push(BulkReply{Bytes: []byte("v1")}, nil)
	h2.push(BulkReply{Bytes: []byte("field2")}, nil)
	h2.push(BulkReply{Bytes: []byte("v2")}, nil)
	m, err := decodeStringMap(ctx, MultiBulkReply{N: 4, Handle: h2})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"field1": "v1", "field2": "v2"}, m)
}

func TestDecodeMultiBulkNullIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	items, err := decodeMultiBulk(ctx, MultiBulkReply{Null: true})
	require.NoError(t, err)
	require.Nil(t, items)
}

func TestDecodeKeyValueForBlockingPop(t *testing.T) {
	ctx := context.Background()

	h := newMultiBulkHandle(2)
	h.push(BulkReply{Bytes: []byte("mylist")}, nil)
	h.push(BulkReply{Bytes: []byte("value")}, nil)
	kv, err := decodeKeyValue(ctx, MultiBulkReply{N: 2, Handle: h})
	require.NoError(t, err)
	require.Equal(t, &KeyValue{Key: "mylist", Value: "value"}, kv)

	kv, err = decodeKeyValue(ctx, MultiBulkReply{Null: true})
	require.NoError(t, err)
	require.Nil(t, kv)
}

func TestScoreBoundaryEncode(t *testing.T) {
	require.Equal(t, "-inf", ScoreMin.Encode())
	require.Equal(t, "+inf", ScoreMax.Encode())
	require.Equal(t, "3", Score(3).Encode())
	require.Equal(t, "(3", ExclusiveScore(3).Encode())
}

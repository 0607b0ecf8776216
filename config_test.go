package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	golden := []struct{ Addr, Normal string }{
		{"", "localhost:6379"},
		{":", "localhost:6379"},
		{"test.host", "test.host:6379"},
		{"test.host:", "test.host:6379"},
		{":99", "localhost:99"},
		{"/var/redis/../run/redis.sock", "/var/run/redis.sock"},
	}
	for _, gold := range golden {
		require.Equal(t, gold.Normal, normalizeAddr(gold.Addr), "addr %q", gold.Addr)
	}
}

func TestIsUnixAddr(t *testing.T) {
	require.True(t, isUnixAddr("/var/run/redis.sock"))
	require.False(t, isUnixAddr("localhost:6379"))
	require.False(t, isUnixAddr(""))
}

func TestConfigNormalizedDefaults(t *testing.T) {
	cfg := Config{}.normalized()
	require.Equal(t, "localhost:6379", cfg.Addr)
	require.Equal(t, 1, cfg.PoolSize)
	require.Equal(t, "utf-8", cfg.Encoding)
	require.NotNil(t, cfg.Dial)
	require.Equal(t, 5*time.Second, cfg.ConnectTimeout)
}

func TestEncodeStringUTF8RejectsInvalid(t *testing.T) {
	_, err := encodeString("utf-8", "héllo")
	require.NoError(t, err)

	invalid := string([]byte{0xff, 0xfe})
	_, err = encodeString("utf-8", invalid)
	require.Error(t, err)
	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
}

func TestEncodeStringASCIIRejectsNonASCII(t *testing.T) {
	_, err := encodeString("ascii", "plain")
	require.NoError(t, err)

	_, err = encodeString("ascii", "café")
	require.Error(t, err)
}

func TestEncodeStringUnsupportedEncoding(t *testing.T) {
	_, err := encodeString("latin1", "x")
	require.Error(t, err)
}

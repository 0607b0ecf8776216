package redis

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// DialFunc establishes one Transport. The default, net.Dial-backed
// implementation treats an address starting with "/" as a Unix domain
// socket path and anything else as host:port TCP.
type DialFunc func(ctx context.Context, addr string) (Transport, error)

// DefaultDial opens a plain TCP or Unix domain socket connection; it
// does not use TLS.
func DefaultDial(ctx context.Context, addr string) (Transport, error) {
	network := "tcp"
	if isUnixAddr(addr) {
		network = "unix"
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Config describes one Redis server and how to reach it. Its zero
// value is usable: it dials localhost:6379, UTF-8 encoded, with a
// single connection.
type Config struct {
	// Addr is host:port, or an absolute path for a Unix domain socket.
	// Empty defaults to "localhost:6379".
	Addr string

	// PoolSize is the number of connections NewPool establishes.
	// Zero defaults to 1.
	PoolSize int

	// Password, if non-empty, is sent via AUTH immediately after
	// dialing, before the pool is considered ready.
	Password string

	// DB selects the logical database via SELECT after connecting.
	// Zero (the default) skips SELECT, since 0 is Redis's own default.
	DB int

	// Encoding governs how command string arguments are validated
	// before they're framed onto the wire. "utf-8" (the default) and
	// "ascii" are recognized; anything else is an EncodingError at
	// dial time.
	Encoding string

	// Dial overrides connection establishment. Defaults to DefaultDial.
	Dial DialFunc

	// ConnectTimeout bounds a single dial attempt. Zero defaults to
	// five seconds.
	ConnectTimeout time.Duration

	// Logger receives engine lifecycle events (connection loss, engine
	// close). Defaults to DefaultLogger().
	Logger *logrus.Logger
}

func (c Config) normalized() Config {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	} else {
		c.Addr = normalizeAddr(c.Addr)
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 1
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.Dial == nil {
		c.Dial = DefaultDial
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	return c
}

func encodeString(encoding, s string) ([]byte, error) {
	switch encoding {
	case "utf-8":
		if !utf8.ValidString(s) {
			return nil, &EncodingError{Detail: "invalid utf-8 string: " + s}
		}
		return []byte(s), nil
	case "ascii":
		for i := 0; i < len(s); i++ {
			if s[i] > 127 {
				return nil, &EncodingError{Detail: "non-ascii byte in string: " + s}
			}
		}
		return []byte(s), nil
	default:
		return nil, &EncodingError{Detail: "unsupported encoding: " + encoding}
	}
}

func isUnixAddr(s string) bool {
	return len(s) != 0 && s[0] == '/'
}

func normalizeAddr(s string) string {
	if isUnixAddr(s) {
		return filepath.Clean(s)
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		host = s
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(host, port)
}

// DialEngine opens a single connection per cfg and runs its AUTH/
// SELECT handshake, returning a ready Engine. Most callers want
// NewPool instead; DialEngine is exported for dedicated pub/sub use
// (an engine that SUBSCRIBEs is permanently retired from pool
// rotation, so pub/sub connections are normally managed by hand,
// outside any Pool).
func DialEngine(ctx context.Context, cfg Config) (*Engine, error) {
	cfg = cfg.normalized()
	if _, err := encodeString(cfg.Encoding, ""); err != nil {
		return nil, err
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if cfg.ConnectTimeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	conn, err := cfg.Dial(dialCtx, cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis: dial %s: %w", cfg.Addr, err)
	}

	e := newEngine(conn, cfg.Logger, cfg.Encoding)

	if cfg.Password != "" {
		pw, err := e.encode(cfg.Password)
		if err != nil {
			e.shutdown(err)
			return nil, err
		}
		fut, err := e.sendAndAwait(ctx, [][]byte{[]byte("AUTH"), pw}, false)
		if err != nil {
			e.shutdown(err)
			return nil, err
		}
		reply, err := fut.Get(ctx)
		if err != nil {
			e.shutdown(err)
			return nil, err
		}
		if _, err := decodeOK(ctx, reply); err != nil {
			e.shutdown(err)
			return nil, err
		}
	}

	if cfg.DB != 0 {
		fut, err := e.sendAndAwait(ctx, [][]byte{[]byte("SELECT"), []byte(fmt.Sprint(cfg.DB))}, false)
		if err != nil {
			e.shutdown(err)
			return nil, err
		}
		reply, err := fut.Get(ctx)
		if err != nil {
			e.shutdown(err)
			return nil, err
		}
		if _, err := decodeOK(ctx, reply); err != nil {
			e.shutdown(err)
			return nil, err
		}
	}

	return e, nil
}

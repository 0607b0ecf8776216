package redis

import (
	"context"
	"strconv"
)

// Ping checks the connection; the server replies with Status("PONG").
func (c Commands) Ping(ctx context.Context) (*Future[string], error) {
	args, err := c.encodeAll("PING")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStatus)
}

// Echo returns message unchanged, round-tripped through the server.
func (c Commands) Echo(ctx context.Context, message string) (*Future[string], error) {
	args, err := c.encodeAll("ECHO", message)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeBulkRequired)
}

// Save performs a synchronous RDB snapshot.
func (c Commands) Save(ctx context.Context) (*Future[struct{}], error) {
	args, err := c.encodeAll("SAVE")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// BGSave starts an asynchronous RDB snapshot.
func (c Commands) BGSave(ctx context.Context) (*Future[string], error) {
	args, err := c.encodeAll("BGSAVE")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeStatus)
}

// LastSave returns the Unix timestamp of the last successful snapshot.
func (c Commands) LastSave(ctx context.Context) (*Future[int64], error) {
	args, err := c.encodeAll("LASTSAVE")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// DBSize returns the number of keys in the selected database.
func (c Commands) DBSize(ctx context.Context) (*Future[int64], error) {
	args, err := c.encodeAll("DBSIZE")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeInteger)
}

// FlushAll removes every key from every database.
func (c Commands) FlushAll(ctx context.Context) (*Future[struct{}], error) {
	args, err := c.encodeAll("FLUSHALL")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// FlushDB removes every key from the selected database.
func (c Commands) FlushDB(ctx context.Context) (*Future[struct{}], error) {
	args, err := c.encodeAll("FLUSHDB")
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// Select switches the connection's logical database. Most callers set
// this once via Config.DB instead of calling it mid-session.
func (c Commands) Select(ctx context.Context, db int) (*Future[struct{}], error) {
	args, err := c.encodeAll("SELECT", strconv.Itoa(db))
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// Auth authenticates the connection. Most callers set this once via
// Config.Password instead of calling it mid-session.
func (c Commands) Auth(ctx context.Context, password string) (*Future[struct{}], error) {
	args, err := c.encodeAll("AUTH", password)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, args, false, decodeOK)
}

// Dump is not implemented: the binary RDB serialization format is out
// of scope for this client, which never needs to produce or parse it.
func (c Commands) Dump(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrNotSupported
}

// Object is not implemented: introspection of Redis's internal
// encodings has no bearing on this client's own correctness.
func (c Commands) Object(ctx context.Context, subcommand, key string) (Reply, error) {
	return nil, ErrNotSupported
}

// Package redis implements an asynchronous client for the Redis
// in-memory data store: an incremental RESP2 codec, a pipelined
// per-connection protocol engine, and a round-robin connection pool.
//
// The package does not open sockets itself beyond the default DialFunc;
// TLS, reconnection, cluster routing, and a generated command catalogue
// are left to callers. See README-less package docs on Pool, Engine and
// Transaction for the three layers.
package redis

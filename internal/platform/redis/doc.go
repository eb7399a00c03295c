// Package redis implements store.BookStore on Redis. Books are JSON
// documents in a hash keyed by ID, with a sorted set preserving insertion
// order. Every mutation runs as a Lua script so the existence check and the
// write are one atomic round trip.
package redis

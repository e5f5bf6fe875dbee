// Package store holds the Status Sink implementations: an in-memory store for tests and
// short-lived servers, and a SQLite store that keeps scan history across restarts.
package store

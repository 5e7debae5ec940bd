// Package fallback walks an operation's ranked attempts until one succeeds.
//
// # Policy
//
// Attempts run strictly in rank order, each exactly once. A not-supported or
// transient outcome advances to the next attempt; an auth failure or fatal
// server error aborts the whole operation, because every remaining candidate
// of the same tenant would fail the same way. When the list runs out the
// caller gets one aggregate error naming every attempt and how it failed.
//
// The orchestrator owns no retry loops, no backoff and no caching. One
// logical operation maps to at most len(attempts) requests on the wire.
package fallback

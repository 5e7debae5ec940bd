// Package protocol implements the two stateless transport bindings for the
// WebUntis dialect families and the shared outcome classification both feed
// into the fallback orchestrator.
//
// # Overview
//
// A binding knows exactly one thing: how to serialize a request and classify
// a raw response for its dialect. Neither binding retries, falls back, or
// consults the route table — that separation is what keeps the fallback
// policy testable with fake executors and the wire handling testable with
// httptest servers.
//
// # JSON-RPC Binding
//
// JSONRPCClient posts the standard envelope to a single entry point:
//
//	{"id": <uuid>, "method": <name>, "params": [<object>], "jsonrpc": "2.0"}
//
// The params array always carries exactly one object. On the internal
// dialect an authenticated request additionally carries an auth object
// derived from the session credentials:
//
//	"auth": {"user": <name>, "otp": <6-digit code>, "clientTime": <unix ms>}
//
// The OTP is a standard time-based HMAC-SHA1 code over the session key with
// a 30 second step, which is how modern servers validate mobile clients
// without resending the secret. On the public dialect the session key rides
// along as the JSESSIONID cookie instead.
//
// # REST Binding
//
// RESTClient issues requests against resource paths below the versioned REST
// roots, authenticating with a bearer token and advertising the caller's
// cache policy through a Cache-Mode header plus the derived Cache-Control
// value (see CacheControl).
//
// # Outcome Classification
//
// Every attempt produces an Outcome with exactly one Class:
//
//   - ClassSuccess: usable raw payload attached
//   - ClassNotSupported: this server cannot serve this method or resource
//     (JSON-RPC error -32601, HTTP 404/410)
//   - ClassAuthFailure: credentials rejected (HTTP 401/403, the dialect's
//     authentication error codes)
//   - ClassTransient: transport-level failure (timeout, DNS, reset)
//   - ClassFatal: well-formed but semantically failed request, carrying the
//     server's message
//
// The orchestrator advances past ClassNotSupported and ClassTransient,
// aborts on ClassAuthFailure and ClassFatal, and never reinterprets a class.
//
// # Testing
//
// Bindings accept an injected *http.Client and, for the JSON-RPC binding, an
// injected clock, so tests pin OTP values and drive both bindings against
// httptest servers without real network access.
package protocol

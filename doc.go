// Package untisgo is a resilient client for WebUntis school timetable
// servers.
//
// # Overview
//
// WebUntis deployments differ in which wire protocols they speak: the legacy
// JSON-RPC API, the mobile JSON-RPC API with per-request one-time passwords,
// and two generations of REST views. A given server supports an arbitrary
// subset, and there is no discovery endpoint. untisgo hides that variance:
// every logical operation carries a ranked list of protocol candidates and
// walks it until one answers, so callers see school timetables, not dialects.
//
// # Session Usage
//
// Create a session per school, log in once, then call operations:
//
//	session, err := untisgo.NewSession("neilo.webuntis.com", "my school", untisgo.Options{})
//	if err != nil {
//		log.Fatalf("create session: %v", err)
//	}
//
//	creds, err := session.Login(ctx, "alice", "secret")
//	if err != nil {
//		log.Fatalf("login failed: %v", err)
//	}
//
//	tt, err := session.Timetable(ctx, untisgo.TimetableQuery{})
//	if err != nil {
//		log.Printf("timetable fetch failed: %v", err)
//	}
//	for _, p := range tt.Periods {
//		fmt.Println(p.StartDateTime, p.Text.Lesson)
//	}
//
// The host may be a bare name, a https:// URL, or a URL with the /WebUntis
// path already attached; all forms normalize to the same endpoints.
//
// # Fallback Behavior
//
// Per operation the session tries each candidate at most once, in rank
// order. A candidate that answers "method not found", HTTP 404/410, or a
// transport error advances the chain; rejected credentials or a fatal server
// error abort it immediately, because later candidates would fail the same
// way. When a candidate succeeds its dialect is pinned for that operation,
// so the next call leads with it. When every candidate fails the returned
// ExhaustedError lists each attempt with its classification.
//
// # Results
//
// Responses normalize into the canonical types of the untis package. The
// normalizer never fails an operation over payload shape: strict decoding is
// tried first, then structural probing, then field-by-field reconstruction
// with documented defaults, and records that carry nothing recognizable are
// dropped. An empty timetable is a valid result.
//
// # Persistence
//
// Options accepts two optional collaborators: a CredentialStore keeping
// login material across restarts (see credfile) and a TimetableCache serving
// timetables offline (see cachedb). Both default to nil and the session
// works fully without them. The CacheMode on a TimetableQuery controls both
// the wire cache headers and the local cache: OfflineOnly reads only the
// cache, FullCache falls back to it when the fetch fails.
//
// # Errors
//
// Operations return wrapped errors matchable with errors.Is and errors.As:
// ErrNotLoggedIn before authentication, AuthError when a server rejects the
// credentials, ServerError on fatal server failures, ExhaustedError when the
// whole candidate chain is spent. Construction returns ErrMissingSchool or
// ErrNoValidEndpoints for unusable tenant input.
//
// # Concurrency
//
// A Session is safe for concurrent use. Operations run their attempts
// sequentially; independent operations may run in parallel. The worst-case
// duration of one operation is its candidate count times the per-attempt
// timeout (Options.Timeout, default 10 seconds).
package untisgo

// Package endpoint turns user-supplied host strings into ranked lists of
// concrete WebUntis endpoints and plans the per-operation attempt order.
//
// # Host Normalization
//
// Users type hosts in every imaginable shape: "example.com",
// "https://example.com/WebUntis/", "example.com/WebUntis/?school=x&token=y".
// Normalize produces one canonical base URL from all of them: https scheme
// injected when absent, trailing slashes trimmed, the /WebUntis path segment
// appended when missing, query and fragment (including any embedded tokens)
// stripped.
//
// # Candidates
//
// Candidates enumerates the dialect entry points for a tenant in fixed
// priority order: the public JSON-RPC endpoint, the internal JSON-RPC
// endpoint, then the v1 and v3 REST roots. A construction failure of one
// entry never aborts the others; only an empty result is an error. The list
// is a pure function of the tenant — identical input yields an identical
// list, which sessions build once and reuse.
//
// # Route Table And Attempts
//
// The mapping from a logical operation to the dialect-specific method names
// or resource paths that may serve it lives in one declarative table.
// PlanAttempts walks the table in declared order and pairs every route with
// the matching candidates, producing the ranked attempt list the fallback
// orchestrator consumes. Reordering priorities or adding a dialect is a data
// change in the table, not a code change.
package endpoint

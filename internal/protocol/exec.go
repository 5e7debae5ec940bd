package protocol

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PythonTilk/untisgo/internal/endpoint"
)

// DefaultTimeout bounds a single attempt when the caller provides no HTTP
// client of its own. A logical operation's worst case is the number of
// planned attempts times this bound.
const DefaultTimeout = 10 * time.Second

// Exec routes each attempt to the binding that speaks its dialect. It is the
// executor the fallback orchestrator drives in production; tests substitute
// fakes.
type Exec struct {
	RPC  *JSONRPCClient
	REST *RESTClient
}

// NewExec wires both bindings onto one shared HTTP client. A nil httpClient
// gets the default per-attempt timeout.
func NewExec(httpClient *http.Client, userAgent string) Exec {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return Exec{
		RPC:  NewJSONRPCClient(httpClient, userAgent),
		REST: NewRESTClient(httpClient, userAgent),
	}
}

// Do executes one attempt. Unknown dialects are a wiring bug and classify
// fatal rather than panicking.
func (e Exec) Do(ctx context.Context, attempt endpoint.Attempt, req Request) Outcome {
	switch {
	case attempt.Candidate.Dialect.JSONRPC():
		return e.RPC.Do(ctx, attempt, req)
	case attempt.Candidate.Dialect.REST():
		return e.REST.Do(ctx, attempt, req)
	default:
		return fatal(0, fmt.Sprintf("no binding for dialect %q", attempt.Candidate.Dialect))
	}
}

package protocol

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/PythonTilk/untisgo/internal/endpoint"
)

const rpcVersion = "2.0"

// JSON-RPC error codes with a dialect-wide meaning. Everything else is a
// fatal server error carrying the server's message.
const (
	codeMethodNotFound   = -32601
	codeBadCredentials   = -8504
	codeNoRight          = -8509
	codeNotAuthenticated = -8520
)

type rpcRequest struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	JSONRPC string `json:"jsonrpc"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// JSONRPCClient is the stateless binding for both JSON-RPC dialects.
type JSONRPCClient struct {
	http      *http.Client
	userAgent string
	now       func() time.Time
}

// NewJSONRPCClient builds a binding on the shared HTTP client. The client's
// timeout bounds each attempt.
func NewJSONRPCClient(httpClient *http.Client, userAgent string) *JSONRPCClient {
	return &JSONRPCClient{http: httpClient, userAgent: userAgent, now: time.Now}
}

// Do posts one envelope to the attempt's entry point and classifies the
// response. It never retries.
func (c *JSONRPCClient) Do(ctx context.Context, attempt endpoint.Attempt, req Request) Outcome {
	paramsObj := map[string]any{}
	for k, v := range req.params().JSONRPC(attempt.Candidate.Dialect) {
		paramsObj[k] = v
	}
	intern := attempt.Candidate.Dialect == endpoint.DialectJSONRPCIntern
	if req.authenticated() && intern {
		paramsObj["auth"] = authObject(*req.Credentials, c.now())
	}

	envelope := rpcRequest{
		ID:      uuid.NewString(),
		Method:  attempt.Method,
		Params:  []any{paramsObj},
		JSONRPC: rpcVersion,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fatal(0, fmt.Sprintf("encode envelope: %v", err))
	}

	// The internal entry point wants the method repeated as a query
	// parameter; servers use it for routing and request logs.
	reqURL := *attempt.Candidate.URL
	if intern {
		q := reqURL.Query()
		q.Set("m", attempt.Method)
		reqURL.RawQuery = q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return fatal(0, fmt.Sprintf("create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.authenticated() && attempt.Candidate.Dialect == endpoint.DialectJSONRPC {
		// Legacy servers track the session server-side.
		httpReq.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: req.Credentials.Key})
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return transient(fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if out, done := classifyHTTPStatus(resp.StatusCode); done {
		return out
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fatal(resp.StatusCode, fmt.Sprintf("malformed envelope: %v", err))
	}
	if decoded.Error != nil {
		return classifyRPCError(decoded.Error)
	}
	if len(decoded.Result) == 0 {
		return fatal(resp.StatusCode, "malformed envelope: missing result and error")
	}
	return success(decoded.Result)
}

func classifyRPCError(e *rpcError) Outcome {
	switch e.Code {
	case codeMethodNotFound:
		return notSupported(e.Code, e.Message)
	case codeBadCredentials, codeNoRight, codeNotAuthenticated:
		return authFailure(e.Code, e.Message)
	default:
		return fatal(e.Code, e.Message)
	}
}

// classifyHTTPStatus maps transport status codes shared by both bindings.
// done is false for statuses whose body decides the outcome.
func classifyHTTPStatus(status int) (Outcome, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return authFailure(status, fmt.Sprintf("http %d", status)), true
	case status == http.StatusNotFound || status == http.StatusGone:
		return notSupported(status, fmt.Sprintf("http %d", status)), true
	case status >= 400:
		return fatal(status, fmt.Sprintf("http %d", status)), true
	default:
		return Outcome{}, false
	}
}

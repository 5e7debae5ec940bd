package protocol

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/PythonTilk/untisgo/internal/endpoint"
)

// RESTClient is the stateless binding for the versioned REST dialects.
type RESTClient struct {
	http      *http.Client
	userAgent string
}

// NewRESTClient builds a binding on the shared HTTP client.
func NewRESTClient(httpClient *http.Client, userAgent string) *RESTClient {
	return &RESTClient{http: httpClient, userAgent: userAgent}
}

// restError is the error body modern REST servers return alongside 4xx/5xx.
type restError struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Do issues one request to the attempt's resource path and classifies the
// response. It never retries.
func (c *RESTClient) Do(ctx context.Context, attempt endpoint.Attempt, req Request) Outcome {
	reqURL := *attempt.Candidate.URL
	reqURL.Path = reqURL.Path + "/" + strings.TrimPrefix(attempt.Method, "/")
	if q := req.params().RESTQuery(attempt.Candidate.Dialect); q != nil {
		reqURL.RawQuery = q.Encode()
	}

	method := req.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fatal(0, fmt.Sprintf("create request: %v", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Cache-Mode", req.CacheMode.String())
	httpReq.Header.Set("Cache-Control", CacheControl(req.CacheMode))
	if req.authenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+req.Credentials.Key)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return transient(fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return classifyRESTFailure(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transient(fmt.Errorf("read response: %w", err))
	}
	return success(raw)
}

// classifyRESTFailure folds the status code and, for ambiguous statuses, the
// error body into one outcome. A body naming an unknown resource downgrades
// the failure to not-supported even when the status alone would be fatal.
func classifyRESTFailure(resp *http.Response) Outcome {
	var restErr restError
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &restErr)
	}

	if unknownResource(restErr.ErrorCode) {
		return notSupported(resp.StatusCode, restMessage(resp.StatusCode, restErr))
	}
	if out, done := classifyHTTPStatus(resp.StatusCode); done {
		out.Message = restMessage(resp.StatusCode, restErr)
		return out
	}
	return fatal(resp.StatusCode, restMessage(resp.StatusCode, restErr))
}

func unknownResource(code string) bool {
	switch strings.ToUpper(code) {
	case "NOT_FOUND", "UNKNOWN_RESOURCE", "UNSUPPORTED", "NOT_IMPLEMENTED":
		return true
	default:
		return false
	}
}

func restMessage(status int, e restError) string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	return fmt.Sprintf("http %d", status)
}

package protocol

import (
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/PythonTilk/untisgo/internal/endpoint"
	"github.com/PythonTilk/untisgo/untis"
)

// Class is the orchestrator-facing classification of one attempt.
type Class int

const (
	ClassSuccess Class = iota
	ClassNotSupported
	ClassAuthFailure
	ClassTransient
	ClassFatal
)

// String returns the diagnostic name used in logs and aggregated errors.
func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassNotSupported:
		return "not-supported"
	case ClassAuthFailure:
		return "auth-failure"
	case ClassTransient:
		return "transient-network-error"
	case ClassFatal:
		return "fatal-server-error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of executing one attempt. Raw is only
// populated for ClassSuccess; Code carries the JSON-RPC error code or HTTP
// status that produced a non-success class.
type Outcome struct {
	Class   Class
	Raw     json.RawMessage
	Code    int
	Message string
	Err     error
}

// Advance reports whether the orchestrator should try the next candidate.
func (o Outcome) Advance() bool {
	return o.Class == ClassNotSupported || o.Class == ClassTransient
}

// Terminal reports whether the outcome aborts the whole operation.
func (o Outcome) Terminal() bool {
	return o.Class == ClassAuthFailure || o.Class == ClassFatal
}

func success(raw json.RawMessage) Outcome {
	return Outcome{Class: ClassSuccess, Raw: raw}
}

func notSupported(code int, message string) Outcome {
	return Outcome{Class: ClassNotSupported, Code: code, Message: message}
}

func authFailure(code int, message string) Outcome {
	return Outcome{Class: ClassAuthFailure, Code: code, Message: message}
}

func transient(err error) Outcome {
	return Outcome{Class: ClassTransient, Message: err.Error(), Err: err}
}

func fatal(code int, message string) Outcome {
	return Outcome{Class: ClassFatal, Code: code, Message: message}
}

// Params renders one operation's logical parameters for the dialect of the
// attempt at hand. The same value is reused across every candidate of an
// operation, so implementations switch on the dialect where the wire shapes
// differ (the legacy dialect wants compact numeric dates, the mobile dialect
// ISO strings). Either method may return nil when the dialect needs nothing.
type Params interface {
	JSONRPC(d endpoint.Dialect) map[string]any
	RESTQuery(d endpoint.Dialect) url.Values
}

// NoParams is the Params implementation for operations without parameters.
type NoParams struct{}

// JSONRPC returns nil: the envelope still carries an empty object.
func (NoParams) JSONRPC(endpoint.Dialect) map[string]any { return nil }

// RESTQuery returns nil: the resource path carries no query.
func (NoParams) RESTQuery(endpoint.Dialect) url.Values { return nil }

// Request is the dialect-independent description of one attempt's payload.
type Request struct {
	Params      Params
	Credentials *untis.Credentials
	CacheMode   untis.CacheMode
	// HTTPMethod overrides the REST verb; empty means GET. The JSON-RPC
	// binding always posts.
	HTTPMethod string
}

func (r Request) params() Params {
	if r.Params == nil {
		return NoParams{}
	}
	return r.Params
}

func (r Request) authenticated() bool {
	return r.Credentials != nil && r.Credentials.Valid()
}

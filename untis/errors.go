package untis

import (
	"fmt"
	"strings"
)

// AuthError reports that a server understood an attempt but rejected its
// credentials. It aborts fallback: every other candidate of the same tenant
// would reject the same credentials.
type AuthError struct {
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication rejected"
	}
	return "authentication rejected: " + e.Message
}

// ServerError reports a fatal server-side failure: a structured error that is
// neither an authentication problem nor a missing capability. Code carries
// the JSON-RPC error code or HTTP status that produced it.
type ServerError struct {
	Code    int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error %d", e.Code)
	}
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// AttemptError records how one ranked attempt failed during fallback.
type AttemptError struct {
	Dialect string
	Method  string
	Class   string
	Code    int
	Message string
}

func (e AttemptError) String() string {
	s := fmt.Sprintf("%s %s: %s", e.Dialect, e.Method, e.Class)
	if e.Message != "" {
		s += " (" + e.Message + ")"
	}
	return s
}

// ExhaustedError aggregates a fallback run in which every candidate either
// lacked the capability or failed transiently. Attempts preserves the order
// in which candidates were tried.
type ExhaustedError struct {
	Op       string
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return e.Op + ": no endpoint candidates to try"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s: all %d endpoint candidates failed: %s",
		e.Op, len(e.Attempts), strings.Join(parts, "; "))
}

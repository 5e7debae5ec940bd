package fallback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/PythonTilk/untisgo/internal/endpoint"
	"github.com/PythonTilk/untisgo/internal/protocol"
	"github.com/PythonTilk/untisgo/untis"
)

// scriptExec replays canned outcomes keyed by attempt and records try order.
type scriptExec struct {
	outcomes map[string]protocol.Outcome
	calls    []string
	cancel   context.CancelFunc
}

func (s *scriptExec) Do(ctx context.Context, attempt endpoint.Attempt, req protocol.Request) protocol.Outcome {
	s.calls = append(s.calls, attempt.Key())
	if s.cancel != nil {
		s.cancel()
	}
	out, ok := s.outcomes[attempt.Key()]
	if !ok {
		return protocol.Outcome{Class: protocol.ClassFatal, Message: "unscripted attempt"}
	}
	return out
}

func makeAttempts(t *testing.T, methods ...string) []endpoint.Attempt {
	t.Helper()
	u, err := url.Parse("https://example.com/WebUntis/jsonrpc.do?school=demo")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	attempts := make([]endpoint.Attempt, len(methods))
	for i, m := range methods {
		attempts[i] = endpoint.Attempt{
			Candidate: endpoint.Candidate{URL: u, Dialect: endpoint.DialectJSONRPC},
			Method:    m,
			Rank:      i,
		}
	}
	return attempts
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAdvancesToFirstSuccess(t *testing.T) {
	t.Parallel()

	attempts := makeAttempts(t, "modern", "middle", "legacy")
	exec := &scriptExec{outcomes: map[string]protocol.Outcome{
		attempts[0].Key(): {Class: protocol.ClassNotSupported, Code: -32601},
		attempts[1].Key(): {Class: protocol.ClassTransient, Message: "connection refused"},
		attempts[2].Key(): {Class: protocol.ClassSuccess, Raw: []byte(`{"ok":true}`)},
	}}

	res, err := New(exec, quietLogger()).Run(context.Background(), endpoint.OpTimetable, attempts, protocol.Request{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Winner.Key() != attempts[2].Key() {
		t.Fatalf("winner = %s, want %s", res.Winner.Key(), attempts[2].Key())
	}
	if string(res.Raw) != `{"ok":true}` {
		t.Fatalf("raw = %s, want winner payload", res.Raw)
	}
	want := []string{attempts[0].Key(), attempts[1].Key(), attempts[2].Key()}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("call %d = %s, want %s", i, exec.calls[i], want[i])
		}
	}
}

func TestRunStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	attempts := makeAttempts(t, "modern", "legacy")
	exec := &scriptExec{outcomes: map[string]protocol.Outcome{
		attempts[0].Key(): {Class: protocol.ClassSuccess, Raw: []byte(`1`)},
	}}

	res, err := New(exec, quietLogger()).Run(context.Background(), endpoint.OpTimetable, attempts, protocol.Request{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Winner.Rank != 0 || len(exec.calls) != 1 {
		t.Fatalf("winner rank %d after %d calls, want first attempt only", res.Winner.Rank, len(exec.calls))
	}
}

func TestRunAbortsOnAuthFailure(t *testing.T) {
	t.Parallel()

	attempts := makeAttempts(t, "modern", "middle", "legacy")
	exec := &scriptExec{outcomes: map[string]protocol.Outcome{
		attempts[0].Key(): {Class: protocol.ClassNotSupported},
		attempts[1].Key(): {Class: protocol.ClassAuthFailure, Code: -8504, Message: "bad credentials"},
	}}

	_, err := New(exec, quietLogger()).Run(context.Background(), endpoint.OpTimetable, attempts, protocol.Request{})
	var authErr *untis.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *untis.AuthError", err)
	}
	if authErr.Code != -8504 || authErr.Message != "bad credentials" {
		t.Fatalf("auth error = %+v, want code -8504 with server message", authErr)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("calls = %v, want abort after the auth failure", exec.calls)
	}
}

func TestRunAbortsOnFatalServerError(t *testing.T) {
	t.Parallel()

	attempts := makeAttempts(t, "modern", "legacy")
	exec := &scriptExec{outcomes: map[string]protocol.Outcome{
		attempts[0].Key(): {Class: protocol.ClassFatal, Code: 500, Message: "boom"},
	}}

	_, err := New(exec, quietLogger()).Run(context.Background(), endpoint.OpExams, attempts, protocol.Request{})
	var serverErr *untis.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("error = %v, want *untis.ServerError", err)
	}
	if serverErr.Code != 500 || serverErr.Message != "boom" {
		t.Fatalf("server error = %+v, want code 500 with message", serverErr)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("calls = %v, want no attempts after the fatal one", exec.calls)
	}
}

func TestRunExhaustionAggregates(t *testing.T) {
	t.Parallel()

	attempts := makeAttempts(t, "modern", "middle", "legacy")
	exec := &scriptExec{outcomes: map[string]protocol.Outcome{
		attempts[0].Key(): {Class: protocol.ClassNotSupported, Code: -32601, Message: "no such method"},
		attempts[1].Key(): {Class: protocol.ClassTransient, Message: "timeout"},
		attempts[2].Key(): {Class: protocol.ClassNotSupported, Code: 404},
	}}

	_, err := New(exec, quietLogger()).Run(context.Background(), endpoint.OpHomework, attempts, protocol.Request{})
	var exhausted *untis.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *untis.ExhaustedError", err)
	}
	if exhausted.Op != string(endpoint.OpHomework) {
		t.Fatalf("op = %q, want %q", exhausted.Op, endpoint.OpHomework)
	}
	if len(exhausted.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(exhausted.Attempts))
	}
	if exhausted.Attempts[0].Class != "not-supported" || exhausted.Attempts[0].Code != -32601 {
		t.Fatalf("first attempt = %+v, want the -32601 rejection", exhausted.Attempts[0])
	}
	if exhausted.Attempts[1].Class != "transient-network-error" {
		t.Fatalf("second attempt = %+v, want the transient failure", exhausted.Attempts[1])
	}
	if exhausted.Attempts[2].Method != "legacy" {
		t.Fatalf("third attempt = %+v, want method order preserved", exhausted.Attempts[2])
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	attempts := makeAttempts(t, "modern", "legacy")
	exec := &scriptExec{
		outcomes: map[string]protocol.Outcome{
			attempts[0].Key(): {Class: protocol.ClassNotSupported},
		},
		cancel: cancel,
	}

	_, err := New(exec, quietLogger()).Run(ctx, endpoint.OpTimetable, attempts, protocol.Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("calls = %v, want no attempts after cancellation", exec.calls)
	}
}

func TestRunNoAttempts(t *testing.T) {
	t.Parallel()

	exec := &scriptExec{}
	_, err := New(exec, quietLogger()).Run(context.Background(), endpoint.OpTimetable, nil, protocol.Request{})
	var exhausted *untis.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *untis.ExhaustedError", err)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("calls = %v, want none", exec.calls)
	}
}

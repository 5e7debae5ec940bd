package protocol

import (
	"errors"
	"testing"

	"github.com/PythonTilk/untisgo/internal/endpoint"
)

func TestOutcomeAdvanceAndTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		out      Outcome
		advance  bool
		terminal bool
	}{
		{"success", success([]byte(`{}`)), false, false},
		{"not supported", notSupported(404, "gone"), true, false},
		{"transient", transient(errors.New("refused")), true, false},
		{"auth failure", authFailure(-8504, "bad credentials"), false, true},
		{"fatal", fatal(500, "boom"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.out.Advance(); got != tt.advance {
				t.Errorf("Advance() = %v, want %v", got, tt.advance)
			}
			if got := tt.out.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestClassString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class Class
		want  string
	}{
		{ClassSuccess, "success"},
		{ClassNotSupported, "not-supported"},
		{ClassAuthFailure, "auth-failure"},
		{ClassTransient, "transient-network-error"},
		{ClassFatal, "fatal-server-error"},
		{Class(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("Class(%d).String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestRequestParamsDefault(t *testing.T) {
	t.Parallel()

	var r Request
	if r.params() == nil {
		t.Fatalf("params() = nil, want NoParams")
	}
	if r.params().JSONRPC(endpoint.DialectJSONRPC) != nil {
		t.Fatalf("NoParams.JSONRPC() = %v, want nil", r.params().JSONRPC(endpoint.DialectJSONRPC))
	}
	if r.authenticated() {
		t.Fatalf("empty request counts as authenticated")
	}
}

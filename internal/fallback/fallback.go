package fallback

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/PythonTilk/untisgo/internal/endpoint"
	"github.com/PythonTilk/untisgo/internal/protocol"
	"github.com/PythonTilk/untisgo/untis"
)

// Executor runs a single attempt. protocol.Exec is the production
// implementation; tests substitute canned outcomes.
type Executor interface {
	Do(ctx context.Context, attempt endpoint.Attempt, req protocol.Request) protocol.Outcome
}

// Orchestrator drives fallback across one operation's ranked attempts.
type Orchestrator struct {
	exec Executor
	log  *slog.Logger
}

// New builds an orchestrator. A nil logger falls back to slog.Default.
func New(exec Executor, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{exec: exec, log: log}
}

// Result is a successful fallback run. Winner is the attempt that produced
// Raw; callers pin it so the next call for the same operation starts there.
type Result struct {
	Winner endpoint.Attempt
	Raw    json.RawMessage
}

// Run tries each attempt in order and returns the first success.
//
// Auth failures and fatal server errors abort immediately with
// *untis.AuthError or *untis.ServerError. If every attempt is either
// unsupported or transient, the aggregate *untis.ExhaustedError lists them
// all in try order. Cancelling ctx stops the walk between attempts.
func (o *Orchestrator) Run(ctx context.Context, op endpoint.Operation, attempts []endpoint.Attempt, req protocol.Request) (Result, error) {
	if len(attempts) == 0 {
		return Result{}, &untis.ExhaustedError{Op: string(op)}
	}

	failed := make([]untis.AttemptError, 0, len(attempts))
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}

		out := o.exec.Do(ctx, attempt, req)
		switch out.Class {
		case protocol.ClassSuccess:
			o.log.DebugContext(ctx, "attempt succeeded",
				"op", string(op),
				"dialect", string(attempt.Candidate.Dialect),
				"method", attempt.Method,
				"rank", attempt.Rank)
			return Result{Winner: attempt, Raw: out.Raw}, nil

		case protocol.ClassAuthFailure:
			o.log.WarnContext(ctx, "attempt rejected credentials, aborting",
				"op", string(op),
				"dialect", string(attempt.Candidate.Dialect),
				"method", attempt.Method,
				"code", out.Code)
			return Result{}, fmt.Errorf("%s: %w", op, &untis.AuthError{Code: out.Code, Message: out.Message})

		case protocol.ClassFatal:
			o.log.WarnContext(ctx, "attempt failed fatally, aborting",
				"op", string(op),
				"dialect", string(attempt.Candidate.Dialect),
				"method", attempt.Method,
				"code", out.Code)
			return Result{}, fmt.Errorf("%s: %w", op, &untis.ServerError{Code: out.Code, Message: out.Message})

		default:
			// Not supported or transient: move on to the next
			// candidate.
			o.log.DebugContext(ctx, "attempt failed, advancing",
				"op", string(op),
				"dialect", string(attempt.Candidate.Dialect),
				"method", attempt.Method,
				"class", out.Class.String(),
				"code", out.Code)
			failed = append(failed, untis.AttemptError{
				Dialect: string(attempt.Candidate.Dialect),
				Method:  attempt.Method,
				Class:   out.Class.String(),
				Code:    out.Code,
				Message: out.Message,
			})
		}
	}

	return Result{}, &untis.ExhaustedError{Op: string(op), Attempts: failed}
}

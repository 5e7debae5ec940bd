package untisgo

import (
	"errors"

	"github.com/PythonTilk/untisgo/internal/endpoint"
	"github.com/PythonTilk/untisgo/untis"
)

// Sentinel errors surfaced by session construction and operations, matchable
// with errors.Is even when wrapped.
var (
	// ErrMissingSchool is returned by NewSession when the school name is
	// empty after trimming.
	ErrMissingSchool = endpoint.ErrMissingSchool

	// ErrNoValidEndpoints is returned by NewSession when no usable base URL
	// could be derived from the host.
	ErrNoValidEndpoints = endpoint.ErrNoValidEndpoints

	// ErrNotLoggedIn is returned by operations that need credentials before
	// Login, Restore, or SetCredentials provided any.
	ErrNotLoggedIn = errors.New("untisgo: not logged in")
)

// Error types carried inside wrapped operation errors, matchable with
// errors.As.
type (
	// AuthError reports that a server understood an attempt and rejected
	// its credentials. The operation aborts instead of trying further
	// candidates, since the same credentials would be rejected everywhere.
	AuthError = untis.AuthError

	// ServerError reports a fatal server-side failure that aborts the
	// operation.
	ServerError = untis.ServerError

	// AttemptError describes one failed candidate inside an ExhaustedError.
	AttemptError = untis.AttemptError

	// ExhaustedError reports that every candidate for an operation was
	// tried and none succeeded.
	ExhaustedError = untis.ExhaustedError
)

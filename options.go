package untisgo

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/PythonTilk/untisgo/untis"
)

// DefaultSearchURL is the central school lookup service SearchSchools queries
// when Options.SearchURL is empty.
const DefaultSearchURL = "https://mobile.webuntis.com/ms/schoolquery2"

const defaultUserAgent = "untisgo/1"

// CredentialStore persists credentials across sessions, keyed by a
// tenant-user identifier the session derives from host, school, and user.
// Implementations report failure instead of returning errors: persistence is
// best-effort and the session works without it. credfile.Store is the bundled
// file-backed implementation.
type CredentialStore interface {
	Save(tenantUserID string, creds untis.Credentials) bool
	Load(tenantUserID string) (untis.Credentials, bool)
	Delete(tenantUserID string) bool
}

// TimetableCache stores fetched timetables for later offline reuse. Load
// reports a miss with false; Store errors are logged by the session and
// otherwise ignored. cachedb.Cache is the bundled SQLite implementation.
type TimetableCache interface {
	Load(ctx context.Context, tenantUserID string, r untis.DateRange) (untis.Timetable, bool)
	Store(ctx context.Context, tenantUserID string, t untis.Timetable) error
}

// Options tunes a Session beyond its tenant. The zero value is usable: a
// fresh HTTP client with a 10 second per-attempt timeout, no logging, and no
// persistence collaborators.
type Options struct {
	// Logger receives attempt classifications at Debug level and operation
	// aborts at Warn. Nil discards everything.
	Logger *slog.Logger

	// HTTPClient is shared by all dialect bindings. Nil means a fresh
	// client with Timeout applied.
	HTTPClient *http.Client

	// Timeout bounds each wire attempt when HTTPClient is nil; zero means
	// 10 seconds. An operation's worst case is this times the number of
	// endpoint candidates it may try.
	Timeout time.Duration

	// UserAgent is sent with every request and doubles as the client name
	// announced during legacy authentication. Empty means a library
	// default.
	UserAgent string

	// Credentials persists login material across sessions. Nil disables
	// persistence.
	Credentials CredentialStore

	// Cache serves and stores timetables according to each query's
	// CacheMode. Nil disables local caching.
	Cache TimetableCache

	// SearchURL overrides the central school lookup endpoint. Empty means
	// DefaultSearchURL.
	SearchURL string
}

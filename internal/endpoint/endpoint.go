package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Dialect tags one wire-protocol variant a server may speak.
type Dialect string

const (
	DialectJSONRPC       Dialect = "json-rpc-public"
	DialectJSONRPCIntern Dialect = "json-rpc-internal"
	DialectRESTv1        Dialect = "rest-v1"
	DialectRESTv3        Dialect = "rest-v3"
)

// JSONRPC reports whether the dialect uses the JSON-RPC envelope.
func (d Dialect) JSONRPC() bool {
	return d == DialectJSONRPC || d == DialectJSONRPCIntern
}

// REST reports whether the dialect uses REST resource paths.
func (d Dialect) REST() bool {
	return d == DialectRESTv1 || d == DialectRESTv3
}

var (
	// ErrMissingSchool is returned when the tenant has no school name.
	ErrMissingSchool = errors.New("endpoint: school name required")
	// ErrNoValidEndpoints is returned when no candidate could be built.
	ErrNoValidEndpoints = errors.New("endpoint: no valid endpoints")
)

// Tenant identifies one school account on one server host. Immutable once a
// session starts.
type Tenant struct {
	Host   string
	School string
}

// ResolveTenant validates and trims the raw inputs.
func ResolveTenant(host, school string) (Tenant, error) {
	school = strings.TrimSpace(school)
	if school == "" {
		return Tenant{}, ErrMissingSchool
	}
	return Tenant{Host: strings.TrimSpace(host), School: school}, nil
}

// Candidate is one dialect entry point on a tenant's server. Rank ascending
// means tried first.
type Candidate struct {
	URL     *url.URL
	Dialect Dialect
	Rank    int
}

const untisPathSegment = "/WebUntis"

// Normalize turns a raw host string into the canonical base URL: scheme
// injected, /WebUntis path ensured, trailing slashes, query, and fragment
// (with any embedded tokens) removed.
func Normalize(rawHost string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawHost)
	if trimmed == "" {
		return nil, fmt.Errorf("empty host")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", rawHost, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host %q has no hostname", rawHost)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	if !strings.EqualFold(u.Path, untisPathSegment) {
		u.Path = untisPathSegment
	}
	return u, nil
}

// Candidates enumerates the dialect entry points for the tenant in priority
// order. A single entry failing to construct does not abort the enumeration;
// only an entirely empty result is an error.
func Candidates(t Tenant) ([]Candidate, error) {
	if strings.TrimSpace(t.School) == "" {
		return nil, ErrMissingSchool
	}
	base, err := Normalize(t.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoValidEndpoints, err)
	}

	builders := []struct {
		dialect Dialect
		build   func(*url.URL, string) (*url.URL, error)
	}{
		{DialectJSONRPC, jsonRPCURL("/jsonrpc.do")},
		{DialectJSONRPCIntern, jsonRPCURL("/jsonrpc_intern.do")},
		{DialectRESTv1, restURL("/api/rest/view/v1")},
		{DialectRESTv3, restURL("/api/rest/view/v3")},
	}

	var (
		out      []Candidate
		failures []string
	)
	for _, b := range builders {
		u, err := b.build(base, t.School)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", b.dialect, err))
			continue
		}
		out = append(out, Candidate{URL: u, Dialect: b.dialect, Rank: len(out)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValidEndpoints, strings.Join(failures, "; "))
	}
	return out, nil
}

// jsonRPCURL appends the RPC entry path and carries the school as a query
// parameter, the way every JSON-RPC dialect expects it.
func jsonRPCURL(entry string) func(*url.URL, string) (*url.URL, error) {
	return func(base *url.URL, school string) (*url.URL, error) {
		u := *base
		u.Path += entry
		q := url.Values{}
		q.Set("school", school)
		u.RawQuery = q.Encode()
		if _, err := url.Parse(u.String()); err != nil {
			return nil, fmt.Errorf("build %s: %w", entry, err)
		}
		return &u, nil
	}
}

// restURL appends the REST root; the school travels in the token, not the
// URL, so the query stays empty.
func restURL(root string) func(*url.URL, string) (*url.URL, error) {
	return func(base *url.URL, _ string) (*url.URL, error) {
		u := *base
		u.Path += root
		if _, err := url.Parse(u.String()); err != nil {
			return nil, fmt.Errorf("build %s: %w", root, err)
		}
		return &u, nil
	}
}

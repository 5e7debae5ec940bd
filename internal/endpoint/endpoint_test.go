package endpoint

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		want    string
		wantErr bool
	}{
		{"bare host", "example.com", "https://example.com/WebUntis", false},
		{"scheme kept", "http://example.com", "http://example.com/WebUntis", false},
		{"path kept", "https://example.com/WebUntis", "https://example.com/WebUntis", false},
		{"trailing slash", "https://example.com/WebUntis/", "https://example.com/WebUntis", false},
		{"query stripped", "example.com/WebUntis/?token=secret&school=x", "https://example.com/WebUntis", false},
		{"fragment stripped", "example.com#frag", "https://example.com/WebUntis", false},
		{"other path replaced", "example.com/untis/", "https://example.com/WebUntis", false},
		{"case insensitive path", "example.com/webuntis", "https://example.com/webuntis", false},
		{"whitespace", "  example.com  ", "https://example.com/WebUntis", false},
		{"empty", "", "", true},
		{"spaces only", "   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Normalize(tt.host)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %v, want error", tt.host, u)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.host, err)
			}
			if u.String() != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.host, u.String(), tt.want)
			}
		})
	}
}

func TestResolveTenant_RequiresSchool(t *testing.T) {
	_, err := ResolveTenant("example.com", "   ")
	if !errors.Is(err, ErrMissingSchool) {
		t.Fatalf("ResolveTenant error = %v, want ErrMissingSchool", err)
	}

	tenant, err := ResolveTenant(" example.com ", " My School ")
	if err != nil {
		t.Fatalf("ResolveTenant returned error: %v", err)
	}
	if tenant.Host != "example.com" || tenant.School != "My School" {
		t.Fatalf("tenant = %#v, want trimmed host and school", tenant)
	}
}

func TestCandidates_OrderAndShape(t *testing.T) {
	tenant := Tenant{Host: "example.com", School: "Demo School"}

	got, err := Candidates(tenant)
	if err != nil {
		t.Fatalf("Candidates returned error: %v", err)
	}

	wantURLs := []struct {
		dialect Dialect
		url     string
	}{
		{DialectJSONRPC, "https://example.com/WebUntis/jsonrpc.do?school=Demo+School"},
		{DialectJSONRPCIntern, "https://example.com/WebUntis/jsonrpc_intern.do?school=Demo+School"},
		{DialectRESTv1, "https://example.com/WebUntis/api/rest/view/v1"},
		{DialectRESTv3, "https://example.com/WebUntis/api/rest/view/v3"},
	}
	if len(got) != len(wantURLs) {
		t.Fatalf("Candidates = %d entries, want %d", len(got), len(wantURLs))
	}
	for i, want := range wantURLs {
		if got[i].Dialect != want.dialect {
			t.Fatalf("candidate %d dialect = %q, want %q", i, got[i].Dialect, want.dialect)
		}
		if got[i].URL.String() != want.url {
			t.Fatalf("candidate %d url = %q, want %q", i, got[i].URL.String(), want.url)
		}
		if got[i].Rank != i {
			t.Fatalf("candidate %d rank = %d, want %d", i, got[i].Rank, i)
		}
	}
}

func TestCandidates_Deterministic(t *testing.T) {
	tenant := Tenant{Host: "https://example.com/WebUntis/?token=x", School: "demo"}

	first, err := Candidates(tenant)
	if err != nil {
		t.Fatalf("first Candidates returned error: %v", err)
	}
	second, err := Candidates(tenant)
	if err != nil {
		t.Fatalf("second Candidates returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].URL.String() != second[i].URL.String() ||
			first[i].Dialect != second[i].Dialect ||
			first[i].Rank != second[i].Rank {
			t.Fatalf("candidate %d differs between calls: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestCandidates_Errors(t *testing.T) {
	if _, err := Candidates(Tenant{Host: "example.com"}); !errors.Is(err, ErrMissingSchool) {
		t.Fatalf("empty school error = %v, want ErrMissingSchool", err)
	}
	if _, err := Candidates(Tenant{Host: "", School: "demo"}); !errors.Is(err, ErrNoValidEndpoints) {
		t.Fatalf("empty host error = %v, want ErrNoValidEndpoints", err)
	}
}

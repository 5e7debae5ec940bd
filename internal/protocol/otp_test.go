package protocol

import (
	"testing"
	"time"

	"github.com/PythonTilk/untisgo/untis"
)

// rfcKey is the base32 form of the ASCII secret "12345678901234567890" from
// RFC 6238 appendix B.
const rfcKey = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestTOTPReferenceVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unix int64
		want uint32
	}{
		{59, 287082},
		{1111111109, 81804},
		{1111111111, 50471},
		{1234567890, 5924},
		{2000000000, 279037},
		{20000000000, 353130},
	}
	for _, tt := range tests {
		if got := totp(rfcKey, time.Unix(tt.unix, 0)); got != tt.want {
			t.Errorf("totp(rfcKey, %d) = %d, want %d", tt.unix, got, tt.want)
		}
	}
}

func TestTOTPNormalizesKey(t *testing.T) {
	t.Parallel()

	now := time.Unix(59, 0)
	want := totp(rfcKey, now)

	for _, key := range []string{
		"gezdgnbvgy3tqojqgezdgnbvgy3tqojq",
		"GEZD GNBV GY3T QOJQ GEZD GNBV GY3T QOJQ",
		"  " + rfcKey + "  ",
		rfcKey + "======",
	} {
		if got := totp(key, now); got != want {
			t.Errorf("totp(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestTOTPStableWithinStep(t *testing.T) {
	t.Parallel()

	base := time.Unix(1700000010, 0) // mid-step
	if a, b := totp(rfcKey, base), totp(rfcKey, base.Add(10*time.Second)); a != b {
		t.Fatalf("codes differ within one step: %d vs %d", a, b)
	}
	if a, b := totp(rfcKey, base), totp(rfcKey, base.Add(40*time.Second)); a == b {
		t.Fatalf("codes identical across steps: %d", a)
	}
}

func TestTOTPAcceptsNonBase32Key(t *testing.T) {
	t.Parallel()

	// Servers hand out a few secrets that never were base32; those are
	// consumed as raw bytes instead of failing the login.
	got := totp("not-a-base32-secret!", time.Unix(59, 0))
	if got >= 1000000 {
		t.Fatalf("totp = %d, want a 6-digit code", got)
	}
}

func TestAuthObjectShape(t *testing.T) {
	t.Parallel()

	now := time.Unix(59, 0)
	creds := untis.Credentials{User: "alice", Key: rfcKey}
	auth := authObject(creds, now)

	if auth["user"] != "alice" {
		t.Errorf("user = %v, want alice", auth["user"])
	}
	if auth["otp"] != uint32(287082) {
		t.Errorf("otp = %v, want 287082", auth["otp"])
	}
	if auth["clientTime"] != now.UnixMilli() {
		t.Errorf("clientTime = %v, want %d", auth["clientTime"], now.UnixMilli())
	}
	if len(auth) != 3 {
		t.Errorf("auth has %d keys, want 3", len(auth))
	}
}

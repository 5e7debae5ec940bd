package protocol

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"strings"
	"time"

	"github.com/PythonTilk/untisgo/untis"
)

const otpStep = 30 * time.Second

// authObject builds the per-request identity proof the internal dialect
// expects inside the params object.
func authObject(creds untis.Credentials, now time.Time) map[string]any {
	return map[string]any{
		"user":       creds.User,
		"otp":        totp(creds.Key, now),
		"clientTime": now.UnixMilli(),
	}
}

// totp computes the 6-digit time-based HMAC-SHA1 code for the session key.
// Keys are base32 as handed out by getAppSharedSecret; a key that does not
// decode is used as raw bytes, which matches how servers treat malformed
// secrets.
func totp(key string, now time.Time) uint32 {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), " ", ""))
	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(normalized, "="))
	if err != nil {
		secret = []byte(key)
	}

	counter := uint64(now.Unix()) / uint64(otpStep/time.Second)
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
	return code % 1000000
}

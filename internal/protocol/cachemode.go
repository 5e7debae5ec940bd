package protocol

import "github.com/PythonTilk/untisgo/untis"

// CacheControl derives the Cache-Control header value the REST dialect
// advertises for a cache mode. The mapping is fixed 1:1.
func CacheControl(mode untis.CacheMode) string {
	switch mode {
	case untis.NoCache:
		return "no-store"
	case untis.OfflineOnly:
		return "only-if-cached"
	case untis.OnlineOnly:
		return "no-cache"
	case untis.FullCache:
		return "public, max-age=60"
	default:
		return "no-cache"
	}
}

package corpus

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// UnknownPublished is the sentinel used when a source record carries no
// publication date.
const UnknownPublished = "unknown"

// DeriveID computes the stable identifier for an externally fetched paper.
// The id is a content hash over the normalized title and published date, so
// re-fetching the identical record always yields the same id. This is the
// single canonical id rule for all fetched documents; source-provided ids
// are kept only as metadata.
func DeriveID(title, published string) string {
	if published == "" {
		published = UnknownPublished
	}
	h := sha1.Sum([]byte(normalize(title) + "|" + normalize(published)))
	return hex.EncodeToString(h[:])
}

// normalize lowercases and collapses all runs of whitespace to single spaces.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

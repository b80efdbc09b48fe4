package domain

import (
	"crypto/md5"
	"encoding/hex"
)

// hashURL returns a short digest of the target URL for use inside the
// dedup key. Eight hex chars of MD5 is plenty at human-campaign scale;
// this is not a security boundary.
func hashURL(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:8]
}

// BuildDedupKey derives the storage key scoping a fingerprint to one
// campaign and one target URL. The same device clicking the same campaign
// but a different target gets a separate record, so per-target device
// counts never cross-contaminate, while repeat clicks to the same target
// increment instead of duplicating.
func BuildDedupKey(fingerprint, campaignID, targetURL string) string {
	return fingerprint + "_" + campaignID + "_" + hashURL(targetURL)
}

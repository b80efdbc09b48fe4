package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var fingerprintRe = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// Combine merges the server-observed and client-observed hashes into the
// final device fingerprint: lowercase hex SHA-256 of "server:client".
// Order matters; callers always pass the server hash first.
func Combine(serverHash, clientHash string) string {
	sum := sha256.Sum256([]byte(serverHash + ":" + clientHash))
	return hex.EncodeToString(sum[:])
}

// IsValidFingerprint reports whether s looks like a SHA-256 digest in hex.
// Used as the input gate before any storage operation.
func IsValidFingerprint(s string) bool {
	return fingerprintRe.MatchString(s)
}

// ServerHash derives the server-side signal from request metadata that is
// available without client cooperation. Proxies and NAT collapse many
// devices onto one address, so this signal is weak on its own.
func ServerHash(userAgent, ip, language string) string {
	if userAgent == "" {
		userAgent = "unknown"
	}
	if ip == "" {
		ip = "unknown"
	}
	if language == "" {
		language = "unknown"
	}
	sum := sha256.Sum256([]byte(userAgent + "|" + ip + "|" + language))
	return hex.EncodeToString(sum[:])
}

// FallbackClientHash produces a degraded but still collision-resistant
// client signal when the rich client-side probe is unavailable. The feature
// set mirrors what a browser can always report; unavailable features are
// passed as zero. The encoding is deterministic: base64 of the joined
// components, padding stripped, truncated to 32 characters.
func FallbackClientHash(userAgent, language string, screenW, screenH, colorDepth, tzOffset, cores, touchPoints int) string {
	components := fmt.Sprintf("%s|%s|%d|%d|%d|%d|%d|%d",
		userAgent, language, screenW, screenH, colorDepth, tzOffset, cores, touchPoints)
	enc := base64.StdEncoding.EncodeToString([]byte(components))
	enc = strings.TrimRight(enc, "=")
	if len(enc) > 32 {
		enc = enc[:32]
	}
	return enc
}

package domain

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

var campaignIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// IsValidCampaignID reports whether id is an acceptable campaign token:
// 1-100 characters from [A-Za-z0-9_-].
func IsValidCampaignID(id string) bool {
	return campaignIDRe.MatchString(id)
}

// SanitizeCampaignID strips every character outside [A-Za-z0-9_-].
func SanitizeCampaignID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, id)
}

// IsValidTargetURL reports whether raw is a safe redirect destination.
// Only http/https is allowed, and hosts resolving to loopback, private or
// otherwise internal addresses are rejected to close open-redirect and
// SSRF holes.
func IsValidTargetURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	if host == "localhost" || strings.HasSuffix(host, ".local") || strings.Contains(host, "local.") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
			return false
		}
	}
	return true
}

// EncodeURL makes a URL safe to carry inside a query parameter.
func EncodeURL(raw string) string {
	return url.QueryEscape(raw)
}

// DecodeURL reverses EncodeURL. Input that fails to decode is returned
// unchanged rather than erroring, matching the forgiving behaviour
// expected by redirect links assembled by hand.
func DecodeURL(encoded string) string {
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return encoded
	}
	return decoded
}

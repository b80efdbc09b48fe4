package device

import (
	"testing"

	"clicktrack/internal/core/domain"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		ua       string
		wantType domain.DeviceType
		browser  string
		os       string
	}{
		{
			name:     "iphone safari",
			ua:       "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantType: domain.DeviceMobile,
			browser:  "Safari",
			os:       "iOS",
		},
		{
			name:     "chrome on windows",
			ua:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantType: domain.DeviceDesktop,
			browser:  "Chrome",
			os:       "Windows",
		},
		{
			name:     "ipad",
			ua:       "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			wantType: domain.DeviceTablet,
			browser:  "Safari",
			os:       "iOS",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Parse(c.ua)
			if got.Type != c.wantType {
				t.Errorf("type = %s, want %s", got.Type, c.wantType)
			}
			if got.Browser != c.browser {
				t.Errorf("browser = %s, want %s", got.Browser, c.browser)
			}
			if got.OS != c.os {
				t.Errorf("os = %s, want %s", got.OS, c.os)
			}
			if got.UserAgent != c.ua {
				t.Error("raw user agent must be preserved")
			}
		})
	}
}

func TestParseGarbage(t *testing.T) {
	// Unrecognized tokens must not leak into Browser: breakdown keys are
	// grouped by that field, so a raw attacker-chosen UA string would become
	// an analytics dimension.
	for _, raw := range []string{"definitely-not-a-browser", "<script>alert(1)</script>", ""} {
		got := Parse(raw)
		if got.Type != domain.DeviceUnknown {
			t.Fatalf("Parse(%q) type = %s, want unknown", raw, got.Type)
		}
		if got.Browser != "Unknown" || got.OS != "Unknown" {
			t.Fatalf("Parse(%q) should normalise to Unknown, got %+v", raw, got)
		}
		if got.UserAgent != raw {
			t.Errorf("Parse(%q) must preserve the raw user agent", raw)
		}
	}
}

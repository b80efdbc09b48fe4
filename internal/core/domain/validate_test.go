package domain

import (
	"strings"
	"testing"
)

func TestIsValidCampaignID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"instagram-bio", true},
		{"a", true},
		{"Camp_2024-01", true},
		{strings.Repeat("x", 100), true},
		{strings.Repeat("x", 101), false},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"path/inject", false},
	}
	for _, c := range cases {
		if got := IsValidCampaignID(c.in); got != c.want {
			t.Errorf("IsValidCampaignID(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSanitizeCampaignID(t *testing.T) {
	if got := SanitizeCampaignID("ab c;d/e_f-1"); got != "abcde_f-1" {
		t.Fatalf("SanitizeCampaignID = %q", got)
	}
}

func TestIsValidTargetURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/path", true},
		{"http://example.com", true},
		{"https://sub.example.com/a?b=c", true},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"http://127.0.0.1/x", false},
		{"https://10.0.0.5/", false},
		{"http://192.168.1.10/admin", false},
		{"http://172.16.0.1/", false},
		{"http://localhost:8080/", false},
		{"http://0.0.0.0/", false},
		{"http://[::1]/", false},
		{"http://printer.local/", false},
		{"not a url", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValidTargetURL(c.in); got != c.want {
			t.Errorf("IsValidTargetURL(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEncodeDecodeURLRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com/path",
		"https://example.com/path?a=1&b=two words",
		"https://example.com/%2Fencoded#frag",
	}
	for _, u := range urls {
		if got := DecodeURL(EncodeURL(u)); got != u {
			t.Errorf("round trip of %q produced %q", u, got)
		}
	}
	// undecodable input comes back unchanged
	if got := DecodeURL("%zz"); got != "%zz" {
		t.Fatalf("DecodeURL(%%zz) = %q", got)
	}
}

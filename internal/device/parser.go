// Package device turns raw User-Agent strings into the structured
// descriptor stored alongside click records.
package device

import (
	ua "github.com/mileusna/useragent"

	"clicktrack/internal/core/domain"
)

// Parse extracts a DeviceInfo snapshot from a User-Agent string. A UA that
// reports an OS but no device class is treated as desktop; anything the
// parser cannot place stays unknown.
func Parse(userAgent string) domain.DeviceInfo {
	parsed := ua.Parse(userAgent)

	deviceType := domain.DeviceUnknown
	switch {
	case parsed.Mobile:
		deviceType = domain.DeviceMobile
	case parsed.Tablet:
		deviceType = domain.DeviceTablet
	case parsed.Desktop:
		deviceType = domain.DeviceDesktop
	case parsed.OS != "":
		deviceType = domain.DeviceDesktop
	}

	// The parser echoes a token it cannot classify back as Name. With no
	// version, OS or device class to back it up, that is not a browser
	// identification and the raw token must not surface as one.
	browser := parsed.Name
	if parsed.Version == "" && parsed.OS == "" && deviceType == domain.DeviceUnknown {
		browser = ""
	}

	return domain.DeviceInfo{
		Type:           deviceType,
		Browser:        orUnknown(browser),
		BrowserVersion: orUnknown(parsed.Version),
		OS:             orUnknown(parsed.OS),
		OSVersion:      orUnknown(parsed.OSVersion),
		UserAgent:      userAgent,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// Package enrich derives the analytics fields stored on download history
// entries (browser/OS/device from the user agent, coarse location from the
// IP). Everything here is best-effort: failures produce empty fields, never
// errors, because history recording must not depend on it.
package enrich

import (
	"strings"

	"github.com/mssola/useragent"
)

// UAResult contains parsed user-agent data.
type UAResult struct {
	Browser    string
	OS         string
	DeviceType string
	IsBot      bool
}

// ParseUserAgent parses a raw User-Agent header. An empty input returns a
// zero result.
func ParseUserAgent(uaString string) UAResult {
	if uaString == "" {
		return UAResult{}
	}

	ua := useragent.New(uaString)
	browser, _ := ua.Browser()

	result := UAResult{
		Browser: browser,
		OS:      ua.OS(),
		IsBot:   ua.Bot(),
	}

	switch {
	case ua.Mobile():
		result.DeviceType = "mobile"
	case isTablet(uaString):
		result.DeviceType = "tablet"
	default:
		result.DeviceType = "desktop"
	}

	return result
}

func isTablet(ua string) bool {
	for _, t := range []string{"iPad", "Tablet", "PlayBook", "Silk"} {
		if strings.Contains(ua, t) && !strings.Contains(ua, "Mobile") {
			return true
		}
	}
	return false
}

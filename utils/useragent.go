package utils

import "strings"

// DetectDeviceType menebak jenis device dari User-Agent untuk ditampilkan
// di dashboard sesi meja.
func DetectDeviceType(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	ua := strings.ToLower(userAgent)

	for _, kw := range []string{"iphone", "ipod", "blackberry", "iemobile", "opera mini", "opera mobi"} {
		if strings.Contains(ua, kw) {
			return "Mobile"
		}
	}
	if strings.Contains(ua, "android") {
		if strings.Contains(ua, "mobile") {
			return "Mobile"
		}
		return "Tablet"
	}
	for _, kw := range []string{"tablet", "ipad", "playbook", "silk"} {
		if strings.Contains(ua, kw) {
			return "Tablet"
		}
	}
	if strings.Contains(ua, "mobile") {
		return "Mobile"
	}

	return "Desktop"
}

// DetectBrowser menebak browser dari User-Agent. Urutan pemeriksaan penting:
// UA Chrome memuat "safari", UA Edge memuat "chrome".
func DetectBrowser(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "edg"):
		return "Microsoft Edge"
	case strings.Contains(ua, "opr"), strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "chrome"), strings.Contains(ua, "crios"):
		return "Chrome"
	case strings.Contains(ua, "firefox"), strings.Contains(ua, "fxios"):
		return "Firefox"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "msie"), strings.Contains(ua, "trident"):
		return "Internet Explorer"
	}

	return "Unknown"
}
